package ports

import "context"

// IdempotencyStore remembers which booking a create request key produced.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (bookingID string, found bool, err error)
	Save(ctx context.Context, key, bookingID string) error
}
