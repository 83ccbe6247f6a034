package ports

import (
	"context"
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
)

type BookingRepo interface {
	// Create runs the availability check and the insert atomically per (user, offering).
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetDetails(ctx context.Context, id string) (*domain.BookingDetails, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.BookingDetails, error)
	ListActiveForPair(ctx context.Context, userID, offeringID string) ([]*domain.Booking, error)
	// Update persists b only if its stored updated_at still equals prevUpdatedAt.
	// When recheck is set the availability check is repeated under the pair lock.
	Update(ctx context.Context, b *domain.Booking, prevUpdatedAt time.Time, recheck bool) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q domain.ListQuery) ([]*domain.BookingDetails, int, error)
	MarkReviewReminders(ctx context.Context, today time.Time) ([]*domain.Booking, error)
}
