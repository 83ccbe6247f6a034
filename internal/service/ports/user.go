package ports

import (
	"context"

	"github.com/stpnv0/AdventureBooker/internal/domain"
)

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
