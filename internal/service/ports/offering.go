package ports

import (
	"context"

	"github.com/stpnv0/AdventureBooker/internal/domain"
)

type OfferingCatalog interface {
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
}
