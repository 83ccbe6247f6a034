package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

type OfferingRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewOfferingRepo(db *dbpg.DB) *OfferingRepository {
	return &OfferingRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

func (r *OfferingRepository) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	query := `SELECT id, name, description, unit_price_cents, created_at
			  FROM offerings
			  WHERE id = $1`

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		return nil, fmt.Errorf("get offering: %w", mapError(err))
	}

	var o domain.Offering
	if err = row.Scan(&o.ID, &o.Name, &o.Description, &o.UnitPrice, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("scan offering: %w", mapError(err))
	}

	return &o, nil
}
