package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
)

type bookingSearcher interface {
	Search(ctx context.Context, q domain.ListQuery) ([]*domain.BookingDetails, int, error)
}

// BookingQueryService serves the paginated staff listing. Filtering, price
// computation and ordering happen in the store; this layer validates the
// query and labels each row with its lifecycle status.
type BookingQueryService struct {
	repo bookingSearcher
	now  func() time.Time
}

func NewBookingQueryService(repo bookingSearcher) *BookingQueryService {
	return &BookingQueryService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *BookingQueryService) List(ctx context.Context, q domain.ListQuery) (*domain.BookingPage, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}

	items, total, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bookings: %w", err)
	}

	now := s.now().UTC()
	for _, d := range items {
		d.Label(now)
	}
	if items == nil {
		items = []*domain.BookingDetails{}
	}

	return &domain.BookingPage{Items: items, TotalCount: total}, nil
}
