package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
	"github.com/stpnv0/AdventureBooker/internal/service/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryService(t *testing.T) (*BookingQueryService, *mocks.MockBookingRepo) {
	t.Helper()
	repo := mocks.NewMockBookingRepo(t)
	svc := NewBookingQueryService(repo)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func TestBookingQueryService_List_Defaults(t *testing.T) {
	svc, repo := newQueryService(t)

	repo.EXPECT().
		Search(context.Background(), domain.ListQuery{Page: 1, PageSize: domain.DefaultPageSize, Search: "alice"}).
		Return(nil, 0, nil)

	page, err := svc.List(context.Background(), domain.ListQuery{Search: "  alice "})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalCount)
}

func TestBookingQueryService_List_LabelsRows(t *testing.T) {
	svc, repo := newQueryService(t)

	rows := []*domain.BookingDetails{
		{
			Booking:  domain.Booking{ID: "b1", StartDate: date("2025-06-01"), EndDate: date("2025-06-03"), ParticipantCount: 2},
			Offering: domain.OfferingRef{UnitPrice: 10000},
		},
		{
			Booking:  domain.Booking{ID: "b2", StartDate: date("2025-06-20"), EndDate: date("2025-06-21"), ParticipantCount: 1},
			Offering: domain.OfferingRef{UnitPrice: 2500},
		},
		{
			Booking:  domain.Booking{ID: "b3", StartDate: date("2025-06-20"), EndDate: date("2025-06-21"), ParticipantCount: 1, Cancelled: true},
			Offering: domain.OfferingRef{UnitPrice: 2500},
		},
	}
	q := domain.ListQuery{Page: 2, PageSize: 3, Sort: domain.SortDateAsc}
	repo.EXPECT().Search(context.Background(), q).Return(rows, 6, nil)

	page, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 6, page.TotalCount)
	require.Len(t, page.Items, 3)

	assert.Equal(t, domain.BookingStatusCompleted, page.Items[0].Status)
	assert.Equal(t, domain.Money(40000), page.Items[0].TotalPrice)
	assert.Equal(t, domain.BookingStatusActive, page.Items[1].Status)
	assert.Equal(t, domain.Money(2500), page.Items[1].TotalPrice)
	assert.Equal(t, domain.BookingStatusCancelled, page.Items[2].Status)
}

func TestBookingQueryService_List_Invalid(t *testing.T) {
	svc, _ := newQueryService(t)

	cases := []domain.ListQuery{
		{Page: -1},
		{PageSize: domain.MaxPageSize + 1},
		{PageSize: -5},
		{Sort: "nameAsc"},
	}

	for _, q := range cases {
		_, err := svc.List(context.Background(), q)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestBookingQueryService_List_RepoError(t *testing.T) {
	svc, repo := newQueryService(t)

	repo.EXPECT().Search(context.Background(), domain.ListQuery{Page: 1, PageSize: 20}).
		Return(nil, 0, errors.New("db down"))

	_, err := svc.List(context.Background(), domain.ListQuery{})
	assert.Error(t, err)
}
