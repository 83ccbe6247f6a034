package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"testing"

	"github.com/stpnv0/AdventureBooker/internal/domain"
	"github.com/stpnv0/AdventureBooker/internal/idempotency"
	"github.com/stpnv0/AdventureBooker/internal/repository/memory"
	"github.com/stpnv0/AdventureBooker/internal/service/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMemoryService(t *testing.T) (*BookingService, *BookingQueryService) {
	t.Helper()

	store := memory.New()
	store.AddUser(&domain.User{ID: "U1", Name: "Alice", Email: "alice@example.com"})
	store.AddUser(&domain.User{ID: "U2", Name: "Bruno", Email: "bruno@example.com"})
	store.AddOffering(&domain.Offering{ID: "P1", Name: "Glacier Trek", UnitPrice: 10000})

	notifier := mocks.NewMockBookingNotifier(t)
	notifier.EXPECT().NotifyBookingCreated(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	notifier.EXPECT().NotifyBookingCancelled(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()

	svc := NewBookingService(
		store.Bookings(), store.Users(), store.Offerings(),
		notifier, idempotency.Noop{}, testStrategy, newTestLogger(t),
	)
	svc.now = func() time.Time { return testNow }

	query := NewBookingQueryService(store.Bookings())
	query.now = svc.now

	return svc, query
}

func TestScenario_OverlapPerUserAndOffering(t *testing.T) {
	ctx := context.Background()
	svc, query := newMemoryService(t)

	first, err := svc.Create(ctx, domain.CreateBookingInput{
		UserID: "U1", OfferingID: "P1",
		StartDate: date("2025-06-01"), EndDate: date("2025-06-03"),
		ParticipantCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Money(40000), first.TotalPrice)

	_, err = svc.Create(ctx, domain.CreateBookingInput{
		UserID: "U1", OfferingID: "P1",
		StartDate: date("2025-06-02"), EndDate: date("2025-06-04"),
		ParticipantCount: 1,
	})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.Booking.ID, conflict.Existing.ID)

	_, err = svc.Create(ctx, domain.CreateBookingInput{
		UserID: "U2", OfferingID: "P1",
		StartDate: date("2025-06-02"), EndDate: date("2025-06-04"),
		ParticipantCount: 1,
	})
	require.NoError(t, err)

	page, err := query.List(ctx, domain.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
}

func TestScenario_CancelFreesDatesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryService(t)

	in := domain.CreateBookingInput{
		UserID: "U1", OfferingID: "P1",
		StartDate: date("2025-07-01"), EndDate: date("2025-07-04"),
		ParticipantCount: 1,
	}

	b, err := svc.Create(ctx, in)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, b.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)

	again, err := svc.Cancel(ctx, b.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, again.Status)

	two := 2
	_, err = svc.Update(ctx, b.Booking.ID, domain.BookingPatch{ParticipantCount: &two})
	assert.ErrorIs(t, err, domain.ErrLifecycle)

	_, err = svc.Create(ctx, in)
	require.NoError(t, err)
}

func TestScenario_ConcurrentCreates(t *testing.T) {
	const n = 20

	ctx := context.Background()
	svc, _ := newMemoryService(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		success   int
		conflicts int
		other     []error
	)

	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			_, err := svc.Create(ctx, domain.CreateBookingInput{
				UserID: "U1", OfferingID: "P1",
				StartDate:        date("2025-08-01").AddDate(0, 0, i%3),
				EndDate:          date("2025-08-05"),
				ParticipantCount: 1,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, domain.ErrBookingConflict):
				conflicts++
			default:
				other = append(other, fmt.Errorf("goroutine %d: %w", i, err))
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, success)
	assert.Equal(t, n-1, conflicts)
}

func TestScenario_StatusAndGatesShareTheDay(t *testing.T) {
	ctx := context.Background()
	svc, query := newMemoryService(t)

	created, err := svc.Create(ctx, domain.CreateBookingInput{
		UserID: "U1", OfferingID: "P1",
		StartDate: date("2025-06-01"), EndDate: date("2025-06-03"),
		ParticipantCount: 1,
	})
	require.NoError(t, err)
	id := created.Booking.ID

	// 2025-06-04 01:00 UTC+3 is 2025-06-03 22:00 UTC: the last day is not over yet
	local := time.Date(2025, 6, 4, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	svc.now = func() time.Time { return local }
	query.now = svc.now

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusActive, got.Status)

	page, err := query.List(ctx, domain.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.BookingStatusActive, page.Items[0].Status)

	_, err = svc.AttachReview(ctx, id, domain.ReviewInput{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrLifecycle)

	due, err := svc.RemindReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)

	three := 3
	updated, err := svc.Update(ctx, id, domain.BookingPatch{ParticipantCount: &three})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusActive, updated.Status)

	// 2025-06-04 04:00 UTC+3 is 2025-06-04 01:00 UTC
	local = local.Add(3 * time.Hour)

	got, err = svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, got.Status)

	reviewed, err := svc.AttachReview(ctx, id, domain.ReviewInput{Rating: 5})
	require.NoError(t, err)
	require.NotNil(t, reviewed.Booking.Rating)
	assert.Equal(t, 5, *reviewed.Booking.Rating)
}
