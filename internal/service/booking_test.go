package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
	"github.com/stpnv0/AdventureBooker/internal/service/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/logger"
	"github.com/wb-go/wbf/retry"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := logger.InitLogger("slog", "test", "test", logger.WithLevel(logger.ErrorLevel))
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

func date(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

var testStrategy = retry.Strategy{Attempts: 3, Delay: time.Millisecond, Backoff: 1}

type deps struct {
	bookingRepo *mocks.MockBookingRepo
	users       *mocks.MockUserDirectory
	offerings   *mocks.MockOfferingCatalog
	notifier    *mocks.MockBookingNotifier
	idempotency *mocks.MockIdempotencyStore
}

func newService(t *testing.T) (*BookingService, deps) {
	t.Helper()
	d := deps{
		bookingRepo: mocks.NewMockBookingRepo(t),
		users:       mocks.NewMockUserDirectory(t),
		offerings:   mocks.NewMockOfferingCatalog(t),
		notifier:    mocks.NewMockBookingNotifier(t),
		idempotency: mocks.NewMockIdempotencyStore(t),
	}

	svc := NewBookingService(d.bookingRepo, d.users, d.offerings, d.notifier, d.idempotency, testStrategy, newTestLogger(t))
	svc.now = func() time.Time { return testNow }

	return svc, d
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notification was not sent")
	}
}

var (
	alice = &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	trek  = &domain.Offering{ID: "p1", Name: "Glacier Trek", UnitPrice: 10000}
)

func createInput() domain.CreateBookingInput {
	return domain.CreateBookingInput{
		UserID:           "u1",
		OfferingID:       "p1",
		StartDate:        date("2025-06-01"),
		EndDate:          date("2025-06-03"),
		ParticipantCount: 2,
	}
}

func TestBookingService_Create(t *testing.T) {
	svc, d := newService(t)
	done := make(chan struct{})

	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(alice, nil)
	d.offerings.EXPECT().GetByID(mock.Anything, "p1").Return(trek, nil)
	d.bookingRepo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.ID != "" && b.UserID == "u1" && b.OfferingID == "p1" &&
			b.StartDate.Equal(date("2025-06-01")) && b.ParticipantCount == 2 &&
			b.CreatedAt.Equal(testNow) && b.UpdatedAt.Equal(testNow)
	})).Return(nil)
	d.notifier.EXPECT().NotifyBookingCreated(mock.Anything, alice, trek, mock.Anything).
		Run(func(context.Context, *domain.User, *domain.Offering, *domain.Booking) { close(done) })

	details, err := svc.Create(context.Background(), createInput())

	require.NoError(t, err)
	assert.Equal(t, domain.Money(40000), details.TotalPrice)
	assert.Equal(t, "400.00", details.TotalPrice.String())
	assert.Equal(t, domain.BookingStatusCompleted, details.Status)
	assert.Equal(t, "Alice", details.User.Name)
	assert.Equal(t, "Glacier Trek", details.Offering.Name)

	wait(t, done)
}

func TestBookingService_Create_Validation(t *testing.T) {
	svc, _ := newService(t)

	in := createInput()
	in.EndDate = in.StartDate
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = createInput()
	in.ParticipantCount = 0
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_Create_UnknownUser(t *testing.T) {
	svc, d := newService(t)

	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(nil, domain.ErrUserNotFound)

	_, err := svc.Create(context.Background(), createInput())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestBookingService_Create_ConflictIsNotRetried(t *testing.T) {
	svc, d := newService(t)
	existing := &domain.Booking{ID: "b0", StartDate: date("2025-06-02"), EndDate: date("2025-06-05")}

	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(alice, nil)
	d.offerings.EXPECT().GetByID(mock.Anything, "p1").Return(trek, nil)
	d.bookingRepo.EXPECT().Create(mock.Anything, mock.Anything).
		Return(domain.NewConflictError(existing)).Once()

	_, err := svc.Create(context.Background(), createInput())

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "b0", conflict.Existing.ID)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
}

func TestBookingService_Create_RetriesPersistence(t *testing.T) {
	svc, d := newService(t)
	done := make(chan struct{})

	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(alice, nil)
	d.offerings.EXPECT().GetByID(mock.Anything, "p1").Return(trek, nil)
	d.bookingRepo.EXPECT().Create(mock.Anything, mock.Anything).
		Return(domain.ErrPersistence).Once()
	d.bookingRepo.EXPECT().Create(mock.Anything, mock.Anything).
		Return(nil).Once()
	d.notifier.EXPECT().NotifyBookingCreated(mock.Anything, alice, trek, mock.Anything).
		Run(func(context.Context, *domain.User, *domain.Offering, *domain.Booking) { close(done) })

	_, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	wait(t, done)
}

func TestBookingService_Create_PersistenceExhausted(t *testing.T) {
	svc, d := newService(t)

	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(alice, nil)
	d.offerings.EXPECT().GetByID(mock.Anything, "p1").Return(trek, nil)
	d.bookingRepo.EXPECT().Create(mock.Anything, mock.Anything).
		Return(domain.ErrStaleBooking).Times(testStrategy.Attempts)

	_, err := svc.Create(context.Background(), createInput())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestBookingService_Create_IdempotentReplay(t *testing.T) {
	svc, d := newService(t)

	in := createInput()
	in.IdempotencyKey = "key-1"
	stored := &domain.BookingDetails{
		Booking:  domain.Booking{ID: "b1", StartDate: date("2025-06-01"), EndDate: date("2025-06-03"), ParticipantCount: 2},
		Offering: trek.Ref(),
	}

	d.idempotency.EXPECT().Get(mock.Anything, "key-1").Return("b1", true, nil)
	d.bookingRepo.EXPECT().GetDetails(mock.Anything, "b1").Return(stored, nil)

	details, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "b1", details.Booking.ID)
	assert.Equal(t, domain.Money(40000), details.TotalPrice)
}

func TestBookingService_Create_SavesIdempotencyKey(t *testing.T) {
	svc, d := newService(t)
	done := make(chan struct{})

	in := createInput()
	in.IdempotencyKey = "key-2"

	d.idempotency.EXPECT().Get(mock.Anything, "key-2").Return("", false, nil)
	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(alice, nil)
	d.offerings.EXPECT().GetByID(mock.Anything, "p1").Return(trek, nil)
	d.bookingRepo.EXPECT().Create(mock.Anything, mock.Anything).Return(nil)
	d.idempotency.EXPECT().Save(mock.Anything, "key-2", mock.AnythingOfType("string")).Return(errors.New("redis down"))
	d.notifier.EXPECT().NotifyBookingCreated(mock.Anything, alice, trek, mock.Anything).
		Run(func(context.Context, *domain.User, *domain.Offering, *domain.Booking) { close(done) })

	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	wait(t, done)
}

func TestBookingService_Create_ConcurrentSameKeyReplays(t *testing.T) {
	svc, d := newService(t)

	in := createInput()
	in.IdempotencyKey = "key-3"
	first := &domain.Booking{ID: "b1", StartDate: date("2025-06-01"), EndDate: date("2025-06-03"), ParticipantCount: 2}

	d.idempotency.EXPECT().Get(mock.Anything, "key-3").Return("", false, nil).Once()
	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(alice, nil)
	d.offerings.EXPECT().GetByID(mock.Anything, "p1").Return(trek, nil)
	d.bookingRepo.EXPECT().Create(mock.Anything, mock.Anything).
		Return(domain.NewConflictError(first)).Once()
	d.idempotency.EXPECT().Get(mock.Anything, "key-3").Return("b1", true, nil).Once()
	d.bookingRepo.EXPECT().GetDetails(mock.Anything, "b1").
		Return(&domain.BookingDetails{Booking: *first, Offering: trek.Ref()}, nil)

	details, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "b1", details.Booking.ID)
	assert.Equal(t, domain.Money(40000), details.TotalPrice)
}

func TestBookingService_Create_ConflictWithUnresolvedKey(t *testing.T) {
	svc, d := newService(t)

	in := createInput()
	in.IdempotencyKey = "key-4"
	existing := &domain.Booking{ID: "b0", StartDate: date("2025-06-02"), EndDate: date("2025-06-05")}

	d.idempotency.EXPECT().Get(mock.Anything, "key-4").Return("", false, nil).Twice()
	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(alice, nil)
	d.offerings.EXPECT().GetByID(mock.Anything, "p1").Return(trek, nil)
	d.bookingRepo.EXPECT().Create(mock.Anything, mock.Anything).
		Return(domain.NewConflictError(existing)).Once()

	_, err := svc.Create(context.Background(), in)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "b0", conflict.Existing.ID)
}

func activeBooking() *domain.Booking {
	created := testNow.Add(-48 * time.Hour)
	return &domain.Booking{
		ID: "b1", UserID: "u1", OfferingID: "p1",
		StartDate: date("2025-06-12"), EndDate: date("2025-06-15"),
		ParticipantCount: 2, CreatedAt: created, UpdatedAt: created,
	}
}

func completedBooking() *domain.Booking {
	b := activeBooking()
	b.StartDate, b.EndDate = date("2025-06-01"), date("2025-06-03")
	return b
}

func TestBookingService_Update_DatesRecheck(t *testing.T) {
	svc, d := newService(t)
	stored := activeBooking()
	prev := stored.UpdatedAt
	newEnd := date("2025-06-16")

	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").Return(stored, nil)
	d.bookingRepo.EXPECT().Update(mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.EndDate.Equal(newEnd) && b.UpdatedAt.Equal(testNow)
	}), prev, true).Return(nil)
	d.bookingRepo.EXPECT().GetDetails(mock.Anything, "b1").Return(&domain.BookingDetails{Booking: *stored}, nil)

	_, err := svc.Update(context.Background(), "b1", domain.BookingPatch{EndDate: &newEnd})
	require.NoError(t, err)
}

func TestBookingService_Update_ParticipantsOnly(t *testing.T) {
	svc, d := newService(t)
	stored := activeBooking()
	prev := stored.UpdatedAt
	n := 5

	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").Return(stored, nil)
	d.bookingRepo.EXPECT().Update(mock.Anything, mock.Anything, prev, false).Return(nil)
	d.bookingRepo.EXPECT().GetDetails(mock.Anything, "b1").Return(&domain.BookingDetails{Booking: *stored}, nil)

	_, err := svc.Update(context.Background(), "b1", domain.BookingPatch{ParticipantCount: &n})
	require.NoError(t, err)
}

func TestBookingService_Update_StaleRetried(t *testing.T) {
	svc, d := newService(t)
	n := 3

	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").
		RunAndReturn(func(context.Context, string) (*domain.Booking, error) { return activeBooking(), nil }).
		Times(2)
	d.bookingRepo.EXPECT().Update(mock.Anything, mock.Anything, mock.Anything, false).
		Return(domain.ErrStaleBooking).Once()
	d.bookingRepo.EXPECT().Update(mock.Anything, mock.Anything, mock.Anything, false).
		Return(nil).Once()
	d.bookingRepo.EXPECT().GetDetails(mock.Anything, "b1").Return(&domain.BookingDetails{Booking: *activeBooking()}, nil)

	_, err := svc.Update(context.Background(), "b1", domain.BookingPatch{ParticipantCount: &n})
	require.NoError(t, err)
}

func TestBookingService_Update_Gates(t *testing.T) {
	svc, d := newService(t)
	n := 3

	_, err := svc.Update(context.Background(), "b1", domain.BookingPatch{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").Return(completedBooking(), nil).Once()
	_, err = svc.Update(context.Background(), "b1", domain.BookingPatch{ParticipantCount: &n})

	var lerr *domain.LifecycleError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, domain.BookingStatusCompleted, lerr.Status)

	// дата окончания раньше начала
	badEnd := date("2025-06-11")
	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").Return(activeBooking(), nil).Once()
	_, err = svc.Update(context.Background(), "b1", domain.BookingPatch{EndDate: &badEnd})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_AttachReview(t *testing.T) {
	svc, d := newService(t)
	comment := "windy but great"

	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").Return(completedBooking(), nil)
	d.bookingRepo.EXPECT().Update(mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Rating != nil && *b.Rating == 5 && b.Comment != nil && *b.Comment == comment
	}), mock.Anything, false).Return(nil)
	d.bookingRepo.EXPECT().GetDetails(mock.Anything, "b1").Return(&domain.BookingDetails{Booking: *completedBooking()}, nil)

	_, err := svc.AttachReview(context.Background(), "b1", domain.ReviewInput{Rating: 5, Comment: &comment})
	require.NoError(t, err)
}

func TestBookingService_AttachReview_Gates(t *testing.T) {
	svc, d := newService(t)

	_, err := svc.AttachReview(context.Background(), "b1", domain.ReviewInput{Rating: 6})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AttachReview(context.Background(), "b1", domain.ReviewInput{Rating: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").Return(activeBooking(), nil).Once()
	_, err = svc.AttachReview(context.Background(), "b1", domain.ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, domain.ErrLifecycle)

	reviewed := completedBooking()
	r := 3
	reviewed.Rating = &r
	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").Return(reviewed, nil).Once()
	_, err = svc.AttachReview(context.Background(), "b1", domain.ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, domain.ErrLifecycle)
}

func TestBookingService_Cancel(t *testing.T) {
	svc, d := newService(t)
	done := make(chan struct{})

	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").Return(activeBooking(), nil)
	d.bookingRepo.EXPECT().Update(mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Cancelled
	}), mock.Anything, false).Return(nil)
	d.bookingRepo.EXPECT().GetDetails(mock.Anything, "b1").Return(&domain.BookingDetails{Booking: *activeBooking()}, nil)
	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(alice, nil)
	d.offerings.EXPECT().GetByID(mock.Anything, "p1").Return(trek, nil)
	d.notifier.EXPECT().NotifyBookingCancelled(mock.Anything, alice, trek, mock.Anything).
		Run(func(context.Context, *domain.User, *domain.Offering, *domain.Booking) { close(done) })

	_, err := svc.Cancel(context.Background(), "b1")
	require.NoError(t, err)

	wait(t, done)
}

func TestBookingService_Cancel_AlreadyCancelled(t *testing.T) {
	svc, d := newService(t)
	cancelled := completedBooking()
	cancelled.Cancelled = true

	d.bookingRepo.EXPECT().GetByID(mock.Anything, "b1").Return(cancelled, nil)
	d.bookingRepo.EXPECT().GetDetails(mock.Anything, "b1").Return(&domain.BookingDetails{Booking: *cancelled}, nil)

	details, err := svc.Cancel(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, details.Status)
}

func TestBookingService_Delete(t *testing.T) {
	svc, d := newService(t)

	d.bookingRepo.EXPECT().Delete(mock.Anything, "b1").Return(nil).Once()
	require.NoError(t, svc.Delete(context.Background(), "b1"))

	d.bookingRepo.EXPECT().Delete(mock.Anything, "b2").Return(domain.ErrBookingNotFound).Once()
	assert.ErrorIs(t, svc.Delete(context.Background(), "b2"), domain.ErrBookingNotFound)
}

func TestBookingService_ListByUser_UnknownUser(t *testing.T) {
	svc, d := newService(t)

	d.users.EXPECT().GetByID(mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

	_, err := svc.ListByUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestBookingService_CheckAvailability(t *testing.T) {
	svc, d := newService(t)

	d.bookingRepo.EXPECT().ListActiveForPair(mock.Anything, "u1", "p1").Return([]*domain.Booking{activeBooking()}, nil)

	hit, err := svc.CheckAvailability(context.Background(), domain.Candidate{
		UserID: "u1", OfferingID: "p1",
		StartDate: date("2025-06-15"), EndDate: date("2025-06-18"),
	})
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "b1", hit.ID)

	hit, err = svc.CheckAvailability(context.Background(), domain.Candidate{
		UserID: "u1", OfferingID: "p1",
		StartDate: date("2025-06-15"), EndDate: date("2025-06-18"),
		ExcludeBookingID: "b1",
	})
	require.NoError(t, err)
	assert.Nil(t, hit)

	_, err = svc.CheckAvailability(context.Background(), domain.Candidate{UserID: "u1", OfferingID: "p1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_RemindReviews(t *testing.T) {
	svc, d := newService(t)
	done := make(chan struct{})

	due := []*domain.Booking{completedBooking()}
	d.bookingRepo.EXPECT().MarkReviewReminders(mock.Anything, date("2025-06-10")).Return(due, nil)
	d.users.EXPECT().GetByID(mock.Anything, "u1").Return(alice, nil)
	d.offerings.EXPECT().GetByID(mock.Anything, "p1").Return(trek, nil)
	d.notifier.EXPECT().NotifyReviewRequested(mock.Anything, alice, trek, due[0]).
		Run(func(context.Context, *domain.User, *domain.Offering, *domain.Booking) { close(done) })

	got, err := svc.RemindReviews(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	wait(t, done)
}

func TestBookingService_RemindReviews_Nothing(t *testing.T) {
	svc, d := newService(t)

	d.bookingRepo.EXPECT().MarkReviewReminders(mock.Anything, mock.Anything).Return(nil, nil)

	got, err := svc.RemindReviews(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
