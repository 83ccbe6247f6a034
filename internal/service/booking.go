package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stpnv0/AdventureBooker/internal/domain"
	"github.com/stpnv0/AdventureBooker/internal/service/ports"
	"github.com/wb-go/wbf/logger"
	"github.com/wb-go/wbf/retry"
)

type BookingService struct {
	bookingRepo ports.BookingRepo
	users       ports.UserDirectory
	offerings   ports.OfferingCatalog
	notifier    ports.BookingNotifier
	idempotency ports.IdempotencyStore
	strategy    retry.Strategy
	logger      logger.Logger
	now         func() time.Time
}

func NewBookingService(
	bookingRepo ports.BookingRepo,
	users ports.UserDirectory,
	offerings ports.OfferingCatalog,
	notifier ports.BookingNotifier,
	idempotency ports.IdempotencyStore,
	strategy retry.Strategy,
	logger logger.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		users:       users,
		offerings:   offerings,
		notifier:    notifier,
		idempotency: idempotency,
		strategy:    strategy,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *BookingService) Create(ctx context.Context, input domain.CreateBookingInput) (*domain.BookingDetails, error) {
	if input.IdempotencyKey != "" {
		if details, ok := s.replay(ctx, input.IdempotencyKey); ok {
			return details, nil
		}
	}

	now := s.now().UTC()
	booking := &domain.Booking{
		ID:               uuid.New().String(),
		UserID:           input.UserID,
		OfferingID:       input.OfferingID,
		StartDate:        domain.Date(input.StartDate),
		EndDate:          domain.Date(input.EndDate),
		ParticipantCount: input.ParticipantCount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}

	offering, err := s.offerings.GetByID(ctx, input.OfferingID)
	if err != nil {
		return nil, fmt.Errorf("check offering: %w", err)
	}

	if err = s.withRetry(func() error {
		return s.bookingRepo.Create(ctx, booking)
	}); err != nil {
		// параллельный запрос с тем же ключом мог успеть создать бронь
		if input.IdempotencyKey != "" && errors.Is(err, domain.ErrBookingConflict) {
			if details, ok := s.replay(ctx, input.IdempotencyKey); ok {
				return details, nil
			}
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("booking created",
		logger.String("booking_id", booking.ID),
		logger.String("offering_id", booking.OfferingID),
		logger.String("user_id", booking.UserID),
	)

	if input.IdempotencyKey != "" {
		if err = s.idempotency.Save(ctx, input.IdempotencyKey, booking.ID); err != nil {
			s.logger.Warn("failed to save idempotency key",
				logger.String("booking_id", booking.ID),
				logger.String("error", err.Error()),
			)
		}
	}

	go s.notifier.NotifyBookingCreated(context.WithoutCancel(ctx), user, offering, booking)

	details := &domain.BookingDetails{
		Booking:  *booking,
		User:     user.Ref(),
		Offering: offering.Ref(),
	}
	details.Label(now)

	return details, nil
}

func (s *BookingService) replay(ctx context.Context, key string) (*domain.BookingDetails, bool) {
	id, found, err := s.idempotency.Get(ctx, key)
	if err != nil {
		s.logger.Warn("idempotency lookup failed", logger.String("error", err.Error()))
		return nil, false
	}
	if !found {
		return nil, false
	}

	details, err := s.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("idempotent booking not found",
			logger.String("booking_id", id),
			logger.String("error", err.Error()),
		)
		return nil, false
	}

	return details, true
}

func (s *BookingService) GetByID(ctx context.Context, id string) (*domain.BookingDetails, error) {
	details, err := s.bookingRepo.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	details.Label(s.now().UTC())

	return details, nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]*domain.BookingDetails, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}

	list, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	now := s.now().UTC()
	for _, d := range list {
		d.Label(now)
	}

	return list, nil
}

func (s *BookingService) Update(ctx context.Context, id string, patch domain.BookingPatch) (*domain.BookingDetails, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	err := s.withRetry(func() error {
		b, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		if err = domain.CanEdit(b, now); err != nil {
			return err
		}

		oldStart, oldEnd := b.StartDate, b.EndDate
		if patch.StartDate != nil {
			b.StartDate = domain.Date(*patch.StartDate)
		}
		if patch.EndDate != nil {
			b.EndDate = domain.Date(*patch.EndDate)
		}
		if patch.ParticipantCount != nil {
			b.ParticipantCount = *patch.ParticipantCount
		}
		if err = b.Validate(); err != nil {
			return err
		}

		datesChanged := !b.StartDate.Equal(oldStart) || !b.EndDate.Equal(oldEnd)
		prev := b.UpdatedAt
		b.UpdatedAt = now

		return s.bookingRepo.Update(ctx, b, prev, datesChanged)
	})
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.logger.Info("booking updated", logger.String("booking_id", id))

	return s.GetByID(ctx, id)
}

func (s *BookingService) AttachReview(ctx context.Context, id string, review domain.ReviewInput) (*domain.BookingDetails, error) {
	if review.Rating < domain.MinRating || review.Rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d",
			domain.ErrValidation, domain.MinRating, domain.MaxRating)
	}

	err := s.withRetry(func() error {
		b, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		if err = domain.CanReview(b, now); err != nil {
			return err
		}

		rating := review.Rating
		b.Rating = &rating
		b.Comment = review.Comment
		prev := b.UpdatedAt
		b.UpdatedAt = now

		return s.bookingRepo.Update(ctx, b, prev, false)
	})
	if err != nil {
		return nil, fmt.Errorf("attach review: %w", err)
	}

	s.logger.Info("review attached",
		logger.String("booking_id", id),
		logger.Int("rating", review.Rating),
	)

	return s.GetByID(ctx, id)
}

// Cancel is idempotent: cancelling a cancelled booking succeeds without a write.
func (s *BookingService) Cancel(ctx context.Context, id string) (*domain.BookingDetails, error) {
	var cancelled *domain.Booking

	err := s.withRetry(func() error {
		b, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b.Cancelled {
			return nil
		}

		prev := b.UpdatedAt
		b.Cancelled = true
		b.UpdatedAt = s.now().UTC()
		if err = s.bookingRepo.Update(ctx, b, prev, false); err != nil {
			return err
		}

		cancelled = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	if cancelled != nil {
		s.logger.Info("booking cancelled",
			logger.String("booking_id", id),
			logger.String("user_id", cancelled.UserID),
		)
		go s.notifyBooking(context.WithoutCancel(ctx), cancelled, s.notifier.NotifyBookingCancelled)
	}

	return s.GetByID(ctx, id)
}

// Delete removes the booking regardless of its lifecycle state.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	s.logger.Info("booking deleted", logger.String("booking_id", id))

	return nil
}

// CheckAvailability returns the booking that would collide with c, or nil.
func (s *BookingService) CheckAvailability(ctx context.Context, c domain.Candidate) (*domain.Booking, error) {
	c.StartDate, c.EndDate = domain.Date(c.StartDate), domain.Date(c.EndDate)
	if c.UserID == "" || c.OfferingID == "" {
		return nil, fmt.Errorf("%w: user_id and offering_id are required", domain.ErrValidation)
	}
	if !c.StartDate.Before(c.EndDate) {
		return nil, fmt.Errorf("%w: start_date must be before end_date", domain.ErrValidation)
	}

	existing, err := s.bookingRepo.ListActiveForPair(ctx, c.UserID, c.OfferingID)
	if err != nil {
		return nil, fmt.Errorf("list pair bookings: %w", err)
	}

	return domain.CheckConflict(existing, c), nil
}

// RemindReviews claims bookings that finished without a review and asks their owners for one.
func (s *BookingService) RemindReviews(ctx context.Context) ([]*domain.Booking, error) {
	due, err := s.bookingRepo.MarkReviewReminders(ctx, domain.Date(s.now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("mark review reminders: %w", err)
	}

	if len(due) > 0 {
		s.logger.Info("review reminders claimed", logger.Int("count", len(due)))

		go s.notifyReviews(context.WithoutCancel(ctx), due)
	}

	return due, nil
}

func (s *BookingService) notifyReviews(ctx context.Context, bookings []*domain.Booking) {
	for _, b := range bookings {
		s.notifyBooking(ctx, b, s.notifier.NotifyReviewRequested)
	}
}

func (s *BookingService) notifyBooking(
	ctx context.Context,
	b *domain.Booking,
	notify func(context.Context, *domain.User, *domain.Offering, *domain.Booking),
) {
	user, err := s.users.GetByID(ctx, b.UserID)
	if err != nil {
		s.logger.Error("failed to get user for notification",
			logger.String("user_id", b.UserID),
			logger.String("error", err.Error()),
		)
		return
	}

	offering, err := s.offerings.GetByID(ctx, b.OfferingID)
	if err != nil {
		s.logger.Error("failed to get offering for notification",
			logger.String("offering_id", b.OfferingID),
			logger.String("error", err.Error()),
		)
		return
	}

	notify(ctx, user, offering, b)
}

// withRetry repeats op while it fails with a persistence error. Semantic
// errors end the loop and are returned untouched.
func (s *BookingService) withRetry(op func() error) error {
	var final error

	err := retry.Do(func() error {
		err := op()
		if err != nil && errors.Is(err, domain.ErrPersistence) {
			s.logger.Warn("retrying after persistence error", logger.String("error", err.Error()))
			return err
		}
		final = err
		return nil
	}, s.strategy)
	if err != nil {
		return err
	}

	return final
}
