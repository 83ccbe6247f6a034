package scheduler

import (
	"context"
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
	"github.com/wb-go/wbf/logger"
)

type reviewReminder interface {
	RemindReviews(ctx context.Context) ([]*domain.Booking, error)
}

// Scheduler periodically asks owners of finished, unreviewed bookings for a review.
type Scheduler struct {
	bookingService reviewReminder
	interval       time.Duration
	logger         logger.Logger
}

func New(
	bookingService reviewReminder,
	interval time.Duration,
	logger logger.Logger,
) *Scheduler {
	return &Scheduler{
		bookingService: bookingService,
		interval:       interval,
		logger:         logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("review reminder scheduler started",
		logger.Duration("interval", s.interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("review reminder scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	reminded, err := s.bookingService.RemindReviews(ctx)
	if err != nil {
		s.logger.Error("failed to send review reminders",
			logger.String("error", err.Error()),
		)
		return
	}

	for _, b := range reminded {
		s.logger.Debug("review requested",
			logger.String("booking_id", b.ID),
			logger.String("user_id", b.UserID),
			logger.String("offering_id", b.OfferingID),
		)
	}
}
