package ports

import (
	"context"

	"github.com/stpnv0/AdventureBooker/internal/domain"
)

type BookingNotifier interface {
	NotifyBookingCreated(ctx context.Context, user *domain.User, offering *domain.Offering, booking *domain.Booking)
	NotifyBookingCancelled(ctx context.Context, user *domain.User, offering *domain.Offering, booking *domain.Booking)
	NotifyReviewRequested(ctx context.Context, user *domain.User, offering *domain.Offering, booking *domain.Booking)
}
