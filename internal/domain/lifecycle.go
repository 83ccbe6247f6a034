package domain

import "time"

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// EffectiveStatus derives the lifecycle state. CANCELLED wins over COMPLETED;
// a booking is COMPLETED once its end date lies before the calendar day of now.
func EffectiveStatus(now, endDate time.Time, cancelled bool) BookingStatus {
	if cancelled {
		return BookingStatusCancelled
	}
	if Date(endDate).Before(Date(now)) {
		return BookingStatusCompleted
	}
	return BookingStatusActive
}

// CanEdit reports whether dates or participant count may change.
func CanEdit(b *Booking, now time.Time) error {
	if st := b.Status(now); st != BookingStatusActive {
		return &LifecycleError{Action: "edit", Status: st}
	}
	return nil
}

// CanReview reports whether a rating may be attached.
func CanReview(b *Booking, now time.Time) error {
	st := b.Status(now)
	if st != BookingStatusCompleted {
		return &LifecycleError{Action: "review", Status: st}
	}
	if b.Rating != nil {
		return &LifecycleError{Action: "review an already reviewed", Status: st}
	}
	return nil
}
