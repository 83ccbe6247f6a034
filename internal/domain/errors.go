package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrOfferingNotFound = errors.New("offering not found")
	ErrBookingNotFound  = errors.New("booking not found")
)

var (
	ErrBookingConflict = errors.New("booking dates overlap an existing booking")
	ErrLifecycle       = errors.New("booking state does not allow this action")
)

var (
	ErrPersistence  = errors.New("persistence error")
	ErrStaleBooking = fmt.Errorf("%w: booking was modified concurrently", ErrPersistence)
)

var (
	ErrValidation = errors.New("validation error")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// BookingRange identifies a colliding booking for the caller.
type BookingRange struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
}

type ConflictError struct {
	Existing BookingRange
}

func NewConflictError(b *Booking) *ConflictError {
	return &ConflictError{Existing: BookingRange{ID: b.ID, StartDate: b.StartDate, EndDate: b.EndDate}}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: booking %s from %s to %s",
		ErrBookingConflict.Error(), e.Existing.ID,
		e.Existing.StartDate.Format(DateLayout), e.Existing.EndDate.Format(DateLayout),
	)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrBookingConflict
}

type LifecycleError struct {
	Action string
	Status BookingStatus
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("cannot %s a booking in status %s", e.Action, e.Status)
}

func (e *LifecycleError) Is(target error) bool {
	return target == ErrLifecycle
}
