package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stpnv0/AdventureBooker/internal/domain"
)

const (
	userForeignKey     = "bookings_user_id_fkey"
	offeringForeignKey = "bookings_offering_id_fkey"
)

// mapError translates postgres error codes into domain errors. Anything it
// does not recognise is returned as is.
func mapError(err error) error {
	var pgErr *pq.Error
	if !errors.As(err, &pgErr) {
		return err
	}

	switch string(pgErr.Code) {
	case pgerrcode.ExclusionViolation:
		return domain.ErrBookingConflict
	case pgerrcode.ForeignKeyViolation:
		switch pgErr.Constraint {
		case userForeignKey:
			return domain.ErrUserNotFound
		case offeringForeignKey:
			return domain.ErrOfferingNotFound
		}
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected,
		pgerrcode.LockNotAvailable, pgerrcode.QueryCanceled:
		return fmt.Errorf("%w: %s", domain.ErrPersistence, pgErr.Message)
	}

	if pgErr.Code.Class() == "08" {
		return fmt.Errorf("%w: %s", domain.ErrPersistence, pgErr.Message)
	}

	return err
}
