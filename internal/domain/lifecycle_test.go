package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveStatus(t *testing.T) {
	now := d("2025-06-10")

	assert.Equal(t, BookingStatusActive, EffectiveStatus(now, d("2025-06-12"), false))
	assert.Equal(t, BookingStatusActive, EffectiveStatus(now, d("2025-06-10"), false))
	assert.Equal(t, BookingStatusCompleted, EffectiveStatus(now, d("2025-06-09"), false))
	assert.Equal(t, BookingStatusCancelled, EffectiveStatus(now, d("2025-06-09"), true))
	assert.Equal(t, BookingStatusCancelled, EffectiveStatus(now, d("2025-06-12"), true))
}

func TestEffectiveStatus_NonUTCNow(t *testing.T) {
	// 2025-06-04 01:00 UTC+3 is still 2025-06-03 in UTC
	now := time.Date(2025, 6, 4, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))

	assert.Equal(t, d("2025-06-03"), Date(now))
	assert.Equal(t, BookingStatusActive, EffectiveStatus(now, d("2025-06-03"), false))
	assert.ErrorIs(t, CanReview(&Booking{EndDate: d("2025-06-03")}, now), ErrLifecycle)
	assert.NoError(t, CanEdit(&Booking{EndDate: d("2025-06-03")}, now))
}

func TestCanReview(t *testing.T) {
	now := d("2025-06-10")
	rating := 4

	future := &Booking{EndDate: d("2025-06-12")}
	err := CanReview(future, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLifecycle)

	var lerr *LifecycleError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, BookingStatusActive, lerr.Status)

	done := &Booking{EndDate: d("2025-06-05")}
	assert.NoError(t, CanReview(done, now))

	reviewed := &Booking{EndDate: d("2025-06-05"), Rating: &rating}
	assert.ErrorIs(t, CanReview(reviewed, now), ErrLifecycle)

	cancelled := &Booking{EndDate: d("2025-06-05"), Cancelled: true}
	assert.ErrorIs(t, CanReview(cancelled, now), ErrLifecycle)
}

func TestCanEdit(t *testing.T) {
	now := d("2025-06-10")

	assert.NoError(t, CanEdit(&Booking{EndDate: d("2025-06-20")}, now))
	assert.ErrorIs(t, CanEdit(&Booking{EndDate: d("2025-06-01")}, now), ErrLifecycle)
	assert.ErrorIs(t, CanEdit(&Booking{EndDate: d("2025-06-20"), Cancelled: true}, now), ErrLifecycle)
}

func TestBooking_Validate(t *testing.T) {
	valid := func() *Booking {
		return &Booking{
			UserID: "u1", OfferingID: "p1",
			StartDate: d("2025-06-01"), EndDate: d("2025-06-03"),
			ParticipantCount: 1,
		}
	}

	require.NoError(t, valid().Validate())

	b := valid()
	b.EndDate = b.StartDate
	assert.ErrorIs(t, b.Validate(), ErrValidation)

	b = valid()
	b.ParticipantCount = 0
	assert.ErrorIs(t, b.Validate(), ErrValidation)

	b = valid()
	r := 6
	b.Rating = &r
	assert.ErrorIs(t, b.Validate(), ErrValidation)

	b = valid()
	c := "great"
	b.Comment = &c
	assert.ErrorIs(t, b.Validate(), ErrValidation)
}
