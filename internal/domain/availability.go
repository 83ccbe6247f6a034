package domain

import (
	"sort"
	"time"
)

// Candidate is the interval a user wants to hold on an offering.
type Candidate struct {
	UserID           string
	OfferingID       string
	StartDate        time.Time
	EndDate          time.Time
	ExcludeBookingID string
}

// Overlaps reports whether the closed intervals [s1,e1] and [s2,e2] intersect.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

// CheckConflict returns the earliest-starting booking among existing that
// collides with c, or nil. Only non-cancelled bookings of the same user and
// offering are considered.
func CheckConflict(existing []*Booking, c Candidate) *Booking {
	var hits []*Booking
	for _, b := range existing {
		if b.Cancelled || b.ID == c.ExcludeBookingID {
			continue
		}
		if b.UserID != c.UserID || b.OfferingID != c.OfferingID {
			continue
		}
		if Overlaps(c.StartDate, c.EndDate, b.StartDate, b.EndDate) {
			hits = append(hits, b)
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].StartDate.Before(hits[j].StartDate)
	})
	return hits[0]
}
