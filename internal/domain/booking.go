package domain

import "time"

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type Booking struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	OfferingID       string     `json:"offering_id"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	ParticipantCount int        `json:"participant_count"`
	Rating           *int       `json:"rating,omitempty"`
	Comment          *string    `json:"comment,omitempty"`
	Cancelled        bool       `json:"cancelled"`
	ReviewRemindedAt *time.Time `json:"review_reminded_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Status returns the effective lifecycle state of the booking at now.
func (b *Booking) Status(now time.Time) BookingStatus {
	return EffectiveStatus(now, b.EndDate, b.Cancelled)
}

// BookingDetails is a booking joined with the user and offering projections
// and labelled with its derived status and total.
type BookingDetails struct {
	Booking    Booking       `json:"booking"`
	User       UserRef       `json:"user"`
	Offering   OfferingRef   `json:"offering"`
	Status     BookingStatus `json:"status"`
	TotalPrice Money         `json:"total_price"`
}

// Label fills the derived fields of d.
func (d *BookingDetails) Label(now time.Time) {
	d.Status = d.Booking.Status(now)
	d.TotalPrice = ComputeTotal(d.Offering.UnitPrice, d.Booking.ParticipantCount, d.Booking.StartDate, d.Booking.EndDate)
}

type CreateBookingInput struct {
	UserID           string
	OfferingID       string
	StartDate        time.Time
	EndDate          time.Time
	ParticipantCount int
	IdempotencyKey   string
}

type BookingPatch struct {
	StartDate        *time.Time
	EndDate          *time.Time
	ParticipantCount *int
}

func (p BookingPatch) IsEmpty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.ParticipantCount == nil
}

func (p BookingPatch) TouchesDates() bool {
	return p.StartDate != nil || p.EndDate != nil
}

type ReviewInput struct {
	Rating  int
	Comment *string
}

// Date truncates t to midnight of its UTC calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

const (
	MinRating = 0
	MaxRating = 5
)

// Validate checks the stored invariants that do not need other bookings.
func (b *Booking) Validate() error {
	if b.UserID == "" {
		return validationf("user_id is required")
	}
	if b.OfferingID == "" {
		return validationf("offering_id is required")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return validationf("start_date and end_date are required")
	}
	if !b.StartDate.Before(b.EndDate) {
		return validationf("start_date must be before end_date")
	}
	if b.ParticipantCount < 1 {
		return validationf("participant_count must be at least 1")
	}
	if b.Rating != nil && (*b.Rating < MinRating || *b.Rating > MaxRating) {
		return validationf("rating must be between %d and %d", MinRating, MaxRating)
	}
	if b.Comment != nil && b.Rating == nil {
		return validationf("comment requires a rating")
	}
	return nil
}
