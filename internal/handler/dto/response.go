package dto

import (
	"encoding/json"
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
)

const (
	CodeDateConflict = "BOOKING_DATE_CONFLICT"
	CodeLifecycle    = "BOOKING_LIFECYCLE"
)

type UserRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OfferingRefResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	UnitPrice   json.Number `json:"unitPrice"`
}

type BookingResponse struct {
	ID               string              `json:"id"`
	UserID           string              `json:"userId"`
	OfferingID       string              `json:"offeringId"`
	StartDate        string              `json:"startDate"`
	EndDate          string              `json:"endDate"`
	ParticipantCount int                 `json:"participantCount"`
	Rating           *int                `json:"rating"`
	Comment          *string             `json:"comment"`
	Cancelled        bool                `json:"cancelled"`
	Status           string              `json:"status"`
	TotalPrice       json.Number         `json:"totalPrice"`
	User             UserRefResponse     `json:"user"`
	Offering         OfferingRefResponse `json:"offering"`
	CreatedAt        string              `json:"createdAt"`
	UpdatedAt        string              `json:"updatedAt"`
}

type BookingPageResponse struct {
	Items      []BookingResponse `json:"items"`
	TotalCount int               `json:"totalCount"`
}

type BookingRangeResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type AvailabilityResponse struct {
	Available       bool                  `json:"available"`
	ExistingBooking *BookingRangeResponse `json:"existingBooking,omitempty"`
}

type ErrorResponse struct {
	Error           string                `json:"error"`
	Code            string                `json:"code,omitempty"`
	Status          string                `json:"status,omitempty"`
	ExistingBooking *BookingRangeResponse `json:"existingBooking,omitempty"`
}

// money renders minor units as a JSON number with two decimals.
func money(m domain.Money) json.Number {
	return json.Number(m.String())
}

func ToBookingResponse(d *domain.BookingDetails) BookingResponse {
	b := d.Booking
	return BookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		OfferingID:       b.OfferingID,
		StartDate:        b.StartDate.Format(domain.DateLayout),
		EndDate:          b.EndDate.Format(domain.DateLayout),
		ParticipantCount: b.ParticipantCount,
		Rating:           b.Rating,
		Comment:          b.Comment,
		Cancelled:        b.Cancelled,
		Status:           string(d.Status),
		TotalPrice:       money(d.TotalPrice),
		User: UserRefResponse{
			ID:    d.User.ID,
			Name:  d.User.Name,
			Email: d.User.Email,
		},
		Offering: OfferingRefResponse{
			ID:          d.Offering.ID,
			Name:        d.Offering.Name,
			Description: d.Offering.Description,
			UnitPrice:   money(d.Offering.UnitPrice),
		},
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}

func ToBookingResponses(list []*domain.BookingDetails) []BookingResponse {
	resp := make([]BookingResponse, 0, len(list))
	for _, d := range list {
		resp = append(resp, ToBookingResponse(d))
	}
	return resp
}

func ToBookingPageResponse(p *domain.BookingPage) BookingPageResponse {
	return BookingPageResponse{
		Items:      ToBookingResponses(p.Items),
		TotalCount: p.TotalCount,
	}
}

func ToBookingRangeResponse(r domain.BookingRange) *BookingRangeResponse {
	return &BookingRangeResponse{
		ID:        r.ID,
		StartDate: r.StartDate.Format(domain.DateLayout),
		EndDate:   r.EndDate.Format(domain.DateLayout),
	}
}

func ToAvailabilityResponse(hit *domain.Booking) AvailabilityResponse {
	if hit == nil {
		return AvailabilityResponse{Available: true}
	}
	r := domain.NewConflictError(hit).Existing
	return AvailabilityResponse{ExistingBooking: ToBookingRangeResponse(r)}
}
