package dto

type CreateBookingRequest struct {
	UserID           string `json:"userId"           binding:"required,uuid"`
	OfferingID       string `json:"offeringId"       binding:"required,uuid"`
	StartDate        string `json:"startDate"        binding:"required,datefmt"`
	EndDate          string `json:"endDate"          binding:"required,datefmt"`
	ParticipantCount int    `json:"participantCount" binding:"required,min=1"`
}

// UpdateBookingRequest is a partial patch: omitted fields keep their value.
type UpdateBookingRequest struct {
	StartDate        *string `json:"startDate"        binding:"omitempty,datefmt"`
	EndDate          *string `json:"endDate"          binding:"omitempty,datefmt"`
	ParticipantCount *int    `json:"participantCount" binding:"omitempty,min=1"`
}

type ReviewRequest struct {
	Rating  *int    `json:"rating"  binding:"required"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

type ListBookingsQuery struct {
	Page     int    `form:"page"     binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"   binding:"omitempty,max=200"`
	Sort     string `form:"sort"     binding:"omitempty,oneof=dateAsc dateDesc priceAsc priceDesc"`
}

type AvailabilityQuery struct {
	UserID           string `form:"userId"           binding:"required,uuid"`
	OfferingID       string `form:"offeringId"       binding:"required,uuid"`
	StartDate        string `form:"startDate"        binding:"required,datefmt"`
	EndDate          string `form:"endDate"          binding:"required,datefmt"`
	ExcludeBookingID string `form:"excludeBookingId" binding:"omitempty,uuid"`
}
