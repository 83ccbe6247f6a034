package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stpnv0/AdventureBooker/internal/domain"
	"github.com/stpnv0/AdventureBooker/internal/handler/dto"
	"github.com/wb-go/wbf/ginext"
)

const idempotencyHeader = "Idempotency-Key"

type BookingSvc interface {
	Create(ctx context.Context, input domain.CreateBookingInput) (*domain.BookingDetails, error)
	GetByID(ctx context.Context, id string) (*domain.BookingDetails, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.BookingDetails, error)
	Update(ctx context.Context, id string, patch domain.BookingPatch) (*domain.BookingDetails, error)
	AttachReview(ctx context.Context, id string, review domain.ReviewInput) (*domain.BookingDetails, error)
	Cancel(ctx context.Context, id string) (*domain.BookingDetails, error)
	Delete(ctx context.Context, id string) error
	CheckAvailability(ctx context.Context, c domain.Candidate) (*domain.Booking, error)
}

type QuerySvc interface {
	List(ctx context.Context, q domain.ListQuery) (*domain.BookingPage, error)
}

type Handler struct {
	bookingService BookingSvc
	queryService   QuerySvc
}

func NewHandler(bookingService BookingSvc, queryService QuerySvc) *Handler {
	return &Handler{
		bookingService: bookingService,
		queryService:   queryService,
	}
}

func bindingError(c *ginext.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}

func bookingID(c *ginext.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid booking id"})
		return "", false
	}
	return id, true
}

func parseDate(s string) (time.Time, error) {
	t, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, errors.Join(domain.ErrValidation, err)
	}
	return t, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) ListBookings(c *ginext.Context) {
	var q dto.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}

	page, err := h.queryService.List(c.Request.Context(), domain.ListQuery{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
		Sort:     domain.SortKey(q.Sort),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingPageResponse(page))
}

func (h *Handler) CheckAvailability(c *ginext.Context) {
	var q dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindingError(c, err)
		return
	}

	start, err := parseDate(q.StartDate)
	if err != nil {
		h.handleError(c, err)
		return
	}
	end, err := parseDate(q.EndDate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	hit, err := h.bookingService.CheckAvailability(c.Request.Context(), domain.Candidate{
		UserID:           q.UserID,
		OfferingID:       q.OfferingID,
		StartDate:        start,
		EndDate:          end,
		ExcludeBookingID: q.ExcludeBookingID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAvailabilityResponse(hit))
}

func (h *Handler) GetBooking(c *ginext.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	details, err := h.bookingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(details))
}

func (h *Handler) GetUserBookings(c *ginext.Context) {
	userID := c.Param("userId")
	if _, err := uuid.Parse(userID); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid user id"})
		return
	}

	list, err := h.bookingService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponses(list))
}

func (h *Handler) CreateBooking(c *ginext.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		h.handleError(c, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	details, err := h.bookingService.Create(c.Request.Context(), domain.CreateBookingInput{
		UserID:           req.UserID,
		OfferingID:       req.OfferingID,
		StartDate:        start,
		EndDate:          end,
		ParticipantCount: req.ParticipantCount,
		IdempotencyKey:   c.GetHeader(idempotencyHeader),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookingResponse(details))
}

func (h *Handler) UpdateBooking(c *ginext.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	start, err := parseOptionalDate(req.StartDate)
	if err != nil {
		h.handleError(c, err)
		return
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	details, err := h.bookingService.Update(c.Request.Context(), id, domain.BookingPatch{
		StartDate:        start,
		EndDate:          end,
		ParticipantCount: req.ParticipantCount,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(details))
}

func (h *Handler) ReviewBooking(c *ginext.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	details, err := h.bookingService.AttachReview(c.Request.Context(), id, domain.ReviewInput{
		Rating:  *req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(details))
}

func (h *Handler) CancelBooking(c *ginext.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	details, err := h.bookingService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(details))
}

func (h *Handler) DeleteBooking(c *ginext.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	if err := h.bookingService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "deleted"})
}

func (h *Handler) handleError(c *ginext.Context, err error) {
	c.Set("error", err.Error())

	var conflict *domain.ConflictError
	var lifecycle *domain.LifecycleError

	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:           err.Error(),
			Code:            dto.CodeDateConflict,
			ExistingBooking: dto.ToBookingRangeResponse(conflict.Existing),
		})

	case errors.Is(err, domain.ErrBookingConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: dto.CodeDateConflict})

	case errors.As(err, &lifecycle):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:  err.Error(),
			Code:   dto.CodeLifecycle,
			Status: string(lifecycle.Status),
		})

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrOfferingNotFound),
		errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrPersistence):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "storage is busy, retry later"})

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
