package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
	"github.com/barangayhub/portal-api/pkg/response"
)

type ambulanceService interface {
	Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitAmbulanceRequest) (*models.AmbulanceBooking, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.BookingFilter) ([]models.AmbulanceBooking, *models.Pagination, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.AmbulanceBooking, error)
	UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.AmbulanceBooking, error)
}

type courtService interface {
	Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitCourtRequest) (*models.CourtReservation, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.BookingFilter) ([]models.CourtReservation, *models.Pagination, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.CourtReservation, error)
	UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.CourtReservation, error)
}

// AmbulanceHandler wires ambulance bookings to HTTP endpoints.
type AmbulanceHandler struct {
	service ambulanceService
}

// NewAmbulanceHandler constructs the handler.
func NewAmbulanceHandler(service ambulanceService) *AmbulanceHandler {
	return &AmbulanceHandler{service: service}
}

// bookingFilter parses the shared query params, including the optional date
// window the booking collections filter in SQL.
func bookingFilter(c *gin.Context) models.BookingFilter {
	page, pageSize := pageParams(c)
	filter := models.BookingFilter{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("start"); raw != "" {
		if start, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.Start = &start
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.End = &end
		}
	}
	return filter
}

// Submit godoc
// @Summary Book an ambulance transport
// @Tags Ambulance
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /ambulance-bookings [post]
func (h *AmbulanceHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitAmbulanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	booking, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// List godoc
// @Summary List ambulance bookings
// @Tags Ambulance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ambulance-bookings [get]
func (h *AmbulanceHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	bookings, pagination, err := h.service.List(c.Request.Context(), claims, bookingFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, pagination)
}

// Get godoc
// @Summary Fetch one ambulance booking
// @Tags Ambulance
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /ambulance-bookings/{id} [get]
func (h *AmbulanceHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	booking, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// UpdateStatus godoc
// @Summary Review an ambulance booking
// @Tags Ambulance
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /ambulance-bookings/{id}/status [patch]
func (h *AmbulanceHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var update models.StatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	updated, err := h.service.UpdateStatus(c.Request.Context(), claims, c.Param("id"), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// CourtHandler wires covered-court reservations to HTTP endpoints.
type CourtHandler struct {
	service courtService
}

// NewCourtHandler constructs the handler.
func NewCourtHandler(service courtService) *CourtHandler {
	return &CourtHandler{service: service}
}

// Submit godoc
// @Summary Reserve the covered court
// @Tags Court
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /court-reservations [post]
func (h *CourtHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	reservation, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reservation)
}

// List godoc
// @Summary List court reservations
// @Tags Court
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /court-reservations [get]
func (h *CourtHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	reservations, pagination, err := h.service.List(c.Request.Context(), claims, bookingFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, pagination)
}

// Get godoc
// @Summary Fetch one court reservation
// @Tags Court
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Router /court-reservations/{id} [get]
func (h *CourtHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	reservation, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// UpdateStatus godoc
// @Summary Review a court reservation
// @Tags Court
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Router /court-reservations/{id}/status [patch]
func (h *CourtHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var update models.StatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	updated, err := h.service.UpdateStatus(c.Request.Context(), claims, c.Param("id"), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}
