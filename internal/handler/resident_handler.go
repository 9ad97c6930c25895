package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
	"github.com/barangayhub/portal-api/pkg/response"
)

type residentService interface {
	List(ctx context.Context, filter models.ResidentFilter) ([]models.Resident, int, error)
	Get(ctx context.Context, id string) (*models.Resident, error)
	SetVerification(ctx context.Context, claims *models.JWTClaims, id string, req dto.VerifyResidentRequest) (*models.Resident, error)
}

// ResidentHandler wires the admin resident registry to HTTP endpoints.
type ResidentHandler struct {
	service residentService
}

// NewResidentHandler constructs the handler.
func NewResidentHandler(service residentService) *ResidentHandler {
	return &ResidentHandler{service: service}
}

// List godoc
// @Summary List residents
// @Tags Residents
// @Produce json
// @Param verified query bool false "Verification filter"
// @Param search query string false "Name search"
// @Param limit query int false "Row cap"
// @Success 200 {object} response.Envelope
// @Router /residents [get]
func (h *ResidentHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.ResidentFilter{
		Search:   c.Query("search"),
		Limit:    queryInt(c, "limit", 0),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("verified"); raw != "" {
		if verified, err := strconv.ParseBool(raw); err == nil {
			filter.Verified = &verified
		}
	}
	residents, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, residents, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total})
}

// Get godoc
// @Summary Fetch one resident profile
// @Tags Residents
// @Produce json
// @Param id path string true "Resident ID"
// @Success 200 {object} response.Envelope
// @Router /residents/{id} [get]
func (h *ResidentHandler) Get(c *gin.Context) {
	resident, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resident, nil)
}

// SetVerification godoc
// @Summary Update resident verification flags
// @Tags Residents
// @Accept json
// @Produce json
// @Param id path string true "Resident ID"
// @Success 200 {object} response.Envelope
// @Router /residents/{id}/verification [patch]
func (h *ResidentHandler) SetVerification(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.VerifyResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	resident, err := h.service.SetVerification(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resident, nil)
}
