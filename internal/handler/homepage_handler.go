package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
	"github.com/barangayhub/portal-api/pkg/response"
)

type homepageService interface {
	Get(ctx context.Context) (*models.HomepageContent, error)
	Update(ctx context.Context, claims *models.JWTClaims, req dto.UpdateHomepageRequest) (*models.HomepageContent, error)
}

// HomepageHandler wires the public landing content to HTTP endpoints.
type HomepageHandler struct {
	service homepageService
}

// NewHomepageHandler constructs the handler.
func NewHomepageHandler(service homepageService) *HomepageHandler {
	return &HomepageHandler{service: service}
}

// Get godoc
// @Summary Public homepage content
// @Tags Homepage
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /homepage [get]
func (h *HomepageHandler) Get(c *gin.Context) {
	content, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, content, nil)
}

// Update godoc
// @Summary Replace homepage content
// @Tags Homepage
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /homepage [put]
func (h *HomepageHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateHomepageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	content, err := h.service.Update(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, content, nil)
}
