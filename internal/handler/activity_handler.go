package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barangayhub/portal-api/internal/models"
	"github.com/barangayhub/portal-api/pkg/response"
)

type activityService interface {
	ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

// ActivityHandler serves the admin activity trail.
type ActivityHandler struct {
	service activityService
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service activityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// List godoc
// @Summary Recent activity entries
// @Tags Activity
// @Produce json
// @Param limit query int false "Row cap, defaults to 50"
// @Success 200 {object} response.Envelope
// @Router /logs [get]
func (h *ActivityHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	entries, err := h.service.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
