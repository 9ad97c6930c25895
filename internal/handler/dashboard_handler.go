package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/middleware"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
	"github.com/barangayhub/portal-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context, days int) (*dto.DashboardResponse, bool, error)
}

// DashboardHandler serves the admin dashboard overview.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Overview godoc
// @Summary Admin dashboard overview
// @Tags Dashboard
// @Produce json
// @Param days query int false "Window in days (7, 30, 90, 365). Defaults to 30"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	days := queryInt(c, "days", 0)
	overview, cacheHit, err := h.service.Overview(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.MarkCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, overview, nil, middleware.Meta(c))
}
