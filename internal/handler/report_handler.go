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

type reportService interface {
	Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitReportRequest) (*models.InfrastructureReport, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.ReportFilter) ([]models.InfrastructureReport, *models.Pagination, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.InfrastructureReport, error)
	UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.InfrastructureReport, error)
}

// ReportHandler wires infrastructure reports to HTTP endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Submit godoc
// @Summary Report an infrastructure issue
// @Tags Reports
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /infrastructure-reports [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	report, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// List godoc
// @Summary List infrastructure reports
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /infrastructure-reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, pageSize := pageParams(c)
	filter := models.ReportFilter{
		Status:    c.Query("status"),
		IssueType: c.Query("issue_type"),
		Page:      page,
		PageSize:  pageSize,
	}
	reports, pagination, err := h.service.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, pagination)
}

// Get godoc
// @Summary Fetch one infrastructure report
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /infrastructure-reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	report, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// UpdateStatus godoc
// @Summary Review an infrastructure report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /infrastructure-reports/{id}/status [patch]
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
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
