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

type proposalService interface {
	Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitProposalRequest) (*models.ProjectProposal, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.ReportFilter) ([]models.ProjectProposal, *models.Pagination, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.ProjectProposal, error)
	UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.ProjectProposal, error)
}

// ProposalHandler wires project proposals to HTTP endpoints.
type ProposalHandler struct {
	service proposalService
}

// NewProposalHandler constructs the handler.
func NewProposalHandler(service proposalService) *ProposalHandler {
	return &ProposalHandler{service: service}
}

// Submit godoc
// @Summary Submit a project proposal
// @Tags Proposals
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /project-proposals [post]
func (h *ProposalHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	proposal, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, proposal)
}

// List godoc
// @Summary List project proposals
// @Tags Proposals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /project-proposals [get]
func (h *ProposalHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, pageSize := pageParams(c)
	filter := models.ReportFilter{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}
	proposals, pagination, err := h.service.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposals, pagination)
}

// Get godoc
// @Summary Fetch one project proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /project-proposals/{id} [get]
func (h *ProposalHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	proposal, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, nil)
}

// UpdateStatus godoc
// @Summary Review a project proposal
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /project-proposals/{id}/status [patch]
func (h *ProposalHandler) UpdateStatus(c *gin.Context) {
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
