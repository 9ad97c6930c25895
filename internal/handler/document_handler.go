package handler

import (
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
	"github.com/barangayhub/portal-api/pkg/response"
)

type documentService interface {
	Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitDocumentRequest) (*models.DocumentRequest, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.DocumentFilter) ([]models.DocumentRequest, *models.Pagination, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.DocumentRequest, error)
	UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.DocumentRequest, error)
	Generate(ctx context.Context, claims *models.JWTClaims, req dto.GenerateDocumentRequest) (*dto.GeneratedDocument, error)
	Download(ctx context.Context, token string) (*dto.GeneratedDocument, error)
}

// DocumentHandler wires document requests to HTTP endpoints.
type DocumentHandler struct {
	service documentService
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(service documentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Submit godoc
// @Summary File a document request
// @Tags Documents
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /documents [post]
func (h *DocumentHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	request, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// List godoc
// @Summary List document requests
// @Tags Documents
// @Produce json
// @Param status query string false "Status filter"
// @Param document_type query string false "Document type filter"
// @Success 200 {object} response.Envelope
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, pageSize := pageParams(c)
	filter := models.DocumentFilter{
		Status:       c.Query("status"),
		DocumentType: c.Query("document_type"),
		Search:       c.Query("search"),
		Page:         page,
		PageSize:     pageSize,
	}
	requests, pagination, err := h.service.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, pagination)
}

// Get godoc
// @Summary Fetch one document request
// @Tags Documents
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	request, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// UpdateStatus godoc
// @Summary Review a document request
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /documents/{id}/status [patch]
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
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

// Generate godoc
// @Summary Generate the certificate PDF for a completed request
// @Tags Documents
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /documents/generate [post]
func (h *DocumentHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	generated, err := h.service.Generate(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"filename":       generated.Filename,
		"download_token": generated.DownloadToken,
	}, nil)
}

// Download godoc
// @Summary Download an archived certificate via signed token
// @Tags Documents
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /documents/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	generated, err := h.service.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(generated.Filename)))
	c.Data(http.StatusOK, generated.ContentType, generated.Content)
}
