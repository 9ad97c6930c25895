package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barangayhub/portal-api/internal/models"
	"github.com/barangayhub/portal-api/pkg/response"
)

type exportService interface {
	Render(ctx context.Context, kind models.ServiceKind) ([]byte, string, error)
}

// ExportHandler serves admin CSV extracts.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export godoc
// @Summary Export one service collection as CSV
// @Tags Export
// @Produce text/csv
// @Param collection path string true "Collection (documents, ambulance, court, reports, proposals)"
// @Success 200 {file} binary
// @Router /export/{collection} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	kind := models.ServiceKind(c.Param("collection"))
	content, filename, err := h.service.Render(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", content)
}
