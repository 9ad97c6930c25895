package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/middleware"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type fakeDocumentSrv struct {
	submitted  *models.DocumentRequest
	listed     []models.DocumentRequest
	generated  *dto.GeneratedDocument
	err        error
	lastFilter models.DocumentFilter
	lastToken  string
}

func (f *fakeDocumentSrv) Submit(_ context.Context, _ *models.JWTClaims, _ dto.SubmitDocumentRequest) (*models.DocumentRequest, error) {
	return f.submitted, f.err
}

func (f *fakeDocumentSrv) List(_ context.Context, _ *models.JWTClaims, filter models.DocumentFilter) ([]models.DocumentRequest, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.listed, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(f.listed)}, nil
}

func (f *fakeDocumentSrv) Get(_ context.Context, _ *models.JWTClaims, _ string) (*models.DocumentRequest, error) {
	return f.submitted, f.err
}

func (f *fakeDocumentSrv) UpdateStatus(_ context.Context, _ *models.JWTClaims, _ string, _ models.StatusUpdate) (*models.DocumentRequest, error) {
	return f.submitted, f.err
}

func (f *fakeDocumentSrv) Generate(_ context.Context, _ *models.JWTClaims, _ dto.GenerateDocumentRequest) (*dto.GeneratedDocument, error) {
	return f.generated, f.err
}

func (f *fakeDocumentSrv) Download(_ context.Context, token string) (*dto.GeneratedDocument, error) {
	f.lastToken = token
	return f.generated, f.err
}

func testContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, rec
}

func setClaims(c *gin.Context, role models.UserRole) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID:    "user-1",
		Role:      role,
		Email:     "maria@example.com",
		FirstName: "Maria",
		LastName:  "Santos",
	})
}

func TestDocumentHandlerSubmit(t *testing.T) {
	srv := &fakeDocumentSrv{submitted: &models.DocumentRequest{ID: "doc-1", ServiceID: "BH-DOC-2026-0001"}}
	handler := NewDocumentHandler(srv)

	c, rec := testContext(t, http.MethodPost, "/documents", `{"document_type":"barangay_clearance","purpose":"employment"}`)
	setClaims(c, models.RoleResident)

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "BH-DOC-2026-0001")
}

func TestDocumentHandlerSubmitRequiresAuth(t *testing.T) {
	handler := NewDocumentHandler(&fakeDocumentSrv{})

	c, rec := testContext(t, http.MethodPost, "/documents", `{"document_type":"barangay_clearance","purpose":"employment"}`)

	handler.Submit(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDocumentHandlerSubmitRejectsMalformedBody(t *testing.T) {
	handler := NewDocumentHandler(&fakeDocumentSrv{})

	c, rec := testContext(t, http.MethodPost, "/documents", `{"document_type":`)
	setClaims(c, models.RoleResident)

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentHandlerListPassesFilter(t *testing.T) {
	srv := &fakeDocumentSrv{listed: []models.DocumentRequest{{ID: "doc-1"}}}
	handler := NewDocumentHandler(srv)

	c, rec := testContext(t, http.MethodGet, "/documents?status=pending&document_type=indigency&page=2&page_size=5", "")
	setClaims(c, models.RoleAdmin)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", srv.lastFilter.Status)
	assert.Equal(t, "indigency", srv.lastFilter.DocumentType)
	assert.Equal(t, 2, srv.lastFilter.Page)
	assert.Equal(t, 5, srv.lastFilter.PageSize)
}

func TestDocumentHandlerGetPropagatesServiceError(t *testing.T) {
	handler := NewDocumentHandler(&fakeDocumentSrv{err: appErrors.ErrForbidden})

	c, rec := testContext(t, http.MethodGet, "/documents/doc-1", "")
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}
	setClaims(c, models.RoleResident)

	handler.Get(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDocumentHandlerGenerate(t *testing.T) {
	srv := &fakeDocumentSrv{generated: &dto.GeneratedDocument{
		Filename:      "BH-DOC-2026-0001.pdf",
		DownloadToken: "signed-token",
	}}
	handler := NewDocumentHandler(srv)

	c, rec := testContext(t, http.MethodPost, "/documents/generate", `{"request_id":"doc-1","clearance_number":"CL-77"}`)
	setClaims(c, models.RoleAdmin)

	handler.Generate(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signed-token")
	assert.Contains(t, rec.Body.String(), "BH-DOC-2026-0001.pdf")
}

func TestDocumentHandlerDownload(t *testing.T) {
	srv := &fakeDocumentSrv{generated: &dto.GeneratedDocument{
		Filename:    "certs/BH-DOC-2026-0001.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4"),
	}}
	handler := NewDocumentHandler(srv)

	c, rec := testContext(t, http.MethodGet, "/documents/download?token=tok-1", "")

	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-1", srv.lastToken)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "BH-DOC-2026-0001.pdf")
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestDocumentHandlerDownloadRequiresToken(t *testing.T) {
	handler := NewDocumentHandler(&fakeDocumentSrv{})

	c, rec := testContext(t, http.MethodGet, "/documents/download", "")

	handler.Download(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
