package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/barangayhub/portal-api/internal/aggregate"
	"github.com/barangayhub/portal-api/internal/dto"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type fakeDashboardSrv struct {
	resp     *dto.DashboardResponse
	hit      bool
	err      error
	lastDays int
}

func (f *fakeDashboardSrv) Overview(_ context.Context, days int) (*dto.DashboardResponse, bool, error) {
	f.lastDays = days
	return f.resp, f.hit, f.err
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error map[string]interface{} `json:"error"`
}

func TestDashboardHandlerOverviewSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		resp: &dto.DashboardResponse{Overview: &aggregate.Overview{Days: 30}},
		hit:  true,
	}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard?days=30", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, srv.lastDays)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	overview, _ := envelope.Data["overview"].(map[string]interface{})
	assert.EqualValues(t, 30, overview["days"])
}

func TestDashboardHandlerOverviewDefaultsDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{resp: &dto.DashboardResponse{Overview: &aggregate.Overview{Days: 30}}}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, srv.lastDays, "window fallback belongs to the service")
}

func TestDashboardHandlerOverviewError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.ErrInternal})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
