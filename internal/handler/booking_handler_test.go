package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type fakeAmbulanceSrv struct {
	booking    *models.AmbulanceBooking
	listed     []models.AmbulanceBooking
	err        error
	lastFilter models.BookingFilter
	lastUpdate models.StatusUpdate
}

func (f *fakeAmbulanceSrv) Submit(_ context.Context, _ *models.JWTClaims, _ dto.SubmitAmbulanceRequest) (*models.AmbulanceBooking, error) {
	return f.booking, f.err
}

func (f *fakeAmbulanceSrv) List(_ context.Context, _ *models.JWTClaims, filter models.BookingFilter) ([]models.AmbulanceBooking, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.listed, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(f.listed)}, nil
}

func (f *fakeAmbulanceSrv) Get(_ context.Context, _ *models.JWTClaims, _ string) (*models.AmbulanceBooking, error) {
	return f.booking, f.err
}

func (f *fakeAmbulanceSrv) UpdateStatus(_ context.Context, _ *models.JWTClaims, _ string, update models.StatusUpdate) (*models.AmbulanceBooking, error) {
	f.lastUpdate = update
	return f.booking, f.err
}

func TestAmbulanceHandlerSubmit(t *testing.T) {
	srv := &fakeAmbulanceSrv{booking: &models.AmbulanceBooking{ID: "amb-1", Status: models.StatusPending}}
	handler := NewAmbulanceHandler(srv)

	c, rec := testContext(t, http.MethodPost, "/ambulance-bookings",
		`{"patient_name":"Jose Cruz","pickup_address":"Purok 3","destination":"Provincial Hospital","scheduled_at":"2026-09-01T08:00:00Z"}`)
	setClaims(c, models.RoleResident)

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "amb-1")
}

func TestAmbulanceHandlerSubmitRequiresAuth(t *testing.T) {
	handler := NewAmbulanceHandler(&fakeAmbulanceSrv{})

	c, rec := testContext(t, http.MethodPost, "/ambulance-bookings", `{}`)

	handler.Submit(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAmbulanceHandlerListParsesDateWindow(t *testing.T) {
	srv := &fakeAmbulanceSrv{}
	handler := NewAmbulanceHandler(srv)

	c, rec := testContext(t, http.MethodGet,
		"/ambulance-bookings?status=approved&start=2026-08-01T00:00:00Z&end=2026-08-31T00:00:00Z", "")
	setClaims(c, models.RoleAdmin)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", srv.lastFilter.Status)
	if assert.NotNil(t, srv.lastFilter.Start) {
		assert.Equal(t, 2026, srv.lastFilter.Start.Year())
	}
	if assert.NotNil(t, srv.lastFilter.End) {
		assert.Equal(t, 31, srv.lastFilter.End.Day())
	}
}

func TestAmbulanceHandlerListIgnoresBadDates(t *testing.T) {
	srv := &fakeAmbulanceSrv{}
	handler := NewAmbulanceHandler(srv)

	c, rec := testContext(t, http.MethodGet, "/ambulance-bookings?start=yesterday", "")
	setClaims(c, models.RoleResident)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.lastFilter.Start)
}

func TestAmbulanceHandlerUpdateStatus(t *testing.T) {
	srv := &fakeAmbulanceSrv{booking: &models.AmbulanceBooking{ID: "amb-1", Status: models.StatusApproved}}
	handler := NewAmbulanceHandler(srv)

	c, rec := testContext(t, http.MethodPatch, "/ambulance-bookings/amb-1/status",
		`{"status":"approved","admin_comment":"driver assigned"}`)
	c.Params = gin.Params{{Key: "id", Value: "amb-1"}}
	setClaims(c, models.RoleAdmin)

	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusApproved, srv.lastUpdate.Status)
}

func TestAmbulanceHandlerUpdateStatusPropagatesTransitionError(t *testing.T) {
	handler := NewAmbulanceHandler(&fakeAmbulanceSrv{err: appErrors.ErrInvalidTransition})

	c, rec := testContext(t, http.MethodPatch, "/ambulance-bookings/amb-1/status", `{"status":"completed"}`)
	c.Params = gin.Params{{Key: "id", Value: "amb-1"}}
	setClaims(c, models.RoleAdmin)

	handler.UpdateStatus(c)

	assert.Equal(t, appErrors.ErrInvalidTransition.Status, rec.Code)
}
