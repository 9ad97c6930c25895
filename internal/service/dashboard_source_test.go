package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangayhub/portal-api/internal/aggregate"
	"github.com/barangayhub/portal-api/internal/models"
)

type fakeWindowAmbulanceRepo struct {
	bookings []models.AmbulanceBooking
	err      error
	gotStart time.Time
	gotEnd   time.Time
}

func (f *fakeWindowAmbulanceRepo) ListInWindow(_ context.Context, start, end time.Time) ([]models.AmbulanceBooking, error) {
	f.gotStart, f.gotEnd = start, end
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings, nil
}

type fakeWindowCourtRepo struct {
	reservations []models.CourtReservation
	err          error
}

func (f *fakeWindowCourtRepo) ListInWindow(_ context.Context, _, _ time.Time) ([]models.CourtReservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reservations, nil
}

type fakeDocumentListRepo struct {
	requests []models.DocumentRequest
	err      error
}

func (f *fakeDocumentListRepo) ListAll(_ context.Context) ([]models.DocumentRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.requests, nil
}

type fakeReportListRepo struct {
	reports []models.InfrastructureReport
	err     error
}

func (f *fakeReportListRepo) ListAll(_ context.Context) ([]models.InfrastructureReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reports, nil
}

type fakeProposalListRepo struct {
	proposals []models.ProjectProposal
	err       error
}

func (f *fakeProposalListRepo) ListAll(_ context.Context) ([]models.ProjectProposal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.proposals, nil
}

type fakeResidentListRepo struct {
	residents []models.Resident
	err       error
}

func (f *fakeResidentListRepo) ListAll(_ context.Context) ([]models.Resident, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.residents, nil
}

func newRepositorySourceFixture(ambulance *fakeWindowAmbulanceRepo, court *fakeWindowCourtRepo) *RepositorySource {
	return NewRepositorySource(RepositorySourceParams{
		Ambulance: ambulance,
		Court:     court,
		Documents: &fakeDocumentListRepo{},
		Reports:   &fakeReportListRepo{},
		Proposals: &fakeProposalListRepo{},
		Residents: &fakeResidentListRepo{},
	})
}

func TestRepositorySourceCollectsWholeWindowUnpaged(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	bookings := make([]models.AmbulanceBooking, 0, 600)
	for i := 0; i < 600; i++ {
		bookings = append(bookings, models.AmbulanceBooking{
			Status:    models.StatusPending,
			CreatedAt: now.AddDate(0, 0, -(i % 29)),
		})
	}
	ambulance := &fakeWindowAmbulanceRepo{bookings: bookings}
	source := newRepositorySourceFixture(ambulance, &fakeWindowCourtRepo{})

	in, degraded := source.Collect(context.Background(), 30, now)

	require.Empty(t, degraded)
	assert.Len(t, in.Ambulance, 600, "every in-window booking must reach the aggregator")

	window := aggregate.NewWindow(30, now)
	assert.Equal(t, window.Start, ambulance.gotStart)
	assert.Equal(t, window.End, ambulance.gotEnd)
}

func TestRepositorySourceDegradesFailedCollections(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	court := &fakeWindowCourtRepo{reservations: []models.CourtReservation{
		{ID: "crt-1", Status: models.StatusApproved, CreatedAt: now.AddDate(0, 0, -1)},
	}}
	ambulance := &fakeWindowAmbulanceRepo{err: assert.AnError}
	source := newRepositorySourceFixture(ambulance, court)

	in, degraded := source.Collect(context.Background(), 7, now)

	assert.Equal(t, []string{string(models.ServiceAmbulance)}, degraded)
	assert.Empty(t, in.Ambulance)
	require.Len(t, in.Court, 1, "a failed collection must not take the others down")
	assert.Equal(t, models.StatusApproved, in.Court[0].Status)
}
