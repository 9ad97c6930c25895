package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangayhub/portal-api/internal/models"
)

func TestAmbulanceRepositoryListAppliesDateWindow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAmbulanceRepository(db)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "resident_id", "patient_name", "pickup_address", "destination", "scheduled_at", "purpose", "status", "admin_comment", "created_at", "updated_at"}).
		AddRow("amb-1", "res-1", "Maria Santos", "Purok 3", "District Hospital", time.Now(), "emergency transport", "pending", nil, time.Now(), nil)

	mock.ExpectQuery("SELECT id, resident_id, patient_name.* created_at >= .* created_at <").
		WithArgs(start, end).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	result, total, err := repo.List(context.Background(), models.BookingFilter{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "amb-1", result[0].ID)
}

func TestAmbulanceRepositoryListInWindowHasNoRowLimit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAmbulanceRepository(db)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "resident_id", "patient_name", "pickup_address", "destination", "scheduled_at", "purpose", "status", "admin_comment", "created_at", "updated_at"})
	for i := 0; i < 600; i++ {
		rows.AddRow("amb-1", "res-1", "Maria Santos", "Purok 3", "District Hospital", time.Now(), "emergency transport", "pending", nil, time.Now(), nil)
	}

	mock.ExpectQuery(`SELECT id, resident_id, patient_name.* created_at >= .* AND created_at < .* ORDER BY created_at DESC$`).
		WithArgs(start, end).
		WillReturnRows(rows)

	result, err := repo.ListInWindow(context.Background(), start, end)
	require.NoError(t, err)
	assert.Len(t, result, 600)
}

func TestCourtRepositoryUpdateStatusReturnsStoredRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourtRepository(db)
	rows := sqlmock.NewRows([]string{"id", "resident_id", "event_name", "reserved_date", "start_time", "end_time", "purpose", "status", "admin_comment", "created_at", "updated_at"}).
		AddRow("crt-1", "res-1", "Liga finals", time.Now(), "18:00", "21:00", "basketball league", "approved", "see caretaker", time.Now(), time.Now())

	mock.ExpectQuery("UPDATE court_reservations SET status").
		WithArgs("crt-1", "approved", "see caretaker", sqlmock.AnyArg()).
		WillReturnRows(rows)

	result, err := repo.UpdateStatus(context.Background(), "crt-1", "approved", "see caretaker")
	require.NoError(t, err)
	assert.Equal(t, "approved", result.Status)
}
