package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangayhub/portal-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "service_id", "resident_id", "document_type", "form_data", "purpose", "status", "admin_comment", "created_at", "updated_at"})
}

func TestDocumentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)
	mock.ExpectExec("INSERT INTO document_requests").
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.DocumentRequest{
		ResidentID:   "res-1",
		DocumentType: models.DocBarangayClearance,
		FormData:     models.JSONMap{"full_name": "Juan Dela Cruz"},
		Purpose:      "employment",
		Status:       models.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), req))
	assert.NotEmpty(t, req.ID)
	assert.False(t, req.CreatedAt.IsZero())
}

func TestDocumentRepositoryListFiltersByResidentAndStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)
	rows := documentRows().
		AddRow("doc-1", "BH-DOC-2026-0001", "res-1", "Barangay Clearance", []byte(`{}`), "employment", "pending", nil, time.Now(), nil)

	mock.ExpectQuery("SELECT id, service_id").
		WithArgs("res-1", "pending").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("res-1", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	result, total, err := repo.List(context.Background(), models.DocumentFilter{ResidentID: "res-1", Status: "pending"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "BH-DOC-2026-0001", result[0].ServiceID)
}

func TestDocumentRepositoryUpdateStatusReturnsStoredRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)
	rows := documentRows().
		AddRow("doc-1", "BH-DOC-2026-0001", "res-1", "Barangay Clearance", []byte(`{}`), "employment", "in_progress", "processing started", time.Now(), time.Now())

	mock.ExpectQuery("UPDATE document_requests SET status").
		WithArgs("doc-1", "in_progress", "processing started", sqlmock.AnyArg()).
		WillReturnRows(rows)

	result, err := repo.UpdateStatus(context.Background(), "doc-1", "in_progress", "processing started")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", result.Status)
	require.NotNil(t, result.AdminComment)
	assert.Equal(t, "processing started", *result.AdminComment)
}

func TestDocumentRepositoryCountForYear(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM document_requests WHERE EXTRACT`).
		WithArgs(2026).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))

	total, err := repo.CountForYear(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 41, total)
}
