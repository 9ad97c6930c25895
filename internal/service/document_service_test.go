package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	"github.com/barangayhub/portal-api/pkg/docgen"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type mockDocumentRepo struct {
	requests map[string]*models.DocumentRequest
	count    int
	created  *models.DocumentRequest
	updated  *models.DocumentRequest
}

func (m *mockDocumentRepo) Create(_ context.Context, req *models.DocumentRequest) error {
	req.ID = "doc-new"
	m.created = req
	return nil
}

func (m *mockDocumentRepo) GetByID(_ context.Context, id string) (*models.DocumentRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return req, nil
}

func (m *mockDocumentRepo) List(_ context.Context, _ models.DocumentFilter) ([]models.DocumentRequest, int, error) {
	out := make([]models.DocumentRequest, 0, len(m.requests))
	for _, req := range m.requests {
		out = append(out, *req)
	}
	return out, len(out), nil
}

func (m *mockDocumentRepo) UpdateStatus(_ context.Context, id, status, comment string) (*models.DocumentRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *req
	clone.Status = status
	if comment != "" {
		clone.AdminComment = &comment
	}
	m.updated = &clone
	return &clone, nil
}

func (m *mockDocumentRepo) CountForYear(_ context.Context, _ int) (int, error) {
	return m.count, nil
}

type mockResidentReader struct {
	byID     map[string]*models.Resident
	byUserID map[string]*models.Resident
}

func (m *mockResidentReader) GetByID(_ context.Context, id string) (*models.Resident, error) {
	resident, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return resident, nil
}

func (m *mockResidentReader) GetByUserID(_ context.Context, userID string) (*models.Resident, error) {
	resident, ok := m.byUserID[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return resident, nil
}

type mockArchive struct {
	saved map[string][]byte
}

func (m *mockArchive) Save(filename string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return filename, nil
}

func (m *mockArchive) Read(filename string) ([]byte, error) {
	data, ok := m.saved[filename]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", filename)
	}
	return data, nil
}

type mockSigner struct{}

func (mockSigner) Sign(requestID, filename string) (string, time.Time, error) {
	return requestID + "|" + filename, time.Now().Add(time.Hour), nil
}

func (mockSigner) Verify(token string) (string, string, error) {
	for i := range token {
		if token[i] == '|' {
			return token[:i], token[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("malformed token")
}

type recordedActivity struct {
	entries []models.ActivityLog
}

func (r *recordedActivity) Record(entry models.ActivityLog) {
	r.entries = append(r.entries, entry)
}

type noopInvalidator struct{ calls int }

func (n *noopInvalidator) Invalidate(context.Context) { n.calls++ }

func residentClaims(userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleResident, FirstName: "Juan", LastName: "Dela Cruz"}
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, FirstName: "Ana", LastName: "Reyes"}
}

func newDocumentFixture(repo *mockDocumentRepo, residents *mockResidentReader) (*DocumentService, *recordedActivity, *noopInvalidator) {
	activity := &recordedActivity{}
	invalidator := &noopInvalidator{}
	svc := NewDocumentService(DocumentServiceParams{
		Repo:      repo,
		Residents: residents,
		Archive:   &mockArchive{},
		Signer:    mockSigner{},
		Generator: docgen.NewGenerator(docgen.Letterhead{Municipality: "Municipality of San Isidro", Barangay: "Barangay Poblacion", Captain: "Hon. Pedro Santos"}),
		Dashboard: invalidator,
		Activity:  activity,
	})
	return svc, activity, invalidator
}

func TestDocumentSubmitAllocatesTrackingCode(t *testing.T) {
	repo := &mockDocumentRepo{count: 41}
	residents := &mockResidentReader{byUserID: map[string]*models.Resident{
		"user-1": {ID: "res-1", FirstName: "Juan", LastName: "Dela Cruz", Address: "Purok 2"},
	}}
	svc, activity, invalidator := newDocumentFixture(repo, residents)

	request, err := svc.Submit(context.Background(), residentClaims("user-1"), dto.SubmitDocumentRequest{
		DocumentType: models.DocCertResidency,
		Purpose:      "employment",
	})
	require.NoError(t, err)

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("BH-DOC-%d-0042", year), request.ServiceID)
	assert.Equal(t, models.StatusPending, request.Status)
	assert.Equal(t, "res-1", request.ResidentID)
	assert.Len(t, activity.entries, 1)
	assert.Equal(t, 1, invalidator.calls)
}

func TestDocumentSubmitRejectsUnknownType(t *testing.T) {
	svc, _, _ := newDocumentFixture(&mockDocumentRepo{}, &mockResidentReader{})

	_, err := svc.Submit(context.Background(), residentClaims("user-1"), dto.SubmitDocumentRequest{
		DocumentType: "marriage_certificate",
		Purpose:      "records",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDocumentUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := &mockDocumentRepo{requests: map[string]*models.DocumentRequest{
		"doc-1": {ID: "doc-1", Status: models.StatusPending},
	}}
	svc, _, _ := newDocumentFixture(repo, &mockResidentReader{})

	_, err := svc.UpdateStatus(context.Background(), adminClaims(), "doc-1", models.StatusUpdate{Status: "Resolved"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErrors.FromError(err).Code)
}

func TestDocumentUpdateStatusRejectsIllegalTransition(t *testing.T) {
	repo := &mockDocumentRepo{requests: map[string]*models.DocumentRequest{
		"doc-1": {ID: "doc-1", Status: models.StatusPending},
	}}
	svc, _, _ := newDocumentFixture(repo, &mockResidentReader{})

	_, err := svc.UpdateStatus(context.Background(), adminClaims(), "doc-1", models.StatusUpdate{Status: models.StatusCompleted})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestDocumentUpdateStatusReturnsStoredRow(t *testing.T) {
	repo := &mockDocumentRepo{requests: map[string]*models.DocumentRequest{
		"doc-1": {ID: "doc-1", ServiceID: "BH-DOC-2026-0007", Status: models.StatusInProgress},
	}}
	svc, activity, _ := newDocumentFixture(repo, &mockResidentReader{})

	updated, err := svc.UpdateStatus(context.Background(), adminClaims(), "doc-1", models.StatusUpdate{
		Status:       models.StatusCompleted,
		AdminComment: "ready for pickup",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	require.NotNil(t, updated.AdminComment)
	assert.Equal(t, "ready for pickup", *updated.AdminComment)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityActionStatusChange, activity.entries[0].Action)
}

func TestDocumentGenerateRequiresCompletedStatus(t *testing.T) {
	repo := &mockDocumentRepo{requests: map[string]*models.DocumentRequest{
		"doc-1": {ID: "doc-1", Status: models.StatusInProgress, DocumentType: models.DocCertResidency},
	}}
	svc, _, _ := newDocumentFixture(repo, &mockResidentReader{})

	_, err := svc.Generate(context.Background(), adminClaims(), dto.GenerateDocumentRequest{RequestID: "doc-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotCompleted.Code, appErrors.FromError(err).Code)
}

func TestDocumentGenerateRequiresClearanceNumber(t *testing.T) {
	repo := &mockDocumentRepo{requests: map[string]*models.DocumentRequest{
		"doc-1": {ID: "doc-1", Status: models.StatusCompleted, DocumentType: models.DocBarangayClearance},
	}}
	svc, _, _ := newDocumentFixture(repo, &mockResidentReader{})

	_, err := svc.Generate(context.Background(), adminClaims(), dto.GenerateDocumentRequest{RequestID: "doc-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDocumentGenerateRendersAndSigns(t *testing.T) {
	repo := &mockDocumentRepo{requests: map[string]*models.DocumentRequest{
		"doc-1": {
			ID:           "doc-1",
			ServiceID:    "BH-DOC-2026-0001",
			ResidentID:   "res-1",
			Status:       models.StatusCompleted,
			DocumentType: models.DocBarangayClearance,
			Purpose:      "employment",
		},
	}}
	residents := &mockResidentReader{byID: map[string]*models.Resident{
		"res-1": {ID: "res-1", FirstName: "Juan", LastName: "Dela Cruz", Address: "Purok 2"},
	}}
	svc, activity, _ := newDocumentFixture(repo, residents)

	generated, err := svc.Generate(context.Background(), adminClaims(), dto.GenerateDocumentRequest{
		RequestID:       "doc-1",
		ClearanceNumber: "CLR-0099",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", generated.ContentType)
	assert.Greater(t, len(generated.Content), 500)
	assert.NotEmpty(t, generated.DownloadToken)
	assert.Contains(t, generated.Filename, "BH-DOC-2026-0001")
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityActionGenerate, activity.entries[0].Action)
}

func TestDocumentDownloadServesArchivedFile(t *testing.T) {
	repo := &mockDocumentRepo{requests: map[string]*models.DocumentRequest{
		"doc-1": {
			ID:           "doc-1",
			ServiceID:    "BH-DOC-2026-0001",
			ResidentID:   "res-1",
			Status:       models.StatusCompleted,
			DocumentType: models.DocCertResidency,
		},
	}}
	residents := &mockResidentReader{byID: map[string]*models.Resident{
		"res-1": {ID: "res-1", FirstName: "Juan", LastName: "Dela Cruz", Address: "Purok 2"},
	}}
	archive := &mockArchive{}
	svc := NewDocumentService(DocumentServiceParams{
		Repo:      repo,
		Residents: residents,
		Archive:   archive,
		Signer:    mockSigner{},
		Generator: docgen.NewGenerator(docgen.Letterhead{Captain: "Hon. Pedro Santos"}),
	})

	generated, err := svc.Generate(context.Background(), adminClaims(), dto.GenerateDocumentRequest{RequestID: "doc-1"})
	require.NoError(t, err)

	downloaded, err := svc.Download(context.Background(), generated.DownloadToken)
	require.NoError(t, err)
	assert.Equal(t, generated.Content, downloaded.Content)

	_, err = svc.Download(context.Background(), "garbage")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestDocumentGetEnforcesOwnership(t *testing.T) {
	repo := &mockDocumentRepo{requests: map[string]*models.DocumentRequest{
		"doc-1": {ID: "doc-1", ResidentID: "res-2", Status: models.StatusPending},
	}}
	residents := &mockResidentReader{byUserID: map[string]*models.Resident{
		"user-1": {ID: "res-1"},
	}}
	svc, _, _ := newDocumentFixture(repo, residents)

	_, err := svc.Get(context.Background(), residentClaims("user-1"), "doc-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
