package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	"github.com/barangayhub/portal-api/pkg/docgen"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type documentRepository interface {
	Create(ctx context.Context, req *models.DocumentRequest) error
	GetByID(ctx context.Context, id string) (*models.DocumentRequest, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]models.DocumentRequest, int, error)
	UpdateStatus(ctx context.Context, id, status, comment string) (*models.DocumentRequest, error)
	CountForYear(ctx context.Context, year int) (int, error)
}

type documentResidentReader interface {
	GetByID(ctx context.Context, id string) (*models.Resident, error)
	GetByUserID(ctx context.Context, userID string) (*models.Resident, error)
}

type documentArchive interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
}

type downloadSigner interface {
	Sign(requestID, filename string) (string, time.Time, error)
	Verify(token string) (requestID, filename string, err error)
}

// dashboardInvalidator drops cached overviews after a write.
type dashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// DocumentService handles document request submission, review, and
// certificate generation.
type DocumentService struct {
	repo      documentRepository
	residents documentResidentReader
	archive   documentArchive
	signer    downloadSigner
	generator *docgen.Generator
	dashboard dashboardInvalidator
	activity  ActivityRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// DocumentServiceParams bundles DocumentService dependencies.
type DocumentServiceParams struct {
	Repo      documentRepository
	Residents documentResidentReader
	Archive   documentArchive
	Signer    downloadSigner
	Generator *docgen.Generator
	Dashboard dashboardInvalidator
	Activity  ActivityRecorder
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(p DocumentServiceParams) *DocumentService {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Validator == nil {
		p.Validator = validator.New()
	}
	return &DocumentService{
		repo:      p.Repo,
		residents: p.Residents,
		archive:   p.Archive,
		signer:    p.Signer,
		generator: p.Generator,
		dashboard: p.Dashboard,
		activity:  p.Activity,
		metrics:   p.Metrics,
		validator: p.Validator,
		logger:    p.Logger,
		now:       time.Now,
	}
}

// Submit files a new document request for the acting resident. The tracking
// code is generated server-side and returned with the stored row.
func (s *DocumentService) Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitDocumentRequest) (*models.DocumentRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document request payload")
	}
	if !models.KnownDocumentType(req.DocumentType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown document type %q", req.DocumentType))
	}

	resident, err := s.residents.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resident profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resident profile")
	}

	serviceID, err := s.nextServiceID(ctx)
	if err != nil {
		return nil, err
	}

	request := &models.DocumentRequest{
		ServiceID:    serviceID,
		ResidentID:   resident.ID,
		DocumentType: req.DocumentType,
		FormData:     req.FormData,
		Purpose:      req.Purpose,
		Status:       models.StatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create document request")
	}

	s.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceDocument),
		EntityID:   &request.ID,
		Action:     models.ActivityActionSubmit,
		Details:    fmt.Sprintf("%s requested (%s)", docgen.Title(request.DocumentType), request.ServiceID),
		AdminName:  claims.DisplayName(),
	})
	if s.metrics != nil {
		s.metrics.RecordSubmission(string(models.ServiceDocument))
	}

	return request, nil
}

// List returns document requests. Residents see only their own; admins see
// everything the filter matches.
func (s *DocumentService) List(ctx context.Context, claims *models.JWTClaims, filter models.DocumentFilter) ([]models.DocumentRequest, *models.Pagination, error) {
	if claims.Role == models.RoleResident {
		resident, err := s.residents.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "resident profile not found")
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resident profile")
		}
		filter.ResidentID = resident.ID
	}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list document requests")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return requests, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one request, enforcing resident ownership.
func (s *DocumentService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.DocumentRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document request")
	}
	if err := s.authorizeOwner(ctx, claims, request.ResidentID); err != nil {
		return nil, err
	}
	return request, nil
}

// UpdateStatus applies an admin status transition. The stored row is returned
// so callers always render what the database holds.
func (s *DocumentService) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.DocumentRequest, error) {
	if err := s.validator.Struct(update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !models.KnownStatus(models.ServiceDocument, update.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("status %q not recognised for document requests", update.Status))
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document request")
	}
	if !models.CanTransition(models.ServiceDocument, current.Status, update.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move document request from %q to %q", current.Status, update.Status))
	}

	updated, err := s.repo.UpdateStatus(ctx, id, update.Status, update.AdminComment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update document request")
	}

	s.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceDocument),
		EntityID:   &updated.ID,
		Action:     models.ActivityActionStatusChange,
		Details:    fmt.Sprintf("%s moved from %s to %s", updated.ServiceID, current.Status, updated.Status),
		AdminName:  claims.DisplayName(),
	})
	if s.metrics != nil {
		s.metrics.RecordTransition(string(models.ServiceDocument), updated.Status)
	}

	return updated, nil
}

// Generate renders the certificate for a completed request, archives it, and
// returns the bytes with a signed download token.
func (s *DocumentService) Generate(ctx context.Context, claims *models.JWTClaims, req dto.GenerateDocumentRequest) (*dto.GeneratedDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}

	request, err := s.repo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document request")
	}
	if request.Status != models.StatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrNotCompleted, "document can only be generated for completed requests")
	}

	switch request.DocumentType {
	case models.DocBarangayClearance:
		if req.ClearanceNumber == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "clearance_number is required for barangay clearance")
		}
	case models.DocBarangayID:
		if req.IDNumber == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "id_number is required for barangay ID")
		}
	}

	details, err := s.buildDetails(ctx, request, req)
	if err != nil {
		return nil, err
	}

	content, err := s.generator.Render(request.DocumentType, details)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render document")
	}

	filename := fmt.Sprintf("%d/%s-%s.pdf", details.IssuedAt.Year(), request.DocumentType, request.ServiceID)
	if s.archive != nil {
		if _, err := s.archive.Save(filename, content); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive document")
		}
	}

	var token string
	if s.signer != nil {
		token, _, err = s.signer.Sign(request.ID, filename)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
		}
	}

	s.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceDocument),
		EntityID:   &request.ID,
		Action:     models.ActivityActionGenerate,
		Details:    fmt.Sprintf("%s generated for %s", docgen.Title(request.DocumentType), request.ServiceID),
		AdminName:  claims.DisplayName(),
	})

	return &dto.GeneratedDocument{
		Filename:      filename,
		ContentType:   "application/pdf",
		Content:       content,
		DownloadToken: token,
	}, nil
}

// Download serves an archived document for a valid signed token.
func (s *DocumentService) Download(ctx context.Context, token string) (*dto.GeneratedDocument, error) {
	if s.signer == nil || s.archive == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "document archive unavailable")
	}
	requestID, filename, err := s.signer.Verify(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	if _, err := s.repo.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document request")
	}
	content, err := s.archive.Read(filename)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "archived document not found")
	}
	return &dto.GeneratedDocument{
		Filename:    filename,
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func (s *DocumentService) nextServiceID(ctx context.Context) (string, error) {
	year := s.now().UTC().Year()
	count, err := s.repo.CountForYear(ctx, year)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate tracking code")
	}
	return fmt.Sprintf("BH-DOC-%d-%04d", year, count+1), nil
}

func (s *DocumentService) buildDetails(ctx context.Context, request *models.DocumentRequest, req dto.GenerateDocumentRequest) (docgen.Details, error) {
	details := docgen.Details{
		ServiceID:       request.ServiceID,
		ClearanceNumber: req.ClearanceNumber,
		IDNumber:        req.IDNumber,
		Purpose:         request.Purpose,
		FormData:        request.FormData,
		IssuedAt:        s.now().UTC(),
	}

	if name := request.FormData["full_name"]; name != "" {
		details.FullName = name
	}
	if address := request.FormData["address"]; address != "" {
		details.Address = address
	}
	if details.FullName != "" && details.Address != "" {
		return details, nil
	}

	resident, err := s.residents.GetByID(ctx, request.ResidentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return details, appErrors.Clone(appErrors.ErrNotFound, "resident profile not found")
		}
		return details, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resident profile")
	}
	if details.FullName == "" {
		details.FullName = resident.FirstName + " " + resident.LastName
	}
	if details.Address == "" {
		details.Address = resident.Address
	}
	return details, nil
}

func (s *DocumentService) authorizeOwner(ctx context.Context, claims *models.JWTClaims, residentID string) error {
	if claims.Role != models.RoleResident {
		return nil
	}
	resident, err := s.residents.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "resident profile not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resident profile")
	}
	if resident.ID != residentID {
		return appErrors.Clone(appErrors.ErrForbidden, "request belongs to another resident")
	}
	return nil
}

func (s *DocumentService) afterWrite(ctx context.Context, entry models.ActivityLog) {
	if s.activity != nil {
		s.activity.Record(entry)
	}
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}
}
