package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type reportRepository interface {
	Create(ctx context.Context, report *models.InfrastructureReport) error
	GetByID(ctx context.Context, id string) (*models.InfrastructureReport, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.InfrastructureReport, int, error)
	UpdateStatus(ctx context.Context, id, status, comment string) (*models.InfrastructureReport, error)
}

// ReportService handles infrastructure issue reports. Its status vocabulary
// keeps the legacy capitalisation ("Pending", "Resolved").
type ReportService struct {
	repo reportRepository
	deps bookingDeps
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportRepository, p BookingServiceParams) *ReportService {
	return &ReportService{repo: repo, deps: newBookingDeps(p)}
}

// Submit files an infrastructure report for the acting resident.
func (s *ReportService) Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitReportRequest) (*models.InfrastructureReport, error) {
	if err := s.deps.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	resident, err := s.deps.residentFor(ctx, claims)
	if err != nil {
		return nil, err
	}

	report := &models.InfrastructureReport{
		ResidentID:  resident.ID,
		IssueType:   req.IssueType,
		Location:    req.Location,
		Description: req.Description,
		Status:      models.ReportStatusPending,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create infrastructure report")
	}

	s.deps.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceReport),
		EntityID:   &report.ID,
		Action:     models.ActivityActionSubmit,
		Details:    fmt.Sprintf("%s reported at %s", report.IssueType, report.Location),
		AdminName:  claims.DisplayName(),
	})
	if s.deps.metrics != nil {
		s.deps.metrics.RecordSubmission(string(models.ServiceReport))
	}

	return report, nil
}

// List returns reports; residents see only their own.
func (s *ReportService) List(ctx context.Context, claims *models.JWTClaims, filter models.ReportFilter) ([]models.InfrastructureReport, *models.Pagination, error) {
	if claims.Role == models.RoleResident {
		resident, err := s.deps.residentFor(ctx, claims)
		if err != nil {
			return nil, nil, err
		}
		filter.ResidentID = resident.ID
	}
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list infrastructure reports")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return reports, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one report, enforcing resident ownership.
func (s *ReportService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.InfrastructureReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "infrastructure report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load infrastructure report")
	}
	if claims.Role == models.RoleResident {
		resident, err := s.deps.residentFor(ctx, claims)
		if err != nil {
			return nil, err
		}
		if resident.ID != report.ResidentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "report belongs to another resident")
		}
	}
	return report, nil
}

// UpdateStatus applies an admin status transition and returns the stored row.
func (s *ReportService) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.InfrastructureReport, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "infrastructure report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load infrastructure report")
	}
	if err := s.deps.checkTransition(models.ServiceReport, current.Status, update); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, update.Status, update.AdminComment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update infrastructure report")
	}

	s.deps.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceReport),
		EntityID:   &updated.ID,
		Action:     models.ActivityActionStatusChange,
		Details:    fmt.Sprintf("report on %s moved from %s to %s", updated.IssueType, current.Status, updated.Status),
		AdminName:  claims.DisplayName(),
	})
	if s.deps.metrics != nil {
		s.deps.metrics.RecordTransition(string(models.ServiceReport), updated.Status)
	}

	return updated, nil
}
