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

type proposalRepository interface {
	Create(ctx context.Context, proposal *models.ProjectProposal) error
	GetByID(ctx context.Context, id string) (*models.ProjectProposal, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.ProjectProposal, int, error)
	UpdateStatus(ctx context.Context, id, status, comment string) (*models.ProjectProposal, error)
}

// ProposalService handles community project proposals.
type ProposalService struct {
	repo proposalRepository
	deps bookingDeps
}

// NewProposalService constructs a ProposalService.
func NewProposalService(repo proposalRepository, p BookingServiceParams) *ProposalService {
	return &ProposalService{repo: repo, deps: newBookingDeps(p)}
}

// Submit files a project proposal for the acting resident.
func (s *ProposalService) Submit(ctx context.Context, claims *models.JWTClaims, req dto.SubmitProposalRequest) (*models.ProjectProposal, error) {
	if err := s.deps.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid proposal payload")
	}

	resident, err := s.deps.residentFor(ctx, claims)
	if err != nil {
		return nil, err
	}

	proposal := &models.ProjectProposal{
		ResidentID:  resident.ID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Status:      models.StatusPending,
	}
	if err := s.repo.Create(ctx, proposal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create project proposal")
	}

	s.deps.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceProposal),
		EntityID:   &proposal.ID,
		Action:     models.ActivityActionSubmit,
		Details:    fmt.Sprintf("proposal %q submitted", proposal.Title),
		AdminName:  claims.DisplayName(),
	})
	if s.deps.metrics != nil {
		s.deps.metrics.RecordSubmission(string(models.ServiceProposal))
	}

	return proposal, nil
}

// List returns proposals; residents see only their own.
func (s *ProposalService) List(ctx context.Context, claims *models.JWTClaims, filter models.ReportFilter) ([]models.ProjectProposal, *models.Pagination, error) {
	if claims.Role == models.RoleResident {
		resident, err := s.deps.residentFor(ctx, claims)
		if err != nil {
			return nil, nil, err
		}
		filter.ResidentID = resident.ID
	}
	proposals, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list project proposals")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return proposals, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one proposal, enforcing resident ownership.
func (s *ProposalService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.ProjectProposal, error) {
	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project proposal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project proposal")
	}
	if claims.Role == models.RoleResident {
		resident, err := s.deps.residentFor(ctx, claims)
		if err != nil {
			return nil, err
		}
		if resident.ID != proposal.ResidentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "proposal belongs to another resident")
		}
	}
	return proposal, nil
}

// UpdateStatus applies an admin status transition and returns the stored row.
func (s *ProposalService) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, update models.StatusUpdate) (*models.ProjectProposal, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project proposal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project proposal")
	}
	if err := s.deps.checkTransition(models.ServiceProposal, current.Status, update); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, update.Status, update.AdminComment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project proposal")
	}

	s.deps.afterWrite(ctx, models.ActivityLog{
		EntityType: string(models.ServiceProposal),
		EntityID:   &updated.ID,
		Action:     models.ActivityActionStatusChange,
		Details:    fmt.Sprintf("proposal %q moved from %s to %s", updated.Title, current.Status, updated.Status),
		AdminName:  claims.DisplayName(),
	})
	if s.deps.metrics != nil {
		s.deps.metrics.RecordTransition(string(models.ServiceProposal), updated.Status)
	}

	return updated, nil
}
