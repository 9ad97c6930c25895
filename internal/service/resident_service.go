package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type residentAdminRepository interface {
	GetByID(ctx context.Context, id string) (*models.Resident, error)
	List(ctx context.Context, filter models.ResidentFilter) ([]models.Resident, int, error)
	SetVerification(ctx context.Context, id string, verified, voter bool, types []string) (*models.Resident, error)
}

// ResidentService exposes the admin-facing resident registry.
type ResidentService struct {
	repo      residentAdminRepository
	activity  ActivityRecorder
	dashboard dashboardInvalidator
	logger    *zap.Logger
}

// ResidentServiceParams bundles ResidentService dependencies.
type ResidentServiceParams struct {
	Repo      residentAdminRepository
	Activity  ActivityRecorder
	Dashboard dashboardInvalidator
	Logger    *zap.Logger
}

// NewResidentService constructs a ResidentService.
func NewResidentService(p ResidentServiceParams) *ResidentService {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResidentService{
		repo:      p.Repo,
		activity:  p.Activity,
		dashboard: p.Dashboard,
		logger:    logger,
	}
}

// List returns residents matching the filter.
func (s *ResidentService) List(ctx context.Context, filter models.ResidentFilter) ([]models.Resident, int, error) {
	residents, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list residents")
	}
	return residents, total, nil
}

// Get returns a single resident profile.
func (s *ResidentService) Get(ctx context.Context, id string) (*models.Resident, error) {
	resident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resident not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resident")
	}
	return resident, nil
}

// SetVerification updates a resident's verification flags and classification
// tags. Verification feeds the dashboard's resident stats, so cached
// snapshots are invalidated on success.
func (s *ResidentService) SetVerification(ctx context.Context, claims *models.JWTClaims, id string, req dto.VerifyResidentRequest) (*models.Resident, error) {
	resident, err := s.repo.SetVerification(ctx, id, req.IsVerified, req.IsVoter, req.Types)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resident not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update resident verification")
	}

	if s.activity != nil {
		s.activity.Record(models.ActivityLog{
			EntityType: "resident",
			EntityID:   &resident.ID,
			Action:     models.ActivityActionUpdate,
			Details:    fmt.Sprintf("verification set to %t for %s %s", resident.IsVerified, resident.FirstName, resident.LastName),
			AdminName:  claims.DisplayName(),
		})
	}
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}

	return resident, nil
}
