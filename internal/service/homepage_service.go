package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type homepageRepository interface {
	Get(ctx context.Context) (*models.HomepageContent, error)
	Upsert(ctx context.Context, content *models.HomepageContent) error
}

// HomepageService manages the public landing page content. The content is a
// single row; a missing row reads as empty content, never as an error.
type HomepageService struct {
	repo      homepageRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHomepageService constructs a HomepageService.
func NewHomepageService(repo homepageRepository, activity ActivityRecorder, logger *zap.Logger) *HomepageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomepageService{
		repo:      repo,
		activity:  activity,
		validator: validator.New(),
		logger:    logger,
	}
}

// Get returns the homepage content, or empty defaults when none is stored.
func (s *HomepageService) Get(ctx context.Context) (*models.HomepageContent, error) {
	content, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.HomepageContent{Officials: models.OfficialList{}}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load homepage content")
	}
	return content, nil
}

// Update replaces the homepage content.
func (s *HomepageService) Update(ctx context.Context, claims *models.JWTClaims, req dto.UpdateHomepageRequest) (*models.HomepageContent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homepage payload")
	}

	content := &models.HomepageContent{
		WelcomeMessage: req.WelcomeMessage,
		About:          req.About,
		Officials:      req.Officials,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		UpdatedBy:      claims.DisplayName(),
	}
	if err := s.repo.Upsert(ctx, content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update homepage content")
	}

	if s.activity != nil {
		s.activity.Record(models.ActivityLog{
			EntityType: "homepage",
			Action:     models.ActivityActionUpdate,
			Details:    "homepage content updated",
			AdminName:  claims.DisplayName(),
		})
	}

	return content, nil
}
