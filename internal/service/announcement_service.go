package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type announcementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService manages the public announcement feed.
type AnnouncementService struct {
	repo      announcementRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// AnnouncementServiceParams bundles AnnouncementService dependencies.
type AnnouncementServiceParams struct {
	Repo     announcementRepository
	Activity ActivityRecorder
	Logger   *zap.Logger
}

// NewAnnouncementService constructs an AnnouncementService.
func NewAnnouncementService(p AnnouncementServiceParams) *AnnouncementService {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{
		repo:      p.Repo,
		activity:  p.Activity,
		validator: validator.New(),
		logger:    logger,
	}
}

// Create publishes a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	announcement := &models.Announcement{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		Images:   req.Images,
		Videos:   req.Videos,
		Files:    req.Files,
		PostedBy: claims.DisplayName(),
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}

	if s.activity != nil {
		s.activity.Record(models.ActivityLog{
			EntityType: "announcement",
			EntityID:   &announcement.ID,
			Action:     models.ActivityActionPublish,
			Details:    fmt.Sprintf("announcement %q published", announcement.Title),
			AdminName:  claims.DisplayName(),
		})
	}

	return announcement, nil
}

// List returns announcements, newest first.
func (s *AnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	announcements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return announcements, total, nil
}

// Get returns one announcement.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	return announcement, nil
}

// Update replaces an announcement's content.
func (s *AnnouncementService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	announcement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	announcement.Title = req.Title
	announcement.Content = req.Content
	announcement.Type = req.Type
	announcement.Images = req.Images
	announcement.Videos = req.Videos
	announcement.Files = req.Files

	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}

	if s.activity != nil {
		s.activity.Record(models.ActivityLog{
			EntityType: "announcement",
			EntityID:   &announcement.ID,
			Action:     models.ActivityActionUpdate,
			Details:    fmt.Sprintf("announcement %q updated", announcement.Title),
			AdminName:  claims.DisplayName(),
		})
	}

	return announcement, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	announcement, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}

	if s.activity != nil {
		s.activity.Record(models.ActivityLog{
			EntityType: "announcement",
			EntityID:   &announcement.ID,
			Action:     models.ActivityActionUpdate,
			Details:    fmt.Sprintf("announcement %q removed", announcement.Title),
			AdminName:  claims.DisplayName(),
		})
	}
	return nil
}
