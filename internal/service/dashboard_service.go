package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/barangayhub/portal-api/internal/aggregate"
	"github.com/barangayhub/portal-api/internal/dto"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

// allowedWindows are the day ranges the dashboard accepts.
var allowedWindows = map[int]bool{7: true, 30: true, 90: true, 365: true}

type activityLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL       time.Duration
	DefaultDays    int
	ActivityLimit  int
	RefreshTimeout time.Duration
}

// DashboardService composes the admin dashboard overview from one snapshot of
// every collection, fully recomputed each cycle.
type DashboardService struct {
	source   DashboardSource
	activity activityLister
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Source   DashboardSource
	Activity activityLister
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = 30
	}
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = 10
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 90 * time.Second
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		source:   params.Source,
		activity: params.Activity,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Overview returns the chart-ready aggregate for the requested window and
// indicates cache utilisation. Unsupported windows fall back to the default.
func (s *DashboardService) Overview(ctx context.Context, days int) (*dto.DashboardResponse, bool, error) {
	if !allowedWindows[days] {
		days = s.cfg.DefaultDays
	}

	cacheKey := fmt.Sprintf("dashboard:overview:%d", days)
	if s.cache != nil {
		var cached dto.DashboardResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	response, err := s.compose(ctx, days)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return response, false, nil
}

// Refresh recomputes and recaches every supported window. Used by the
// background refresher so interactive requests mostly hit cache.
func (s *DashboardService) Refresh(ctx context.Context) error {
	start := s.now()
	for days := range allowedWindows {
		response, err := s.compose(ctx, days)
		if err != nil {
			s.observeRefresh("error", start)
			return fmt.Errorf("refresh %d day window: %w", days, err)
		}
		if s.cache != nil {
			cacheKey := fmt.Sprintf("dashboard:overview:%d", days)
			if err := s.cache.Set(ctx, cacheKey, response, s.cfg.CacheTTL); err != nil {
				s.logger.Warn("dashboard refresh cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}
	s.observeRefresh("success", start)
	return nil
}

// Invalidate drops every cached overview. Called after status transitions and
// submissions so the next read recomputes.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dashboard:overview:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) compose(ctx context.Context, days int) (*dto.DashboardResponse, error) {
	if s.source == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "dashboard source unavailable")
	}
	now := s.now().UTC()

	inputs, degraded := s.source.Collect(ctx, days, now)
	if len(degraded) > 0 {
		s.logger.Warn("dashboard degraded collections", zap.Strings("collections", degraded))
	}

	overview := aggregate.Compute(inputs, days, now)

	var activity []models.ActivityLog
	if s.activity != nil {
		entries, err := s.activity.ListRecent(ctx, s.cfg.ActivityLimit)
		if err != nil {
			s.logger.Warn("dashboard activity load failed", zap.Error(err))
		} else {
			activity = entries
		}
	}

	return &dto.DashboardResponse{
		Overview:       overview,
		RecentActivity: activity,
		Degraded:       degraded,
	}, nil
}

func (s *DashboardService) observeRefresh(outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDashboardRefresh(outcome, s.now().Sub(start))
}
