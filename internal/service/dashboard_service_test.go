package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangayhub/portal-api/internal/aggregate"
	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type stubDashboardSource struct {
	inputs   aggregate.Inputs
	degraded []string
	calls    int
}

func (s *stubDashboardSource) Collect(_ context.Context, _ int, _ time.Time) (aggregate.Inputs, []string) {
	s.calls++
	return s.inputs, s.degraded
}

type stubActivityLister struct {
	entries []models.ActivityLog
	err     error
}

func (s *stubActivityLister) ListRecent(_ context.Context, _ int) ([]models.ActivityLog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

type stubCacheRepo struct {
	store   map[string][]byte
	deleted []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	s.store = nil
	return nil
}

func newDashboardFixture(source *stubDashboardSource, activity *stubActivityLister, cacheRepo *stubCacheRepo) *DashboardService {
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	}
	return NewDashboardService(DashboardServiceParams{
		Source:   source,
		Activity: activity,
		Cache:    cache,
	})
}

func TestDashboardOverviewComputesAndCaches(t *testing.T) {
	now := time.Now().UTC()
	source := &stubDashboardSource{
		inputs: aggregate.Inputs{
			Documents: []aggregate.Record{{Status: models.StatusPending, CreatedAt: now.AddDate(0, 0, -1)}},
			Reports:   []aggregate.Record{{Status: models.ReportStatusResolved, CreatedAt: now.AddDate(0, 0, -2)}},
		},
	}
	activity := &stubActivityLister{entries: []models.ActivityLog{{Action: models.ActivityActionSubmit}}}
	cacheRepo := &stubCacheRepo{}
	svc := newDashboardFixture(source, activity, cacheRepo)

	response, hit, err := svc.Overview(context.Background(), 30)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NotNil(t, response.Overview)
	assert.Equal(t, 30, response.Overview.Days)
	assert.Len(t, response.RecentActivity, 1)
	assert.Equal(t, 1, source.calls)

	cached, hit, err := svc.Overview(context.Background(), 30)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, response.Overview.Days, cached.Overview.Days)
	assert.Equal(t, 1, source.calls, "cache hit must not recompute")
}

func TestDashboardOverviewUnsupportedWindowFallsBack(t *testing.T) {
	source := &stubDashboardSource{}
	svc := newDashboardFixture(source, &stubActivityLister{}, nil)

	response, hit, err := svc.Overview(context.Background(), 13)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 30, response.Overview.Days)
}

func TestDashboardOverviewReportsDegradedCollections(t *testing.T) {
	source := &stubDashboardSource{degraded: []string{"reports", "residents"}}
	svc := newDashboardFixture(source, &stubActivityLister{}, nil)

	response, _, err := svc.Overview(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"reports", "residents"}, response.Degraded)
	require.NotNil(t, response.Overview, "degraded collections still produce a snapshot")
}

func TestDashboardOverviewActivityFailureIsNonFatal(t *testing.T) {
	source := &stubDashboardSource{}
	activity := &stubActivityLister{err: assert.AnError}
	svc := newDashboardFixture(source, activity, nil)

	response, _, err := svc.Overview(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, response.RecentActivity)
}

func TestDashboardRefreshWarmsEveryWindow(t *testing.T) {
	source := &stubDashboardSource{}
	cacheRepo := &stubCacheRepo{}
	svc := newDashboardFixture(source, &stubActivityLister{}, cacheRepo)

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, len(allowedWindows), source.calls)
	assert.Len(t, cacheRepo.store, len(allowedWindows))

	for days := range allowedWindows {
		_, hit, err := svc.Overview(context.Background(), days)
		require.NoError(t, err)
		assert.True(t, hit, "window %d should be cached after refresh", days)
	}
}

func TestDashboardInvalidateDropsCachedOverviews(t *testing.T) {
	source := &stubDashboardSource{}
	cacheRepo := &stubCacheRepo{}
	svc := newDashboardFixture(source, &stubActivityLister{}, cacheRepo)

	_, _, err := svc.Overview(context.Background(), 30)
	require.NoError(t, err)
	require.NotEmpty(t, cacheRepo.store)

	svc.Invalidate(context.Background())
	assert.Contains(t, cacheRepo.deleted, "dashboard:overview:*")

	_, hit, err := svc.Overview(context.Background(), 30)
	require.NoError(t, err)
	assert.False(t, hit)
}
