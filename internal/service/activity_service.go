package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
	"github.com/barangayhub/portal-api/pkg/jobs"
)

type activityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

// ActivityService records the admin activity trail through a write-behind
// queue so submissions and transitions never block on trail persistence.
type ActivityService struct {
	repo   activityRepository
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewActivityService constructs the service and its backing queue. Call
// Start before recording and Stop during shutdown.
func NewActivityService(repo activityRepository, opts jobs.Options, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ActivityService{repo: repo, logger: logger}
	opts.Logger = logger
	s.queue = jobs.NewQueue("activity-log", s.persist, opts)
	return s
}

// Start begins queue consumption.
func (s *ActivityService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains and stops the queue.
func (s *ActivityService) Stop() {
	s.queue.Stop()
}

// Record enqueues an activity entry. Failures are logged, never surfaced:
// the trail is best-effort by design of the write path.
func (s *ActivityService) Record(entry models.ActivityLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	task := jobs.Task{
		ID:      entry.ID,
		Kind:    entry.Action,
		Payload: entry,
	}
	if err := s.queue.Enqueue(task); err != nil {
		s.logger.Warn("activity entry dropped", zap.String("action", entry.Action), zap.Error(err))
	}
}

// ListRecent returns the newest trail entries.
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activity")
	}
	return entries, nil
}

func (s *ActivityService) persist(ctx context.Context, task jobs.Task) error {
	entry, ok := task.Payload.(models.ActivityLog)
	if !ok {
		return fmt.Errorf("unexpected activity payload %T", task.Payload)
	}
	return s.repo.Create(ctx, &entry)
}
