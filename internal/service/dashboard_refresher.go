package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DashboardRefresher recomputes the cached dashboard on a fixed interval so
// admin page loads rarely pay the aggregation cost. A cycle that is still
// running when the ticker fires is not stacked; the tick is skipped.
type DashboardRefresher struct {
	dashboard *DashboardService
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger

	cancel   context.CancelFunc
	done     chan struct{}
	inFlight atomic.Bool
	mu       sync.Mutex
	started  bool
}

// NewDashboardRefresher constructs a refresher.
func NewDashboardRefresher(dashboard *DashboardService, interval, timeout time.Duration, logger *zap.Logger) *DashboardRefresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardRefresher{
		dashboard: dashboard,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start launches the refresh loop. An immediate warm-up refresh runs before
// the first tick.
func (r *DashboardRefresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.started = true

	go func() {
		defer close(r.done)
		r.run(ctx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.run(ctx)
			}
		}
	}()
	r.logger.Info("dashboard refresher started", zap.Duration("interval", r.interval))
}

// Stop cancels the loop and waits for any in-flight refresh to finish.
func (r *DashboardRefresher) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.started = false
	done := r.done
	r.mu.Unlock()
	<-done
	r.logger.Info("dashboard refresher stopped")
}

func (r *DashboardRefresher) run(ctx context.Context) {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.logger.Warn("dashboard refresh still running, skipping tick")
		return
	}
	defer r.inFlight.Store(false)

	refreshCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.dashboard.Refresh(refreshCtx); err != nil {
		r.logger.Error("dashboard refresh failed", zap.Error(err))
	}
}
