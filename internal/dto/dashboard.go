package dto

import (
	"github.com/barangayhub/portal-api/internal/aggregate"
	"github.com/barangayhub/portal-api/internal/models"
)

// DashboardResponse is the admin analytics payload: the computed overview
// plus the recent activity feed shown beside the charts. Degraded names the
// collections that failed to load and contributed empty data this cycle.
type DashboardResponse struct {
	Overview       *aggregate.Overview  `json:"overview"`
	RecentActivity []models.ActivityLog `json:"recent_activity"`
	Degraded       []string             `json:"degraded,omitempty"`
}
