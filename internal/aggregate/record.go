package aggregate

import "time"

// Record is the minimal shape the aggregator needs from any service
// collection row. Category carries the document type or issue type when the
// collection has one.
type Record struct {
	Status    string
	Category  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ResidentRecord is the slice of a resident row the aggregator consumes.
type ResidentRecord struct {
	IsVerified bool
	IsVoter    bool
	Types      []string
	CreatedAt  time.Time
}

// StatusTally is the per-service rollup. Statuses outside the service
// vocabulary count toward Total but appear in no per-status bucket.
type StatusTally struct {
	Total    int            `json:"total"`
	Today    int            `json:"today"`
	ByStatus map[string]int `json:"by_status"`
}

// CategoryCount is one entry of a categorical distribution.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SeriesPoint is one calendar-day bucket of the request time series.
type SeriesPoint struct {
	Date     string         `json:"date"`
	Services map[string]int `json:"services"`
	Total    int            `json:"total"`
}

// TrendPoint is one calendar-month bucket of the registration trend.
type TrendPoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// ResidentStats summarises the resident roster.
type ResidentStats struct {
	Total         int             `json:"total"`
	VerifiedCount int             `json:"verified_count"`
	VoterCount    int             `json:"voter_count"`
	PendingCount  int             `json:"pending_count"`
	TypeCounts    []CategoryCount `json:"type_counts"`
}
