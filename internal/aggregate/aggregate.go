package aggregate

import (
	"sort"
	"time"

	"github.com/barangayhub/portal-api/internal/models"
)

// Labels for the collapsed overflow buckets of the two categorical charts.
const (
	OtherTypesLabel  = "Other Types"
	OtherIssuesLabel = "Other Issues"
)

// topCategoryLimit is how many named categories survive before the long tail
// collapses into the overflow bucket.
const topCategoryLimit = 4

// Window is the trailing-day aggregation range. Start and End bound record
// filtering; the end extends one calendar day past now so that records
// created "today" always fall inside regardless of time of day.
type Window struct {
	Days  int
	Now   time.Time
	Start time.Time
	End   time.Time
}

// NewWindow builds the trailing window for the given day count.
func NewWindow(days int, now time.Time) Window {
	return Window{
		Days:  days,
		Now:   now,
		Start: now.AddDate(0, 0, -days),
		End:   now.AddDate(0, 0, 1),
	}
}

// Contains reports whether a timestamp falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Filter keeps the records whose CreatedAt falls inside the window.
func (w Window) Filter(records []Record) []Record {
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if w.Contains(rec.CreatedAt) {
			kept = append(kept, rec)
		}
	}
	return kept
}

// TallyStatuses rolls a record list up by status. Matching is exact string
// comparison against the service vocabulary; unrecognized statuses land in no
// bucket but still count toward Total.
func TallyStatuses(records []Record, vocabulary []string, now time.Time) StatusTally {
	tally := StatusTally{ByStatus: make(map[string]int, len(vocabulary))}
	for _, status := range vocabulary {
		tally.ByStatus[status] = 0
	}

	year, month, day := now.Date()
	for _, rec := range records {
		tally.Total++
		ry, rm, rd := rec.CreatedAt.Date()
		if ry == year && rm == month && rd == day {
			tally.Today++
		}
		if _, known := tally.ByStatus[rec.Status]; known {
			tally.ByStatus[rec.Status]++
		}
	}
	return tally
}

// CountCategories tallies non-empty Category values.
func CountCategories(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Category != "" {
			counts[rec.Category]++
		}
	}
	return counts
}

// TopCategories reduces a categorical distribution to the top entries plus an
// overflow bucket. With five or fewer distinct categories no collapsing
// occurs. Ties are broken by label so output is deterministic.
func TopCategories(counts map[string]int, otherLabel string) []CategoryCount {
	entries := make([]CategoryCount, 0, len(counts))
	for label, count := range counts {
		entries = append(entries, CategoryCount{Label: label, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count == entries[j].Count {
			return entries[i].Label < entries[j].Label
		}
		return entries[i].Count > entries[j].Count
	})

	if len(entries) <= topCategoryLimit+1 {
		return entries
	}

	other := 0
	for _, entry := range entries[topCategoryLimit:] {
		other += entry.Count
	}
	result := append(entries[:topCategoryLimit:topCategoryLimit], CategoryCount{Label: otherLabel, Count: other})
	return result
}

// TimeSeries buckets records per calendar day for the trailing window: one
// bucket per day from today-days+1 through today inclusive, keyed by ISO
// date. Records outside the initialized buckets are dropped silently.
func TimeSeries(days int, now time.Time, perService map[string][]Record) []SeriesPoint {
	points := make([]SeriesPoint, 0, days)
	index := make(map[string]int, days)

	startDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		key := startDay.AddDate(0, 0, i).Format("2006-01-02")
		index[key] = i
		point := SeriesPoint{Date: key, Services: make(map[string]int, len(perService))}
		for service := range perService {
			point.Services[service] = 0
		}
		points = append(points, point)
	}

	for service, records := range perService {
		for _, rec := range records {
			key := rec.CreatedAt.Format("2006-01-02")
			i, ok := index[key]
			if !ok {
				continue
			}
			points[i].Services[service]++
			points[i].Total++
		}
	}
	return points
}

// RegistrationTrend buckets verified resident registrations per calendar
// month over the trailing twelve months, oldest first.
func RegistrationTrend(residents []ResidentRecord, now time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, 12)
	index := make(map[string]int, 12)

	startMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)
	for i := 0; i < 12; i++ {
		key := startMonth.AddDate(0, i, 0).Format("Jan 2006")
		index[key] = i
		points = append(points, TrendPoint{Month: key})
	}

	for _, res := range residents {
		if !res.IsVerified {
			continue
		}
		key := res.CreatedAt.Format("Jan 2006")
		if i, ok := index[key]; ok {
			points[i].Count++
		}
	}
	return points
}

// AverageResolutionDays is the mean (updatedAt - createdAt) in days over
// reports resolved with both timestamps present. Zero when nothing qualifies.
func AverageResolutionDays(records []Record) float64 {
	var total float64
	var count int
	for _, rec := range records {
		if rec.Status != models.ReportStatusResolved || rec.UpdatedAt == nil {
			continue
		}
		total += rec.UpdatedAt.Sub(rec.CreatedAt).Hours() / 24
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// BreakdownResidents summarises verification, voter, and category tag counts.
func BreakdownResidents(residents []ResidentRecord) ResidentStats {
	stats := ResidentStats{Total: len(residents)}
	typeCounts := make(map[string]int)
	for _, res := range residents {
		if res.IsVerified {
			stats.VerifiedCount++
			if res.IsVoter {
				stats.VoterCount++
			}
		} else {
			stats.PendingCount++
		}
		for _, tag := range res.Types {
			typeCounts[tag]++
		}
	}

	stats.TypeCounts = make([]CategoryCount, 0, len(typeCounts))
	for label, count := range typeCounts {
		stats.TypeCounts = append(stats.TypeCounts, CategoryCount{Label: label, Count: count})
	}
	sort.Slice(stats.TypeCounts, func(i, j int) bool {
		if stats.TypeCounts[i].Count == stats.TypeCounts[j].Count {
			return stats.TypeCounts[i].Label < stats.TypeCounts[j].Label
		}
		return stats.TypeCounts[i].Count > stats.TypeCounts[j].Count
	})
	return stats
}

// Inputs carries the snapshot of every collection one aggregation cycle
// consumes. Ambulance and court arrive pre-filtered by the SQL date window;
// documents, reports, and proposals are filtered here.
type Inputs struct {
	Ambulance []Record
	Court     []Record
	Documents []Record
	Reports   []Record
	Proposals []Record
	Residents []ResidentRecord
}

// Overview is the chart-ready aggregate. It is a pure function of the inputs
// and window, fully recomputed every cycle and never incrementally updated.
type Overview struct {
	Days              int                    `json:"days"`
	GeneratedAt       time.Time              `json:"generated_at"`
	Services          map[string]StatusTally `json:"services"`
	DocumentTypes     []CategoryCount        `json:"document_types"`
	ReportIssues      []CategoryCount        `json:"report_issues"`
	Series            []SeriesPoint          `json:"series"`
	RegistrationTrend []TrendPoint           `json:"registration_trend"`
	Residents         ResidentStats          `json:"residents"`
	AvgResolutionDays float64                `json:"avg_resolution_days"`
}

// Compute derives the full dashboard overview from one snapshot.
func Compute(in Inputs, days int, now time.Time) *Overview {
	window := NewWindow(days, now)

	documents := window.Filter(in.Documents)
	reports := window.Filter(in.Reports)
	proposals := window.Filter(in.Proposals)

	perService := map[string][]Record{
		string(models.ServiceAmbulance): in.Ambulance,
		string(models.ServiceCourt):     in.Court,
		string(models.ServiceDocument):  documents,
		string(models.ServiceReport):    reports,
		string(models.ServiceProposal):  proposals,
	}

	services := make(map[string]StatusTally, len(perService))
	for name, records := range perService {
		services[name] = TallyStatuses(records, models.StatusVocabulary(models.ServiceKind(name)), now)
	}

	return &Overview{
		Days:              days,
		GeneratedAt:       now,
		Services:          services,
		DocumentTypes:     TopCategories(CountCategories(documents), OtherTypesLabel),
		ReportIssues:      TopCategories(CountCategories(reports), OtherIssuesLabel),
		Series:            TimeSeries(days, now, perService),
		RegistrationTrend: RegistrationTrend(in.Residents, now),
		Residents:         BreakdownResidents(in.Residents),
		AvgResolutionDays: AverageResolutionDays(reports),
	}
}
