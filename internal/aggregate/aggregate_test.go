package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangayhub/portal-api/internal/models"
)

var testNow = time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)

func rec(status string, created time.Time) Record {
	return Record{Status: status, CreatedAt: created}
}

func TestTallyStatusesCountsExactMatches(t *testing.T) {
	records := make([]Record, 0, 10)
	for i := 0; i < 3; i++ {
		records = append(records, rec("pending", testNow.AddDate(0, 0, -1)))
	}
	for i := 0; i < 5; i++ {
		records = append(records, rec("completed", testNow.AddDate(0, 0, -2)))
	}
	records = append(records, rec("PENDING", testNow), rec("unknown", testNow))

	tally := TallyStatuses(records, models.StatusVocabulary(models.ServiceAmbulance), testNow)

	assert.Equal(t, 10, tally.Total)
	assert.Equal(t, 3, tally.ByStatus["pending"])
	assert.Equal(t, 5, tally.ByStatus["completed"])
	// Unrecognized casing lands in no bucket but still counts toward totals.
	assert.Equal(t, 2, tally.Today)
	sum := 0
	for _, n := range tally.ByStatus {
		sum += n
	}
	assert.Equal(t, 8, sum)
}

func TestTopCategoriesCollapsesLongTail(t *testing.T) {
	counts := map[string]int{
		"barangay_clearance":       10,
		"barangay_id":              8,
		"business_permit":          6,
		"certificate_of_indigency": 4,
		"certificate_of_residency": 2,
		"event_permit":             1,
	}

	top := TopCategories(counts, OtherTypesLabel)

	require.Len(t, top, 5)
	assert.Equal(t, OtherTypesLabel, top[4].Label)
	assert.Equal(t, 3, top[4].Count)
	assert.Equal(t, "barangay_clearance", top[0].Label)
}

func TestTopCategoriesNoCollapseAtFiveOrFewer(t *testing.T) {
	counts := map[string]int{"a": 5, "b": 4, "c": 3, "d": 2, "e": 1}

	top := TopCategories(counts, OtherTypesLabel)

	require.Len(t, top, 5)
	for _, entry := range top {
		assert.NotEqual(t, OtherTypesLabel, entry.Label)
	}
}

func TestTopCategoriesOverflowEqualsTailSum(t *testing.T) {
	counts := map[string]int{}
	tail := 0
	for i := 0; i < 9; i++ {
		counts[fmt.Sprintf("cat-%d", i)] = 9 - i
		if i >= 4 {
			tail += 9 - i
		}
	}

	top := TopCategories(counts, OtherIssuesLabel)

	require.Len(t, top, 5)
	assert.Equal(t, tail, top[4].Count)
}

func TestTimeSeriesBucketLayout(t *testing.T) {
	for _, days := range []int{7, 30, 90, 365} {
		t.Run(fmt.Sprintf("%d days", days), func(t *testing.T) {
			points := TimeSeries(days, testNow, map[string][]Record{"documents": nil})

			require.Len(t, points, days)
			seen := make(map[string]bool, days)
			expected := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
			for i, point := range points {
				assert.Equal(t, expected.AddDate(0, 0, i).Format("2006-01-02"), point.Date)
				assert.False(t, seen[point.Date], "duplicate bucket %s", point.Date)
				seen[point.Date] = true
			}
			assert.Equal(t, "2026-08-30", points[days-1].Date)
		})
	}
}

func TestTimeSeriesDropsOutOfWindowRecords(t *testing.T) {
	perService := map[string][]Record{
		"documents": {
			rec("pending", testNow),
			rec("pending", testNow.AddDate(0, 0, -3)),
			rec("pending", testNow.AddDate(0, 0, -40)),
			rec("pending", testNow.AddDate(0, 0, 2)),
		},
		"reports": {
			rec("Pending", testNow.AddDate(0, 0, -3)),
		},
	}

	points := TimeSeries(7, testNow, perService)

	total := 0
	for _, point := range points {
		total += point.Total
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, points[6].Services["documents"])
	assert.Equal(t, 1, points[3].Services["documents"])
	assert.Equal(t, 1, points[3].Services["reports"])
}

func TestWindowKeepsToday(t *testing.T) {
	window := NewWindow(30, testNow)

	assert.True(t, window.Contains(testNow.Add(8*time.Hour)))
	assert.True(t, window.Contains(testNow.AddDate(0, 0, -29)))
	assert.False(t, window.Contains(testNow.AddDate(0, 0, -31)))
	assert.False(t, window.Contains(testNow.AddDate(0, 0, 1).Add(time.Hour)))
}

func TestAverageResolutionDays(t *testing.T) {
	twoDays := testNow.Add(2 * 24 * time.Hour)
	fourDays := testNow.Add(4 * 24 * time.Hour)
	records := []Record{
		{Status: "Resolved", CreatedAt: testNow, UpdatedAt: &twoDays},
		{Status: "Resolved", CreatedAt: testNow, UpdatedAt: &fourDays},
		{Status: "Resolved", CreatedAt: testNow},
		{Status: "Pending", CreatedAt: testNow, UpdatedAt: &twoDays},
		{Status: "resolved", CreatedAt: testNow, UpdatedAt: &twoDays},
	}

	assert.InDelta(t, 3.0, AverageResolutionDays(records), 0.0001)
}

func TestAverageResolutionDaysEmptyIsZero(t *testing.T) {
	avg := AverageResolutionDays(nil)

	assert.Equal(t, 0.0, avg)
	assert.False(t, avg != avg, "must never be NaN")
}

func TestBreakdownResidents(t *testing.T) {
	residents := []ResidentRecord{
		{IsVerified: true, IsVoter: true, CreatedAt: testNow},
		{IsVerified: true, IsVoter: true, CreatedAt: testNow},
		{IsVerified: true, CreatedAt: testNow, Types: []string{models.ResidentTypeSenior}},
		{CreatedAt: testNow},
		{CreatedAt: testNow, Types: []string{models.ResidentTypePWD}},
	}

	stats := BreakdownResidents(residents)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.VerifiedCount)
	assert.Equal(t, 2, stats.VoterCount)
	assert.Equal(t, 2, stats.PendingCount)
	require.Len(t, stats.TypeCounts, 2)
}

func TestRegistrationTrendTwelveMonthsVerifiedOnly(t *testing.T) {
	residents := []ResidentRecord{
		{IsVerified: true, CreatedAt: testNow},
		{IsVerified: true, CreatedAt: testNow.AddDate(0, -1, 0)},
		{IsVerified: false, CreatedAt: testNow},
		{IsVerified: true, CreatedAt: testNow.AddDate(-2, 0, 0)},
	}

	trend := RegistrationTrend(residents, testNow)

	require.Len(t, trend, 12)
	assert.Equal(t, "Sep 2025", trend[0].Month)
	assert.Equal(t, "Aug 2026", trend[11].Month)
	assert.Equal(t, 1, trend[11].Count)
	assert.Equal(t, 1, trend[10].Count)
	total := 0
	for _, point := range trend {
		total += point.Count
	}
	assert.Equal(t, 2, total)
}

func TestComputeFullOverview(t *testing.T) {
	in := Inputs{
		Ambulance: []Record{
			rec("pending", testNow), rec("pending", testNow), rec("pending", testNow),
			rec("approved", testNow.AddDate(0, 0, -1)),
			rec("completed", testNow.AddDate(0, 0, -2)),
			rec("completed", testNow.AddDate(0, 0, -2)),
			rec("cancelled", testNow.AddDate(0, 0, -3)),
			rec("completed", testNow.AddDate(0, 0, -4)),
			rec("approved", testNow.AddDate(0, 0, -5)),
			rec("pending", testNow.AddDate(0, 0, -60)),
		},
		Documents: []Record{
			{Status: "pending", Category: "barangay_clearance", CreatedAt: testNow},
			{Status: "completed", Category: "barangay_id", CreatedAt: testNow.AddDate(0, 0, -2)},
			{Status: "pending", Category: "barangay_clearance", CreatedAt: testNow.AddDate(0, 0, -400)},
		},
		Reports: []Record{
			{Status: "Pending", Category: "Road Damage", CreatedAt: testNow},
		},
		Residents: []ResidentRecord{{IsVerified: true, IsVoter: true, CreatedAt: testNow}},
	}

	overview := Compute(in, 30, testNow)

	require.NotNil(t, overview)
	assert.Equal(t, 30, overview.Days)
	// Ambulance arrives pre-filtered so every record counts, even old ones.
	assert.Equal(t, 10, overview.Services["ambulance"].Total)
	assert.Equal(t, 4, overview.Services["ambulance"].ByStatus["pending"])
	// Documents are window-filtered before tallying.
	assert.Equal(t, 2, overview.Services["documents"].Total)
	assert.Len(t, overview.Series, 30)
	assert.Equal(t, 1, overview.Services["reports"].ByStatus["Pending"])
	assert.Equal(t, 0.0, overview.AvgResolutionDays)
	assert.Equal(t, 1, overview.Residents.VoterCount)
	require.Len(t, overview.DocumentTypes, 2)
}
