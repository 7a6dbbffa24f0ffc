package streak

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/models"
)

func day(date string, active bool) models.ActivityDay {
	return models.ActivityDay{Date: dateutil.MustParse(date), IsActive: active}
}

func TestComputeCurrent_SimpleRun(t *testing.T) {
	t.Parallel()

	today := dateutil.MustParse("2024-06-10")
	log := []models.ActivityDay{
		day("2024-06-10", true),
		day("2024-06-09", true),
		day("2024-06-08", false),
	}
	assert.Equal(t, 2, ComputeCurrent(log, today, DefaultLookbackDays))
}

func TestComputeCurrent_GraceRule(t *testing.T) {
	t.Parallel()

	// Inactive today does not stop the scan; the run that ended
	// yesterday still counts in full.
	today := dateutil.MustParse("2024-06-10")
	log := []models.ActivityDay{
		day("2024-06-10", false),
		day("2024-06-09", true),
		day("2024-06-08", true),
		day("2024-06-07", false),
	}
	assert.Equal(t, 2, ComputeCurrent(log, today, DefaultLookbackDays))
}

func TestComputeCurrent_InactiveYesterdayEndsRun(t *testing.T) {
	t.Parallel()

	today := dateutil.MustParse("2024-06-10")
	log := []models.ActivityDay{
		day("2024-06-10", false),
		day("2024-06-09", false),
		day("2024-06-08", true),
		day("2024-06-07", true),
	}
	// The scan stops at the first inactive day with i > 0; the older run
	// is unreachable.
	assert.Equal(t, 0, ComputeCurrent(log, today, DefaultLookbackDays))
}

func TestComputeCurrent_MissingDaysAreInactive(t *testing.T) {
	t.Parallel()

	today := dateutil.MustParse("2024-06-10")
	log := []models.ActivityDay{
		day("2024-06-10", true),
		// 2024-06-09 has no record.
		day("2024-06-08", true),
	}
	assert.Equal(t, 1, ComputeCurrent(log, today, DefaultLookbackDays))
}

func TestComputeCurrent_EmptyLog(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ComputeCurrent(nil, dateutil.MustParse("2024-06-10"), DefaultLookbackDays))
}

func TestComputeCurrent_LookbackBound(t *testing.T) {
	t.Parallel()

	today := dateutil.MustParse("2024-06-10")
	var log []models.ActivityDay
	for i := 0; i < 30; i++ {
		log = append(log, models.ActivityDay{Date: today.AddDays(-i), IsActive: true})
	}
	// A lookback shorter than the run truncates the count at limit+1
	// scanned days.
	assert.Equal(t, 11, ComputeCurrent(log, today, 10))
	assert.Equal(t, 30, ComputeCurrent(log, today, DefaultLookbackDays))
}

func TestComputeBest_LongestClosedRun(t *testing.T) {
	t.Parallel()

	// Chronological: active, active, inactive, active, active, active.
	log := []models.ActivityDay{
		day("2024-06-01", true),
		day("2024-06-02", true),
		day("2024-06-03", false),
		day("2024-06-04", true),
		day("2024-06-05", true),
		day("2024-06-06", true),
	}
	assert.Equal(t, 3, ComputeBest(log))
}

func TestComputeBest_UnsortedInput(t *testing.T) {
	t.Parallel()

	log := []models.ActivityDay{
		day("2024-06-05", true),
		day("2024-06-01", true),
		day("2024-06-04", true),
		day("2024-06-02", true),
	}
	// Sorted: 1,2 then gap then 4,5 -> best run of 2.
	assert.Equal(t, 2, ComputeBest(log))
}

func TestComputeBest_GapBreaksRun(t *testing.T) {
	t.Parallel()

	log := []models.ActivityDay{
		day("2024-06-01", true),
		day("2024-06-02", true),
		day("2024-06-04", true), // June 3 missing
	}
	assert.Equal(t, 2, ComputeBest(log))
}

func TestComputeBest_EmptyAndAllInactive(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ComputeBest(nil))
	assert.Equal(t, 0, ComputeBest([]models.ActivityDay{
		day("2024-06-01", false),
		day("2024-06-02", false),
	}))
}

func TestCompute_OpenRunExceedsHistory(t *testing.T) {
	t.Parallel()

	today := dateutil.MustParse("2024-06-10")
	log := []models.ActivityDay{
		day("2024-06-01", true),
		day("2024-06-02", true),
		day("2024-06-03", false),
		day("2024-06-07", true),
		day("2024-06-08", true),
		day("2024-06-09", true),
		day("2024-06-10", true),
	}
	state := Compute(log, today, DefaultLookbackDays)
	assert.Equal(t, 4, state.Current)
	// The live run is longer than any closed run in history.
	assert.Equal(t, 4, state.Best)
}

func TestCompute_Idempotent(t *testing.T) {
	t.Parallel()

	today := dateutil.MustParse("2024-06-10")
	log := []models.ActivityDay{
		day("2024-06-10", true),
		day("2024-06-09", true),
	}
	first := Compute(log, today, DefaultLookbackDays)
	second := Compute(log, today, DefaultLookbackDays)
	assert.Equal(t, first, second)
}

func TestCompute_IgnoresStreakSnapshot(t *testing.T) {
	t.Parallel()

	// A stale snapshot on the feed must not leak into the result;
	// streaks are recomputed from the raw flags alone.
	stale := 99
	today := dateutil.MustParse("2024-06-10")
	log := []models.ActivityDay{
		{Date: dateutil.MustParse("2024-06-10"), IsActive: true, StreakSnapshot: &stale},
	}
	state := Compute(log, today, DefaultLookbackDays)
	assert.Equal(t, models.StreakState{Current: 1, Best: 1}, state)
}
