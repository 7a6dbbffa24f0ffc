// Package streak derives current and best consecutive-activity streaks
// from a sparse per-day activity log. All functions are pure: identical
// input always produces identical output, with no side effects.
package streak

import (
	"sort"

	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/models"
)

// DefaultLookbackDays bounds the backward scan for the current streak to
// roughly one year of history.
const DefaultLookbackDays = 365

// activeSet indexes a log by date string. Days absent from the log are
// inactive; absence is negative evidence, not an error.
func activeSet(log []models.ActivityDay) map[string]bool {
	set := make(map[string]bool, len(log))
	for _, day := range log {
		if day.IsActive {
			set[day.Date.String()] = true
		}
	}
	return set
}

// ComputeCurrent returns the consecutive-active run ending at today,
// scanning backward at most lookbackLimit days.
//
// The scan has one deliberate quirk: an inactive today does not end the
// run or zero the count. The user may simply not have acted yet, so the
// scan continues into yesterday, and a run that ended yesterday still
// reports its full length. Any inactive day at i > 0 ends the scan.
func ComputeCurrent(log []models.ActivityDay, today dateutil.LocalDate, lookbackLimit int) int {
	if lookbackLimit <= 0 {
		lookbackLimit = DefaultLookbackDays
	}
	active := activeSet(log)

	count := 0
	for i := 0; i <= lookbackLimit; i++ {
		if active[today.AddDays(-i).String()] {
			count++
		} else if i > 0 {
			break
		}
		// i == 0 and inactive: keep scanning without incrementing.
	}
	return count
}

// ComputeBest returns the longest consecutive-active run anywhere in the
// log. A gap in the records counts as an inactive day and breaks the
// run, as does an explicit inactive record.
func ComputeBest(log []models.ActivityDay) int {
	sorted := make([]models.ActivityDay, len(log))
	copy(sorted, log)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	best, run := 0, 0
	var prev dateutil.LocalDate
	havePrev := false
	for _, day := range sorted {
		switch {
		case !day.IsActive:
			run = 0
		case havePrev && day.Date.Equal(prev):
			// Duplicate record for the same day; no change.
		case havePrev && run > 0 && dateutil.DaysBetween(prev, day.Date) == 1:
			run++
		default:
			run = 1
		}
		if run > best {
			best = run
		}
		prev, havePrev = day.Date, true
	}
	return best
}

// Compute derives the full streak state. The best streak is the maximum
// of every closed run in history and the still-open current run, which
// is allowed to exceed anything previously recorded.
func Compute(log []models.ActivityDay, today dateutil.LocalDate, lookbackLimit int) models.StreakState {
	current := ComputeCurrent(log, today, lookbackLimit)
	best := ComputeBest(log)
	if current > best {
		best = current
	}
	return models.StreakState{Current: current, Best: best}
}
