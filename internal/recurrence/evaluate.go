package recurrence

import (
	"github.com/cadencehq/cadence/internal/dateutil"
)

// Evaluate returns the ordered set of dates inside window that rule
// matches, evaluated against anchor. Results are strictly after the
// anchor (the anchor itself is the primary, non-recurring occurrence),
// ascending, and duplicate-free. The scan is O(window length), which is
// fine for month-sized display windows; do not point it at multi-year
// ranges.
func Evaluate(rule Rule, anchor dateutil.LocalDate, window dateutil.Window) ([]dateutil.LocalDate, error) {
	if !rule.Valid() {
		return nil, ErrUnknownRule
	}

	var out []dateutil.LocalDate
	for d := range window.Days() {
		if d.Equal(anchor) {
			continue
		}
		if matches(rule, anchor, d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// matches implements the per-rule membership test for a single candidate
// day. All rules require d >= anchor.
func matches(rule Rule, anchor, d dateutil.LocalDate) bool {
	if d.Before(anchor) {
		return false
	}

	if dow, ok := rule.Weekday(); ok {
		return d.DayOfWeek() == dow
	}

	switch rule {
	case RuleDaily:
		return true
	case RuleWeekdays:
		dow := d.DayOfWeek()
		return dow >= 1 && dow <= 5
	case RuleWeekends:
		dow := d.DayOfWeek()
		return dow == 0 || dow == 6
	case RuleBiweekly:
		// Same weekday as the anchor, with an even number of elapsed
		// weeks since it.
		if d.DayOfWeek() != anchor.DayOfWeek() {
			return false
		}
		return (dateutil.DaysBetween(anchor, d)/7)%2 == 0
	case RuleMonthly:
		// An anchor day-of-month missing from a shorter month simply
		// never matches that month; there is no clamp or rollover.
		return d.Day() == anchor.Day()
	}
	return false
}
