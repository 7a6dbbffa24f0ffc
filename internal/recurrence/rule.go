// Package recurrence evaluates which calendar dates a recurring
// commitment falls on inside a bounded display window.
package recurrence

import (
	"errors"
	"fmt"
)

// Rule is a closed enumeration of recurrence patterns. Rules carry no
// state; they are always evaluated against an anchor date.
type Rule string

const (
	RuleDaily           Rule = "DAILY"
	RuleWeekdays        Rule = "WEEKDAYS"
	RuleWeekends        Rule = "WEEKENDS"
	RuleWeeklyMonday    Rule = "WEEKLY_MONDAY"
	RuleWeeklyTuesday   Rule = "WEEKLY_TUESDAY"
	RuleWeeklyWednesday Rule = "WEEKLY_WEDNESDAY"
	RuleWeeklyThursday  Rule = "WEEKLY_THURSDAY"
	RuleWeeklyFriday    Rule = "WEEKLY_FRIDAY"
	RuleWeeklySaturday  Rule = "WEEKLY_SATURDAY"
	RuleWeeklySunday    Rule = "WEEKLY_SUNDAY"
	RuleBiweekly        Rule = "BIWEEKLY"
	RuleMonthly         Rule = "MONTHLY"
)

// ErrUnknownRule indicates a rule token outside the closed enumeration.
// Unknown tokens are an explicit error rather than a silent "no matches";
// a corrupted persisted rule must be visible to the caller so it can
// degrade that task's highlighting deliberately.
var ErrUnknownRule = errors.New("unknown recurrence rule")

// weeklyWeekdays maps the seven single-weekday rules to day-of-week
// values with 0 = Sunday.
var weeklyWeekdays = map[Rule]int{
	RuleWeeklySunday:    0,
	RuleWeeklyMonday:    1,
	RuleWeeklyTuesday:   2,
	RuleWeeklyWednesday: 3,
	RuleWeeklyThursday:  4,
	RuleWeeklyFriday:    5,
	RuleWeeklySaturday:  6,
}

// Rules lists every valid rule in a stable order.
var Rules = []Rule{
	RuleDaily, RuleWeekdays, RuleWeekends,
	RuleWeeklyMonday, RuleWeeklyTuesday, RuleWeeklyWednesday,
	RuleWeeklyThursday, RuleWeeklyFriday, RuleWeeklySaturday,
	RuleWeeklySunday, RuleBiweekly, RuleMonthly,
}

// ParseRule validates a persisted rule token.
func ParseRule(s string) (Rule, error) {
	r := Rule(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
	return r, nil
}

// Valid reports whether r is a member of the closed enumeration.
func (r Rule) Valid() bool {
	switch r {
	case RuleDaily, RuleWeekdays, RuleWeekends,
		RuleWeeklyMonday, RuleWeeklyTuesday, RuleWeeklyWednesday,
		RuleWeeklyThursday, RuleWeeklyFriday, RuleWeeklySaturday,
		RuleWeeklySunday, RuleBiweekly, RuleMonthly:
		return true
	}
	return false
}

// Weekday returns the fixed day-of-week (0 = Sunday) for the seven
// single-weekday rules, and ok=false for every other rule.
func (r Rule) Weekday() (int, bool) {
	dow, ok := weeklyWeekdays[r]
	return dow, ok
}
