package recurrence

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadencehq/cadence/internal/dateutil"
)

func TestToROption(t *testing.T) {
	t.Parallel()

	anchor := dateutil.MustParse("2024-01-01") // Monday

	tests := []struct {
		rule Rule
		want string
	}{
		{RuleDaily, "FREQ=DAILY"},
		{RuleWeekdays, "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"},
		{RuleWeekends, "FREQ=WEEKLY;BYDAY=SA,SU"},
		{RuleWeeklyWednesday, "FREQ=WEEKLY;BYDAY=WE"},
		{RuleBiweekly, "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO"},
		{RuleMonthly, "FREQ=MONTHLY;BYMONTHDAY=1"},
	}
	for _, tt := range tests {
		opt, err := ToROption(tt.rule, anchor)
		require.NoError(t, err, string(tt.rule))
		assert.Equal(t, tt.want, opt.RRuleString(), string(tt.rule))
	}

	_, err := ToROption(Rule("bogus"), anchor)
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestFeed(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	items := []FeedItem{
		{UID: "task-1", Summary: "Water plants", Rule: RuleDaily, Anchor: dateutil.MustParse("2024-05-01")},
		{UID: "task-2", Summary: "Team sync", Rule: RuleWeeklyMonday, Anchor: dateutil.MustParse("2024-05-06")},
		{UID: "task-3", Summary: "corrupt", Rule: Rule("???"), Anchor: dateutil.MustParse("2024-05-01")},
	}

	cal, err := Feed(items, now)
	require.NoError(t, err)

	// The corrupt rule is skipped, not fatal.
	require.Len(t, cal.Children, 2)

	ev := cal.Children[0]
	assert.Equal(t, ical.CompEvent, ev.Name)
	uid, err := ev.Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "task-1", uid)

	start := ev.Props.Get(ical.PropDateTimeStart)
	require.NotNil(t, start)
	assert.Equal(t, "20240501", start.Value)

	rr := ev.Props.Get(ical.PropRecurrenceRule)
	require.NotNil(t, rr)
	assert.Equal(t, "FREQ=DAILY", rr.Value)

	var buf strings.Builder
	require.NoError(t, ical.NewEncoder(&buf).Encode(cal))
	assert.Contains(t, buf.String(), "BEGIN:VEVENT")
	assert.Contains(t, buf.String(), "RRULE:FREQ=WEEKLY;BYDAY=MO")
}

func TestFeed_NoItems(t *testing.T) {
	t.Parallel()

	_, err := Feed([]FeedItem{{UID: "x", Rule: Rule("bad"), Anchor: dateutil.MustParse("2024-01-01")}}, time.Now())
	assert.Error(t, err)
}
