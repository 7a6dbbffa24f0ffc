package recurrence

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/cadencehq/cadence/internal/dateutil"
)

// FeedItem is one recurring commitment to publish in an iCalendar feed.
type FeedItem struct {
	UID     string
	Summary string
	Rule    Rule
	Anchor  dateutil.LocalDate
}

// ToROption maps a rule to its iCalendar RRULE equivalent. The mapping
// is for feed export only; window evaluation stays in Evaluate, whose
// literal semantics (anchor exclusion, no MONTHLY clamp) RRULE engines
// do not reproduce.
func ToROption(rule Rule, anchor dateutil.LocalDate) (rrule.ROption, error) {
	opt := rrule.ROption{Dtstart: anchor.Time()}

	if dow, ok := rule.Weekday(); ok {
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rruleWeekday(dow)}
		return opt, nil
	}

	switch rule {
	case RuleDaily:
		opt.Freq = rrule.DAILY
	case RuleWeekdays:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
	case RuleWeekends:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{rrule.SA, rrule.SU}
	case RuleBiweekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
		opt.Byweekday = []rrule.Weekday{rruleWeekday(anchor.DayOfWeek())}
	case RuleMonthly:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{anchor.Day()}
	default:
		return rrule.ROption{}, ErrUnknownRule
	}
	return opt, nil
}

func rruleWeekday(dow int) rrule.Weekday {
	// dow uses 0 = Sunday; rrule-go weekday constants start at Monday.
	switch dow {
	case 0:
		return rrule.SU
	case 1:
		return rrule.MO
	case 2:
		return rrule.TU
	case 3:
		return rrule.WE
	case 4:
		return rrule.TH
	case 5:
		return rrule.FR
	default:
		return rrule.SA
	}
}

// Feed builds a VCALENDAR with one all-day VEVENT per item, each
// carrying the item's rule as an RRULE. Items with an invalid rule are
// skipped rather than poisoning the whole feed.
func Feed(items []FeedItem, now time.Time) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, "-//Cadence//calendar feed//EN")
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, item := range items {
		opt, err := ToROption(item.Rule, item.Anchor)
		if err != nil {
			continue
		}

		ev := ical.NewComponent(ical.CompEvent)
		ev.Props.SetText(ical.PropUID, item.UID)
		ev.Props.SetText(ical.PropSummary, item.Summary)
		ev.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetValueType(ical.ValueDate)
		start.Value = item.Anchor.Time().Format("20060102")
		ev.Props.Set(start)

		rr := ical.NewProp(ical.PropRecurrenceRule)
		rr.Value = opt.RRuleString()
		ev.Props.Set(rr)

		cal.Children = append(cal.Children, ev)
	}

	if len(cal.Children) == 0 {
		return nil, fmt.Errorf("no exportable recurring items")
	}
	return cal, nil
}
