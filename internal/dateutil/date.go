// Package dateutil provides timezone-safe calendar date values and
// bounded date windows. All arithmetic operates on whole local calendar
// days, never on elapsed wall-clock time, so results are stable across
// DST transitions and client timezone offsets.
package dateutil

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// ParseError indicates a malformed or calendar-invalid date string.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

// LocalDate is a calendar day with no time component. The zero value is
// usable and sorts before every real date.
type LocalDate struct {
	t time.Time
}

// NewLocalDate constructs a date from components. Out-of-range components
// normalize the way time.Date does (day 32 rolls into the next month);
// use Parse for validated input.
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a timestamp to its calendar day in the timestamp's
// own location. The wall-clock components are read out directly rather
// than converting the instant, so a local midnight never shifts a day
// when the zone is behind UTC.
func FromTime(t time.Time) LocalDate {
	y, m, d := t.Date()
	return NewLocalDate(y, m, d)
}

// Parse parses a "YYYY-MM-DD" string into a LocalDate. It decomposes the
// string into year/month/day components and builds the date from those
// components directly. Malformed shapes and calendar-invalid dates (such
// as 2024-02-31) return a *ParseError.
func Parse(s string) (LocalDate, error) {
	if len(s) != len(Layout) || s[4] != '-' || s[7] != '-' {
		return LocalDate{}, &ParseError{Input: s, Reason: "must be YYYY-MM-DD"}
	}
	// Atoi alone would accept sign characters ("+024", "-1"), which do
	// not match the layout and would not round-trip.
	for i, c := range []byte(s) {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return LocalDate{}, &ParseError{Input: s, Reason: "must be YYYY-MM-DD"}
		}
	}
	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[5:7])
	day, _ := strconv.Atoi(s[8:10])
	if month < 1 || month > 12 {
		return LocalDate{}, &ParseError{Input: s, Reason: "month out of range"}
	}
	d := NewLocalDate(year, time.Month(month), day)
	// time.Date normalizes overflow (Feb 31 becomes Mar 2); reject any
	// input that does not survive the round trip.
	if y2, m2, d2 := d.t.Date(); y2 != year || m2 != time.Month(month) || d2 != day {
		return LocalDate{}, &ParseError{Input: s, Reason: "no such calendar day"}
	}
	return d, nil
}

// MustParse is Parse for trusted literals; it panics on error.
func MustParse(s string) LocalDate {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats the date as zero-padded "YYYY-MM-DD".
func (d LocalDate) String() string {
	return d.t.Format(Layout)
}

// Date returns the year, month and day components.
func (d LocalDate) Date() (int, time.Month, int) {
	return d.t.Date()
}

// Day returns the day of the month, 1..31.
func (d LocalDate) Day() int {
	return d.t.Day()
}

// DayOfWeek returns the weekday with 0 = Sunday .. 6 = Saturday.
func (d LocalDate) DayOfWeek() int {
	return int(d.t.Weekday())
}

// AddDays returns the date n whole days later (earlier for negative n).
func (d LocalDate) AddDays(n int) LocalDate {
	return LocalDate{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly before other.
func (d LocalDate) Before(other LocalDate) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d LocalDate) After(other LocalDate) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same calendar day.
func (d LocalDate) Equal(other LocalDate) bool { return d.t.Equal(other.t) }

// IsZero reports whether d is the zero value.
func (d LocalDate) IsZero() bool { return d.t.IsZero() }

// Time returns the date as midnight UTC, for interop with time-based APIs.
func (d LocalDate) Time() time.Time { return d.t }

// DaysBetween returns the whole-day difference b - a. Both dates are
// anchored at midnight UTC internally, so the result is an exact day
// count with no DST drift.
func DaysBetween(a, b LocalDate) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// MarshalJSON encodes the date as a quoted "YYYY-MM-DD" string.
func (d LocalDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted "YYYY-MM-DD" string.
func (d *LocalDate) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return &ParseError{Input: string(data), Reason: "not a JSON string"}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so LocalDate maps to a SQL DATE column.
func (d LocalDate) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *LocalDate) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = FromTime(v)
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into LocalDate", src)
	}
}
