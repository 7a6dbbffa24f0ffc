package dateutil

import (
	"errors"
	"iter"
	"time"
)

// ErrInvalidWindow indicates a window whose end precedes its start.
var ErrInvalidWindow = errors.New("window end precedes start")

// Window is an inclusive [Start, End] range of calendar days.
type Window struct {
	Start LocalDate
	End   LocalDate
}

// NewWindow builds an inclusive window, rejecting end < start.
func NewWindow(start, end LocalDate) (Window, error) {
	if end.Before(start) {
		return Window{}, ErrInvalidWindow
	}
	return Window{Start: start, End: end}, nil
}

// MonthWindow returns the window spanning every day of the given month.
func MonthWindow(year int, month time.Month) Window {
	first := NewLocalDate(year, month, 1)
	return Window{Start: first, End: first.AddDays(lengthOfMonth(year, month) - 1)}
}

func lengthOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Len returns the number of days in the window.
func (w Window) Len() int {
	return DaysBetween(w.Start, w.End) + 1
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d LocalDate) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days yields every date in the window in ascending order. The sequence
// is finite and restartable; each range starts fresh from w.Start.
func (w Window) Days() iter.Seq[LocalDate] {
	return func(yield func(LocalDate) bool) {
		for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}
