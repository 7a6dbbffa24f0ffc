package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/recurrence"
)

// Task represents a task item. Recurrence is described by an optional
// rule plus two optional calendar-date fields; both dates are plain
// "YYYY-MM-DD" values in the user's local calendar, never UTC instants.
type Task struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"user_id"`
	Title          string              `json:"title"`
	IsRecurring    bool                `json:"is_recurring"`
	RecurrenceRule *recurrence.Rule    `json:"recurrence_rule,omitempty"`
	StartDate      *dateutil.LocalDate `json:"start_date,omitempty"`
	DueDate        *dateutil.LocalDate `json:"due_date,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Anchor returns the rule's anchor date: the start date when present,
// otherwise the due date. ok is false when the task has neither.
func (t *Task) Anchor() (dateutil.LocalDate, bool) {
	if t.StartDate != nil {
		return *t.StartDate, true
	}
	if t.DueDate != nil {
		return *t.DueDate, true
	}
	return dateutil.LocalDate{}, false
}
