package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadencehq/cadence/internal/recurrence"
)

// fakeRow feeds canned column values through the row scanner used by
// the task queries. Scanning real rows requires a database and is
// covered by integration tests.
type fakeRow struct {
	values []any
}

func (f *fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch v := f.values[i].(type) {
		case uuid.UUID:
			*d.(*uuid.UUID) = v
		case string:
			*d.(*string) = v
		case bool:
			*d.(*bool) = v
		case *string:
			*d.(**string) = v
		case time.Time:
			*d.(*time.Time) = v
		case nil:
			// leave zero value
		}
	}
	return nil
}

func TestScanTaskParsesRuleToken(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	userID := uuid.New()
	rule := "WEEKLY_FRIDAY"
	now := time.Now()

	task, err := scanTask(&fakeRow{values: []any{
		id, userID, "Weekly report", true, &rule, nil, nil, now, now,
	}})
	require.NoError(t, err)

	assert.Equal(t, id, task.ID)
	assert.Equal(t, "Weekly report", task.Title)
	assert.True(t, task.IsRecurring)
	require.NotNil(t, task.RecurrenceRule)
	assert.Equal(t, recurrence.RuleWeeklyFriday, *task.RecurrenceRule)
}

func TestScanTaskKeepsUnknownTokenRaw(t *testing.T) {
	t.Parallel()

	// Corrupt tokens survive the scan; callers decide how to degrade.
	rule := "FORTNIGHTLY"
	task, err := scanTask(&fakeRow{values: []any{
		uuid.New(), uuid.New(), "Old task", true, &rule, nil, nil, time.Now(), time.Now(),
	}})
	require.NoError(t, err)

	require.NotNil(t, task.RecurrenceRule)
	assert.Equal(t, recurrence.Rule("FORTNIGHTLY"), *task.RecurrenceRule)
	assert.False(t, task.RecurrenceRule.Valid())
}

func TestScanTaskWithoutRule(t *testing.T) {
	t.Parallel()

	task, err := scanTask(&fakeRow{values: []any{
		uuid.New(), uuid.New(), "One-off", false, (*string)(nil), nil, nil, time.Now(), time.Now(),
	}})
	require.NoError(t, err)
	assert.Nil(t, task.RecurrenceRule)

	_, ok := task.Anchor()
	assert.False(t, ok)
}
