package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/models"
	"github.com/cadencehq/cadence/internal/recurrence"
)

func TestGetFeedServesCalendar(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}
	task := recurringTask(user.ID, recurrence.RuleWeeklyMonday, "2024-01-01")
	h := NewFeedHandler(&fakeTaskReader{tasks: map[uuid.UUID]*models.Task{task.ID: task}}, zap.NewNop())
	h.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	req := authedRequest(t, "GET", "/calendar/feed.ics", user)
	rec := httptest.NewRecorder()
	h.GetFeed(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")

	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "BEGIN:VEVENT")
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY;BYDAY=MO")
	assert.Contains(t, body, "Water the plants")
}

func TestGetFeedNoRecurringTasks(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}
	h := NewFeedHandler(&fakeTaskReader{tasks: map[uuid.UUID]*models.Task{}}, zap.NewNop())

	req := authedRequest(t, "GET", "/calendar/feed.ics", user)
	rec := httptest.NewRecorder()
	h.GetFeed(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
