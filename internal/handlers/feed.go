package handlers

import (
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/database"
	"github.com/cadencehq/cadence/internal/recurrence"
	"github.com/cadencehq/cadence/internal/request"
)

// FeedHandler exports the user's recurring tasks as an iCalendar feed
// for subscription from external calendar clients.
type FeedHandler struct {
	taskRepo database.TaskReader
	logger   *zap.Logger
	now      func() time.Time
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(taskRepo database.TaskReader, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{taskRepo: taskRepo, logger: logger, now: time.Now}
}

// RegisterRoutes registers feed routes on the given router.
// The router should already have the /calendar prefix.
func (h *FeedHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/feed.ics", h.GetFeed).Methods("GET")
}

// GetFeed serves the recurring-task calendar as text/calendar. Tasks
// with unrecognized rules or no anchor date are skipped, matching the
// calendar view's degrade-to-empty behavior.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	tasks, err := h.taskRepo.ListRecurringByUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("feed_task_list_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load tasks")
		return
	}

	items := make([]recurrence.FeedItem, 0, len(tasks))
	for _, task := range tasks {
		if task.RecurrenceRule == nil {
			continue
		}
		anchor, ok := task.Anchor()
		if !ok {
			continue
		}
		items = append(items, recurrence.FeedItem{
			UID:     task.ID.String(),
			Summary: task.Title,
			Rule:    *task.RecurrenceRule,
			Anchor:  anchor,
		})
	}

	cal, err := recurrence.Feed(items, h.now())
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No recurring tasks to export")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cadence.ics"`)
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		h.logger.Error("feed_encode_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
}
