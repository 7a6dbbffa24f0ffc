package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/database"
	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/recurrence"
	"github.com/cadencehq/cadence/internal/request"
)

// CalendarHandler serves recurrence projections for calendar views.
type CalendarHandler struct {
	taskRepo database.TaskReader
	logger   *zap.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(taskRepo database.TaskReader, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{taskRepo: taskRepo, logger: logger}
}

// RegisterRoutes registers calendar routes on the given router.
// The router should already have the /calendar prefix.
func (h *CalendarHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/recurrence", h.GetRecurrence).Methods("GET")
}

// RecurrenceResponse lists a task's occurrence dates inside one month.
type RecurrenceResponse struct {
	TaskID uuid.UUID            `json:"task_id"`
	Rule   string               `json:"rule,omitempty"`
	Month  string               `json:"month"`
	Dates  []dateutil.LocalDate `json:"dates"`
}

// parseMonth parses "YYYY-MM" into a month window.
func parseMonth(s string) (dateutil.Window, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return dateutil.Window{}, errors.New("month must be in YYYY-MM format")
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return dateutil.Window{}, errors.New("month must be in YYYY-MM format")
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return dateutil.Window{}, errors.New("month must be in YYYY-MM format")
	}
	return dateutil.MonthWindow(year, time.Month(month)), nil
}

// GetRecurrence projects a recurring task's occurrences into the
// requested month. Tasks whose stored rule is no longer recognized get
// an empty projection rather than an error, so one corrupt row cannot
// break a calendar view.
func (h *CalendarHandler) GetRecurrence(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	taskID, err := uuid.Parse(r.URL.Query().Get("task_id"))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "task_id must be a valid UUID")
		return
	}

	window, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	task, err := h.taskRepo.GetByID(r.Context(), taskID)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}
	if task.UserID != user.ID {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}

	resp := RecurrenceResponse{
		TaskID: task.ID,
		Month:  r.URL.Query().Get("month"),
		Dates:  []dateutil.LocalDate{},
	}

	if !task.IsRecurring || task.RecurrenceRule == nil {
		respondJSON(w, http.StatusOK, resp)
		return
	}
	resp.Rule = string(*task.RecurrenceRule)

	anchor, ok := task.Anchor()
	if !ok {
		respondJSON(w, http.StatusOK, resp)
		return
	}

	dates, err := recurrence.Evaluate(*task.RecurrenceRule, anchor, window)
	if err != nil {
		if errors.Is(err, recurrence.ErrUnknownRule) {
			h.logger.Warn("recurrence_rule_unrecognized",
				zap.String("task_id", task.ID.String()),
				zap.String("rule", string(*task.RecurrenceRule)))
			respondJSON(w, http.StatusOK, resp)
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to evaluate recurrence")
		return
	}

	if dates != nil {
		resp.Dates = dates
	}
	respondJSON(w, http.StatusOK, resp)
}
