package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/database"
	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/request"
	"github.com/cadencehq/cadence/internal/streak"
)

// StreakHandler serves streak state for the authenticated user.
type StreakHandler struct {
	streakRepo   database.StreakStateStore
	activityRepo database.ActivityLogReader
	logger       *zap.Logger
	lookbackDays int
	now          func() time.Time
}

// NewStreakHandler creates a new streak handler
func NewStreakHandler(
	streakRepo database.StreakStateStore,
	activityRepo database.ActivityLogReader,
	logger *zap.Logger,
	lookbackDays int,
) *StreakHandler {
	if lookbackDays <= 0 {
		lookbackDays = streak.DefaultLookbackDays
	}
	return &StreakHandler{
		streakRepo:   streakRepo,
		activityRepo: activityRepo,
		logger:       logger,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// RegisterRoutes registers streak routes on the given router.
// The router should already have the /streaks prefix.
func (h *StreakHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetStreaks).Methods("GET")
}

// StreakResponse is the streak state payload.
type StreakResponse struct {
	Current   int    `json:"current"`
	Best      int    `json:"best"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// GetStreaks returns the user's streak counters. By default it serves
// the persisted state maintained by the recompute worker; passing
// ?today=YYYY-MM-DD recomputes live against that reference date, which
// lets clients in other timezones see their own calendar day.
func (h *StreakHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}
	ctx := r.Context()

	if todayParam := r.URL.Query().Get("today"); todayParam != "" {
		today, err := dateutil.Parse(todayParam)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "today must be a YYYY-MM-DD date")
			return
		}

		from := today.AddDays(-h.lookbackDays)
		activityLog, err := h.activityRepo.GetWindow(ctx, user.ID, from, today)
		if err != nil {
			h.logger.Error("streak_live_compute_failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
			respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Streak data unavailable")
			return
		}

		state := streak.Compute(activityLog, today, h.lookbackDays)

		// The live compute only sees the bounded window; the persisted
		// best covers the full history and wins when it is higher.
		record, err := h.streakRepo.Get(ctx, user.ID)
		switch {
		case errors.Is(err, database.ErrStreakStateNotFound):
		case err != nil:
			h.logger.Error("streak_state_read_failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
			respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Streak data unavailable")
			return
		default:
			if record.Best > state.Best {
				state.Best = record.Best
			}
		}

		respondJSON(w, http.StatusOK, StreakResponse{Current: state.Current, Best: state.Best})
		return
	}

	record, err := h.streakRepo.Get(ctx, user.ID)
	if errors.Is(err, database.ErrStreakStateNotFound) {
		// No recompute has run yet for this user.
		respondJSON(w, http.StatusOK, StreakResponse{})
		return
	}
	if err != nil {
		h.logger.Error("streak_state_read_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Streak data unavailable")
		return
	}

	respondJSON(w, http.StatusOK, StreakResponse{
		Current:   record.Current,
		Best:      record.Best,
		UpdatedAt: record.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
