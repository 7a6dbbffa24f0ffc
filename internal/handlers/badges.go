package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/database"
	"github.com/cadencehq/cadence/internal/models"
	"github.com/cadencehq/cadence/internal/request"
)

// BadgeHandler serves the badge catalog and the user's earned badges.
type BadgeHandler struct {
	catalog    []models.Badge
	streakRepo database.StreakStateStore
	logger     *zap.Logger
}

// NewBadgeHandler creates a new badge handler
func NewBadgeHandler(catalog []models.Badge, streakRepo database.StreakStateStore, logger *zap.Logger) *BadgeHandler {
	return &BadgeHandler{catalog: catalog, streakRepo: streakRepo, logger: logger}
}

// RegisterRoutes registers badge routes on the given router.
// The router should already have the /badges prefix.
func (h *BadgeHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListBadges).Methods("GET")
	r.HandleFunc("/earned", h.ListEarnedBadges).Methods("GET")
}

// ListBadges returns the full badge catalog, ascending by threshold.
func (h *BadgeHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog)
}

// ListEarnedBadges returns the catalog entries the user's best streak
// has reached. Earned status derives from best, not current: a broken
// streak never takes a badge away.
func (h *BadgeHandler) ListEarnedBadges(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	best := 0
	record, err := h.streakRepo.Get(r.Context(), user.ID)
	switch {
	case errors.Is(err, database.ErrStreakStateNotFound):
	case err != nil:
		h.logger.Error("streak_state_read_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Streak data unavailable")
		return
	default:
		best = record.Best
	}

	earned := []models.Badge{}
	for _, badge := range h.catalog {
		if best >= badge.ThresholdDays {
			earned = append(earned, badge)
		}
	}

	respondJSON(w, http.StatusOK, earned)
}
