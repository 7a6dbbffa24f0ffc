package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/database"
	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/models"
	"github.com/cadencehq/cadence/internal/queue"
	"github.com/cadencehq/cadence/internal/request"
	"github.com/cadencehq/cadence/internal/validation"
)

// recomputeDebounce delays recompute jobs so a burst of activity writes
// collapses into one effective recompute (older jobs arrive stale).
const recomputeDebounce = 5 * time.Second

// ActivityHandler records daily activity flags and triggers streak
// recomputes.
type ActivityHandler struct {
	activityRepo interface {
		database.ActivityLogReader
		database.ActivityLogWriter
	}
	streakRepo database.StreakStateStore
	jobQueue   queue.JobQueue
	logger     *zap.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(
	activityRepo *database.ActivityLogRepository,
	streakRepo database.StreakStateStore,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *ActivityHandler {
	return &ActivityHandler{
		activityRepo: activityRepo,
		streakRepo:   streakRepo,
		jobQueue:     jobQueue,
		logger:       logger,
	}
}

// RegisterRoutes registers activity routes on the given router.
// The router should already have the /activity prefix.
func (h *ActivityHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetActivity).Methods("GET")
	r.HandleFunc("", h.RecordActivity).Methods("POST")
}

// RecordActivityRequest marks one calendar day active or inactive.
type RecordActivityRequest struct {
	Date     string `json:"date" validate:"required,local_date"`
	IsActive bool   `json:"is_active"`
}

// GetActivity returns the user's activity days between from and to,
// ordered by date ascending. Days without a record are omitted; callers
// treat missing days as inactive.
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	from, err := dateutil.Parse(r.URL.Query().Get("from"))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "from must be a YYYY-MM-DD date")
		return
	}
	to, err := dateutil.Parse(r.URL.Query().Get("to"))
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "to must be a YYYY-MM-DD date")
		return
	}
	if to.Before(from) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "to must not be before from")
		return
	}

	days, err := h.activityRepo.GetWindow(r.Context(), user.ID, from, to)
	if err != nil {
		h.logger.Error("activity_window_read_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load activity")
		return
	}
	if days == nil {
		days = []models.ActivityDay{}
	}

	respondJSON(w, http.StatusOK, days)
}

// RecordActivity upserts one activity day and enqueues a debounced
// streak recompute carrying a fresh sequence number.
func (h *ActivityHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}
	ctx := r.Context()

	var req RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	day, err := dateutil.Parse(req.Date)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "date must be a YYYY-MM-DD date")
		return
	}

	record := &models.ActivityDay{
		UserID:   user.ID,
		Date:     day,
		IsActive: req.IsActive,
	}
	if err := h.activityRepo.Upsert(ctx, record); err != nil {
		h.logger.Error("activity_upsert_failed",
			zap.String("user_id", user.ID.String()),
			zap.String("date", day.String()),
			zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to record activity")
		return
	}

	seq, err := h.streakRepo.NextRecomputeSeq(ctx)
	if err != nil {
		h.logger.Error("recompute_seq_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to schedule recompute")
		return
	}

	job := queue.NewRecomputeJob(user.ID, &day, seq)
	notBefore := time.Now().Add(recomputeDebounce)
	job.NotBefore = &notBefore

	if err := h.jobQueue.Enqueue(ctx, job); err != nil {
		// The activity write already landed; the next write will
		// schedule a recompute that covers this one too.
		h.logger.Error("recompute_enqueue_failed",
			zap.String("user_id", user.ID.String()),
			zap.Int64("seq", seq),
			zap.Error(err))
	}

	respondJSON(w, http.StatusAccepted, record)
}
