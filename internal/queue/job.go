package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/models"
)

// JobType represents the type of job.
type JobType string

const (
	// JobTypeStreakRecompute asks the worker to rebuild a user's streak
	// state from the raw activity log. Enqueued whenever the log changes.
	JobTypeStreakRecompute JobType = "streak_recompute"
	// JobTypeAchievementNotify carries a freshly unlocked badge to the
	// notification consumer.
	JobTypeAchievementNotify JobType = "achievement_notify"
)

// Job represents a job in the queue.
type Job struct {
	ID     uuid.UUID `json:"id"`
	Type   JobType   `json:"type"`
	UserID uuid.UUID `json:"user_id"`

	// Day is the activity day whose change triggered a recompute, when
	// known. Informational; the worker always refetches the full window.
	Day *dateutil.LocalDate `json:"day,omitempty"`
	// Seq orders recompute jobs: the worker discards any job whose Seq
	// is not newer than the last accepted recompute for the user.
	Seq int64 `json:"seq,omitempty"`
	// Badge is set on achievement_notify jobs only.
	Badge *models.Badge `json:"badge,omitempty"`

	NotBefore  *time.Time `json:"not_before,omitempty"` // earliest processing time (nil = immediate)
	NotAfter   *time.Time `json:"not_after,omitempty"`  // expiry (nil = none)
	CreatedAt  time.Time  `json:"created_at"`
	RetryCount int        `json:"retry_count"`
	MaxRetries int        `json:"max_retries"`
}

// NewRecomputeJob creates a streak recompute job.
func NewRecomputeJob(userID uuid.UUID, day *dateutil.LocalDate, seq int64) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       JobTypeStreakRecompute,
		UserID:     userID,
		Day:        day,
		Seq:        seq,
		CreatedAt:  time.Now(),
		MaxRetries: 3,
	}
}

// NewNotifyJob creates an achievement notification job.
func NewNotifyJob(userID uuid.UUID, badge models.Badge) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       JobTypeAchievementNotify,
		UserID:     userID,
		Badge:      &badge,
		CreatedAt:  time.Now(),
		MaxRetries: 3,
	}
}

// ShouldProcess checks whether the job is inside its processing window.
func (j *Job) ShouldProcess() bool {
	now := time.Now()
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}
	return true
}

// CanRetry reports whether the job has retry budget left.
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}
