package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/achievement"
	"github.com/cadencehq/cadence/internal/database"
	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/models"
	"github.com/cadencehq/cadence/internal/queue"
	"github.com/cadencehq/cadence/internal/streak"
)

// retryDelay spaces out retries of failed recomputes.
const retryDelay = 30 * time.Second

// StreakRecomputer rebuilds a user's streak state from the raw activity
// log and emits achievement notifications when a badge threshold is
// crossed.
type StreakRecomputer struct {
	activityRepo database.ActivityLogReader
	streakRepo   database.StreakStateStore
	jobQueue     queue.JobQueue
	catalog      []models.Badge
	logger       *zap.Logger
	lookbackDays int
	now          func() time.Time
}

// NewStreakRecomputer creates a new streak recomputer.
func NewStreakRecomputer(
	activityRepo database.ActivityLogReader,
	streakRepo database.StreakStateStore,
	jobQueue queue.JobQueue,
	catalog []models.Badge,
	logger *zap.Logger,
	lookbackDays int,
) *StreakRecomputer {
	if lookbackDays <= 0 {
		lookbackDays = streak.DefaultLookbackDays
	}
	return &StreakRecomputer{
		activityRepo: activityRepo,
		streakRepo:   streakRepo,
		jobQueue:     jobQueue,
		catalog:      catalog,
		logger:       logger,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// ProcessRecomputeJob recomputes the streak state for the job's user.
// Jobs whose Seq is not newer than the last accepted recompute are
// discarded, so out-of-order deliveries cannot clobber fresher state.
func (r *StreakRecomputer) ProcessRecomputeJob(ctx context.Context, job *queue.Job) error {
	today := dateutil.FromTime(r.now())
	from := today.AddDays(-r.lookbackDays)

	activityLog, err := r.activityRepo.GetWindow(ctx, job.UserID, from, today)
	if err != nil {
		return fmt.Errorf("failed to load activity window: %w", err)
	}

	state := streak.Compute(activityLog, today, r.lookbackDays)

	previousBest := 0
	record, err := r.streakRepo.Get(ctx, job.UserID)
	switch {
	case errors.Is(err, database.ErrStreakStateNotFound):
		// First recompute for this user.
	case err != nil:
		return fmt.Errorf("failed to load streak state: %w", err)
	default:
		previousBest = record.Best
	}

	// The activity fetch is window-bounded, so a best streak achieved
	// before the window opened is invisible to Compute. The stored best
	// is the all-time high-water mark and never decreases; without this
	// clamp an old record would be overwritten and its badges re-emitted
	// on the climb back up.
	if previousBest > state.Best {
		state.Best = previousBest
	}

	accepted, err := r.streakRepo.AcceptRecompute(ctx, job.UserID, job.Seq, state)
	if err != nil {
		return fmt.Errorf("failed to persist streak state: %w", err)
	}
	if !accepted {
		r.logger.Info("recompute_discarded_stale",
			zap.String("user_id", job.UserID.String()),
			zap.Int64("seq", job.Seq))
		return nil
	}

	r.logger.Info("streak_recomputed",
		zap.String("user_id", job.UserID.String()),
		zap.Int64("seq", job.Seq),
		zap.Int("current", state.Current),
		zap.Int("best", state.Best))

	badge, ok := achievement.Detect(previousBest, state.Best, r.catalog).Get()
	if !ok {
		return nil
	}

	notify := queue.NewNotifyJob(job.UserID, badge)
	if err := r.jobQueue.Enqueue(ctx, notify); err != nil {
		// The streak state is already persisted; a lost notification is
		// better than a double recompute.
		r.logger.Error("achievement_notify_enqueue_failed",
			zap.String("user_id", job.UserID.String()),
			zap.Int("threshold_days", badge.ThresholdDays),
			zap.Error(err))
		return nil
	}

	r.logger.Info("achievement_unlocked",
		zap.String("user_id", job.UserID.String()),
		zap.Int("threshold_days", badge.ThresholdDays),
		zap.String("label", badge.Label))

	return nil
}

// ProcessNotifyJob handles an achievement notification. Delivery to an
// external channel is not wired up; the event is logged so downstream
// consumers can tail it.
func (r *StreakRecomputer) ProcessNotifyJob(_ context.Context, job *queue.Job) error {
	if job.Badge == nil {
		return fmt.Errorf("badge is required for achievement notify job")
	}
	r.logger.Info("achievement_notification",
		zap.String("user_id", job.UserID.String()),
		zap.Int("threshold_days", job.Badge.ThresholdDays),
		zap.String("label", job.Badge.Label),
		zap.String("icon", string(job.Badge.Icon)))
	return nil
}

// ProcessJob dispatches a queue message by job type and handles
// acknowledgement and retry.
func (r *StreakRecomputer) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	switch job.Type {
	case queue.JobTypeStreakRecompute:
		if err := r.ProcessRecomputeJob(ctx, job); err != nil {
			return r.handleJobError(ctx, msg, job, err)
		}
	case queue.JobTypeAchievementNotify:
		if err := r.ProcessNotifyJob(ctx, job); err != nil {
			return r.handleJobError(ctx, msg, job, err)
		}
	default:
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Error("job_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job: %w", ackErr)
	}
	return nil
}

// handleJobError re-enqueues the job with a delay while retry budget
// remains, otherwise dead-letters it.
func (r *StreakRecomputer) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if !job.CanRetry() {
		r.logger.Error("job_failed_permanently",
			zap.String("job_id", job.ID.String()),
			zap.String("type", string(job.Type)),
			zap.Int("retry_count", job.RetryCount),
			zap.Error(err))
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Error("job_nack_failed", zap.Error(nackErr))
		}
		return err
	}

	notBefore := r.now().Add(retryDelay)
	retry := *job
	retry.RetryCount++
	retry.NotBefore = &notBefore

	if enqueueErr := r.jobQueue.Enqueue(ctx, &retry); enqueueErr != nil {
		if nackErr := msg.Nack(true); nackErr != nil {
			r.logger.Error("job_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("failed to re-enqueue for retry: %w", enqueueErr)
	}

	r.logger.Warn("job_retry_scheduled",
		zap.String("job_id", job.ID.String()),
		zap.String("type", string(job.Type)),
		zap.Int("retry_count", retry.RetryCount),
		zap.Time("not_before", notBefore),
		zap.Error(err))

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job after re-enqueue: %w", ackErr)
	}
	return err
}
