package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cadencehq/cadence/internal/models"
)

// ErrStreakStateNotFound is returned when a user has no persisted
// streak state yet. First recomputes treat this as previousBest = 0.
var ErrStreakStateNotFound = errors.New("streak state not found")

// StreakStateRepository persists the per-user streak state between
// recompute cycles. The stored best streak is the explicit previousBest
// threaded into achievement detection; the recompute sequence enforces
// the discard-stale-responses discipline with a single writer per user.
type StreakStateRepository struct {
	db *DB
}

// NewStreakStateRepository creates a new streak state repository.
func NewStreakStateRepository(db *DB) *StreakStateRepository {
	return &StreakStateRepository{db: db}
}

// Get retrieves the persisted streak state for a user.
func (r *StreakStateRepository) Get(ctx context.Context, userID uuid.UUID) (*models.StreakRecord, error) {
	record := &models.StreakRecord{}

	query := `
		SELECT user_id, current_streak, best_streak, recompute_seq, updated_at
		FROM streak_state
		WHERE user_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&record.UserID,
		&record.Current,
		&record.Best,
		&record.RecomputeSeq,
		&record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStreakStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak state: %w", err)
	}

	return record, nil
}

// NextRecomputeSeq allocates the next recompute sequence number. The
// sequence is global and strictly increasing, which is all the
// stale-response check needs.
func (r *StreakStateRepository) NextRecomputeSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('streak_recompute_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate recompute sequence: %w", err)
	}
	return seq, nil
}

// AcceptRecompute stores a freshly computed streak state, but only if
// seq is newer than the last accepted recompute for this user. It
// returns false when the recompute is stale and was discarded, so the
// caller knows not to emit an achievement for it. The best streak is an
// all-time high-water mark: GREATEST keeps it from regressing even if a
// caller passes a best computed over a bounded window.
func (r *StreakStateRepository) AcceptRecompute(ctx context.Context, userID uuid.UUID, seq int64, state models.StreakState) (bool, error) {
	query := `
		INSERT INTO streak_state (user_id, current_streak, best_streak, recompute_seq, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET current_streak = EXCLUDED.current_streak,
		    best_streak = GREATEST(streak_state.best_streak, EXCLUDED.best_streak),
		    recompute_seq = EXCLUDED.recompute_seq,
		    updated_at = EXCLUDED.updated_at
		WHERE streak_state.recompute_seq < EXCLUDED.recompute_seq
	`

	result, err := r.db.ExecContext(ctx, query, userID, state.Current, state.Best, seq, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to accept recompute: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check recompute acceptance: %w", err)
	}

	return affected > 0, nil
}
