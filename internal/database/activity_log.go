package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/models"
)

// ActivityLogRepository reads and writes per-day activity flags. The
// streak engine only ever reads a date-ordered window slice; writes come
// from the activity-aggregation layer through the feed endpoint.
type ActivityLogRepository struct {
	db *DB
}

// NewActivityLogRepository creates a new activity log repository.
func NewActivityLogRepository(db *DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// GetWindow returns every recorded day for the user in [from, to],
// ordered ascending by date. Days with no row are simply absent; the
// caller treats them as inactive.
func (r *ActivityLogRepository) GetWindow(ctx context.Context, userID uuid.UUID, from, to dateutil.LocalDate) ([]models.ActivityDay, error) {
	query := `
		SELECT user_id, day, is_active, streak_snapshot, created_at, updated_at
		FROM activity_days
		WHERE user_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity window: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var days []models.ActivityDay
	for rows.Next() {
		var day models.ActivityDay
		if err := rows.Scan(
			&day.UserID,
			&day.Date,
			&day.IsActive,
			&day.StreakSnapshot,
			&day.CreatedAt,
			&day.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity day: %w", err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity days: %w", err)
	}

	return days, nil
}

// Upsert creates or updates the activity flag for one (user, day) pair.
func (r *ActivityLogRepository) Upsert(ctx context.Context, day *models.ActivityDay) error {
	query := `
		INSERT INTO activity_days (user_id, day, is_active, streak_snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, day) DO UPDATE
		SET is_active = EXCLUDED.is_active,
		    streak_snapshot = EXCLUDED.streak_snapshot,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		day.UserID,
		day.Date,
		day.IsActive,
		day.StreakSnapshot,
		now,
	).Scan(&day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert activity day: %w", err)
	}

	return nil
}
