package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/models"
)

// ActivityLogReader is the read surface the streak pipeline consumes.
type ActivityLogReader interface {
	GetWindow(ctx context.Context, userID uuid.UUID, from, to dateutil.LocalDate) ([]models.ActivityDay, error)
}

// ActivityLogWriter is the write surface used by the feed endpoint.
type ActivityLogWriter interface {
	Upsert(ctx context.Context, day *models.ActivityDay) error
}

// StreakStateStore persists streak state across recompute cycles.
type StreakStateStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.StreakRecord, error)
	NextRecomputeSeq(ctx context.Context) (int64, error)
	AcceptRecompute(ctx context.Context, userID uuid.UUID, seq int64, state models.StreakState) (bool, error)
}

// TaskReader is the task surface the calendar and feed handlers need.
type TaskReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListRecurringByUser(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
}

// Ensure concrete types implement the interfaces
var (
	_ ActivityLogReader = (*ActivityLogRepository)(nil)
	_ ActivityLogWriter = (*ActivityLogRepository)(nil)
	_ StreakStateStore  = (*StreakStateRepository)(nil)
	_ TaskReader        = (*TaskRepository)(nil)
)
