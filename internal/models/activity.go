package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cadencehq/cadence/internal/dateutil"
)

// ActivityDay is one user's boolean activity flag for one calendar day.
// Rows are written by the activity-aggregation layer; the streak engine
// treats them as read-only input. A day with no row means inactive.
type ActivityDay struct {
	UserID         uuid.UUID          `json:"user_id"`
	Date           dateutil.LocalDate `json:"date"`
	IsActive       bool               `json:"is_active"`
	StreakSnapshot *int               `json:"streak_snapshot,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// StreakState is derived, never authoritative: it is recomputed from raw
// activity flags on every cycle. The informational snapshot carried on
// the feed can go stale and must not short-circuit a recompute.
type StreakState struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// StreakRecord is the persisted per-user streak state, including the
// last accepted recompute sequence used to discard stale recomputes.
type StreakRecord struct {
	UserID       uuid.UUID `json:"user_id"`
	Current      int       `json:"current"`
	Best         int       `json:"best"`
	RecomputeSeq int64     `json:"recompute_seq"`
	UpdatedAt    time.Time `json:"updated_at"`
}
