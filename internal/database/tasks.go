package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cadencehq/cadence/internal/models"
	"github.com/cadencehq/cadence/internal/recurrence"
)

// TaskRepository handles task database operations. Only the recurrence
// surface of a task matters here: the rule token, the is_recurring flag
// and the two optional anchor date fields.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, is_recurring, recurrence_rule, start_date, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING created_at, updated_at
	`

	var rule *string
	if task.RecurrenceRule != nil {
		s := string(*task.RecurrenceRule)
		rule = &s
	}

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.IsRecurring,
		rule,
		task.StartDate,
		task.DueDate,
		now,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `
		SELECT id, user_id, title, is_recurring, recurrence_rule, start_date, due_date, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// ListRecurringByUser returns the user's recurring tasks that carry a
// rule token, for calendar highlighting and the ICS feed. The token is
// stored raw; callers parse it and decide how to degrade corrupt rows.
func (r *TaskRepository) ListRecurringByUser(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := `
		SELECT id, user_id, title, is_recurring, recurrence_rule, start_date, due_date, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND is_recurring = true AND recurrence_rule IS NOT NULL
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var rule *string
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.IsRecurring,
		&rule,
		&task.StartDate,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if rule != nil {
		r := recurrence.Rule(*rule)
		task.RecurrenceRule = &r
	}
	return task, nil
}
