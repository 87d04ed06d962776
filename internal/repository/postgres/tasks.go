package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
)

type TaskRepo struct {
	DB DBTX
}

const taskColumns = `id, title, description, reward_amount, task_type, task_url, is_active, created_at`

const listActiveTasks = `-- name: ListActiveTasks
SELECT ` + taskColumns + ` FROM daily_tasks
WHERE is_active
ORDER BY reward_amount DESC
`

func (r *TaskRepo) ListActiveTasks(ctx context.Context) ([]models.DailyTask, error) {
	rows, _ := r.DB.Query(ctx, listActiveTasks)
	tasks, err := pgx.CollectRows(rows, rowToTask)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tasks, nil
}

const getTask = `-- name: GetTask
SELECT ` + taskColumns + ` FROM daily_tasks
WHERE id = $1
`

func (r *TaskRepo) GetTask(ctx context.Context, id uuid.UUID) (models.DailyTask, error) {
	rows, _ := r.DB.Query(ctx, getTask, id)
	task, err := pgx.CollectOneRow(rows, rowToTask)

	switch {
	case err == nil:
		return task, nil
	case errors.Is(err, pgx.ErrNoRows):
		return task, apperrors.ErrTaskNotFound
	default:
		return task, fmt.Errorf("db error: %w", err)
	}
}

const listTaskCompletions = `-- name: ListTaskCompletions
SELECT id, user_id, task_id, completed_at, completion_date, reward_credited
FROM user_task_completions
WHERE user_id = $1 AND completion_date = $2
`

func (r *TaskRepo) ListCompletions(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.TaskCompletion, error) {
	rows, _ := r.DB.Query(ctx, listTaskCompletions, userID, date)
	completions, err := pgx.CollectRows(rows, rowToTaskCompletion)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return completions, nil
}

const createTaskCompletion = `-- name: CreateTaskCompletion
INSERT INTO user_task_completions (id, user_id, task_id, completed_at, completion_date, reward_credited)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, task_id, completed_at, completion_date, reward_credited
`

func (r *TaskRepo) CreateCompletion(ctx context.Context, c models.TaskCompletion) (models.TaskCompletion, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createTaskCompletion,
		c.ID, c.UserID, c.TaskID, c.CompletedAt, c.CompletionDate, c.RewardCredited,
	)
	created, err := pgx.CollectOneRow(rows, rowToTaskCompletion)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return created, apperrors.ErrTaskAlreadyCompleted
		}
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func rowToTask(row pgx.CollectableRow) (models.DailyTask, error) {
	var t models.DailyTask
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.RewardAmount, &t.TaskType, &t.TaskURL, &t.IsActive, &t.CreatedAt)
	return t, err
}

func rowToTaskCompletion(row pgx.CollectableRow) (models.TaskCompletion, error) {
	var c models.TaskCompletion
	err := row.Scan(&c.ID, &c.UserID, &c.TaskID, &c.CompletedAt, &c.CompletionDate, &c.RewardCredited)
	return c, err
}
