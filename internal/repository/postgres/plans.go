package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
)

type PlanRepo struct {
	DB DBTX
}

const planColumns = `id, name, min_amount, max_amount, daily_return_percentage, duration_days, description, is_active, created_at`

const listActivePlans = `-- name: ListActivePlans
SELECT ` + planColumns + ` FROM investment_plans
WHERE is_active
ORDER BY min_amount
`

func (r *PlanRepo) ListActivePlans(ctx context.Context) ([]models.Plan, error) {
	rows, _ := r.DB.Query(ctx, listActivePlans)
	plans, err := pgx.CollectRows(rows, rowToPlan)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return plans, nil
}

const getPlan = `-- name: GetPlan
SELECT ` + planColumns + ` FROM investment_plans
WHERE id = $1
`

func (r *PlanRepo) GetPlan(ctx context.Context, planID uuid.UUID) (models.Plan, error) {
	rows, _ := r.DB.Query(ctx, getPlan, planID)
	plan, err := pgx.CollectOneRow(rows, rowToPlan)

	switch {
	case err == nil:
		return plan, nil
	case errors.Is(err, pgx.ErrNoRows):
		return plan, apperrors.ErrPlanNotFound
	default:
		return plan, fmt.Errorf("db error: %w", err)
	}
}

func rowToPlan(row pgx.CollectableRow) (models.Plan, error) {
	var p models.Plan
	err := row.Scan(
		&p.ID, &p.Name, &p.MinAmount, &p.MaxAmount, &p.DailyReturnPercentage,
		&p.DurationDays, &p.Description, &p.IsActive, &p.CreatedAt,
	)
	return p, err
}
