package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
)

type InvestmentRepo struct {
	DB DBTX
}

const investmentColumns = `id, user_id, plan_id, amount, start_date, end_date, status, total_earned, last_payout_date, created_at`

const createInvestment = `-- name: CreateInvestment
INSERT INTO investments (id, user_id, plan_id, amount, start_date, end_date, status, total_earned, last_payout_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + investmentColumns

func (r *InvestmentRepo) CreateInvestment(ctx context.Context, inv models.Investment) (models.Investment, error) {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createInvestment,
		inv.ID, inv.UserID, inv.PlanID, inv.Amount, inv.StartDate, inv.EndDate,
		inv.Status, inv.TotalEarned, inv.LastPayoutDate, inv.CreatedAt,
	)
	created, err := pgx.CollectOneRow(rows, rowToInvestment)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getInvestment = `-- name: GetInvestment
SELECT ` + investmentColumns + ` FROM investments
WHERE id = $1
`

func (r *InvestmentRepo) GetInvestment(ctx context.Context, id uuid.UUID) (models.Investment, error) {
	rows, _ := r.DB.Query(ctx, getInvestment, id)
	inv, err := pgx.CollectOneRow(rows, rowToInvestment)

	switch {
	case err == nil:
		return inv, nil
	case errors.Is(err, pgx.ErrNoRows):
		return inv, apperrors.ErrInvestmentNotFound
	default:
		return inv, fmt.Errorf("db error: %w", err)
	}
}

const listInvestmentsByUser = `-- name: ListInvestmentsByUser
SELECT i.id, i.user_id, i.plan_id, i.amount, i.start_date, i.end_date, i.status, i.total_earned, i.last_payout_date, i.created_at,
	p.id, p.name, p.min_amount, p.max_amount, p.daily_return_percentage, p.duration_days, p.description, p.is_active, p.created_at
FROM investments i
JOIN investment_plans p ON p.id = i.plan_id
WHERE i.user_id = $1
ORDER BY i.created_at DESC
`

func (r *InvestmentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Investment, error) {
	rows, _ := r.DB.Query(ctx, listInvestmentsByUser, userID)
	investments, err := pgx.CollectRows(rows, rowToInvestmentWithPlan)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return investments, nil
}

const listActiveInvestments = `-- name: ListActiveInvestments
SELECT i.id, i.user_id, i.plan_id, i.amount, i.start_date, i.end_date, i.status, i.total_earned, i.last_payout_date, i.created_at,
	p.id, p.name, p.min_amount, p.max_amount, p.daily_return_percentage, p.duration_days, p.description, p.is_active, p.created_at
FROM investments i
JOIN investment_plans p ON p.id = i.plan_id
WHERE i.status = 'active'
ORDER BY i.created_at
`

func (r *InvestmentRepo) ListActiveWithPlan(ctx context.Context) ([]models.Investment, error) {
	rows, _ := r.DB.Query(ctx, listActiveInvestments)
	investments, err := pgx.CollectRows(rows, rowToInvestmentWithPlan)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return investments, nil
}

const applyPayout = `-- name: ApplyPayout
UPDATE investments
SET total_earned = total_earned + $2, last_payout_date = $3
WHERE id = $1 AND status = 'active'
`

func (r *InvestmentRepo) ApplyPayout(ctx context.Context, id uuid.UUID, amount decimal.Decimal, paidAt time.Time) error {
	tag, err := r.DB.Exec(ctx, applyPayout, id, amount, paidAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvestmentNotFound
	}

	return nil
}

const completeInvestment = `-- name: CompleteInvestment
UPDATE investments
SET status = 'completed'
WHERE id = $1 AND status = 'active'
`

func (r *InvestmentRepo) Complete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, completeInvestment, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvestmentNotFound
	}

	return nil
}

func rowToInvestment(row pgx.CollectableRow) (models.Investment, error) {
	var i models.Investment
	err := row.Scan(
		&i.ID, &i.UserID, &i.PlanID, &i.Amount, &i.StartDate, &i.EndDate,
		&i.Status, &i.TotalEarned, &i.LastPayoutDate, &i.CreatedAt,
	)
	return i, err
}

func rowToInvestmentWithPlan(row pgx.CollectableRow) (models.Investment, error) {
	var i models.Investment
	var p models.Plan
	err := row.Scan(
		&i.ID, &i.UserID, &i.PlanID, &i.Amount, &i.StartDate, &i.EndDate,
		&i.Status, &i.TotalEarned, &i.LastPayoutDate, &i.CreatedAt,
		&p.ID, &p.Name, &p.MinAmount, &p.MaxAmount, &p.DailyReturnPercentage,
		&p.DurationDays, &p.Description, &p.IsActive, &p.CreatedAt,
	)
	i.Plan = &p
	return i, err
}
