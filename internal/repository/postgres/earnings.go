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

type EarningRepo struct {
	DB DBTX
}

const earningExists = `-- name: EarningExists
SELECT EXISTS (
	SELECT 1 FROM earnings WHERE investment_id = $1 AND date = $2
)
`

func (r *EarningRepo) ExistsForDate(ctx context.Context, investmentID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, earningExists, investmentID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

const createEarning = `-- name: CreateEarning
INSERT INTO earnings (id, investment_id, user_id, amount, date, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, investment_id, user_id, amount, date, created_at
`

func (r *EarningRepo) CreateEarning(ctx context.Context, e models.Earning) (models.Earning, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createEarning, e.ID, e.InvestmentID, e.UserID, e.Amount, e.Date, e.CreatedAt)
	earning, err := pgx.CollectOneRow(rows, rowToEarning)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return earning, apperrors.ErrEarningExists
		}
		return earning, fmt.Errorf("db error: %w", err)
	}

	return earning, nil
}

const listEarningsByUser = `-- name: ListEarningsByUser
SELECT id, investment_id, user_id, amount, date, created_at FROM earnings
WHERE user_id = $1
ORDER BY date DESC, created_at DESC
`

func (r *EarningRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Earning, error) {
	rows, _ := r.DB.Query(ctx, listEarningsByUser, userID)
	earnings, err := pgx.CollectRows(rows, rowToEarning)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return earnings, nil
}

func rowToEarning(row pgx.CollectableRow) (models.Earning, error) {
	var e models.Earning
	err := row.Scan(&e.ID, &e.InvestmentID, &e.UserID, &e.Amount, &e.Date, &e.CreatedAt)
	return e, err
}
