package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
)

type PhoneCodeRepo struct {
	DB DBTX
}

const createPhoneCode = `-- name: CreatePhoneCode
INSERT INTO phone_codes (id, phone, code, created_at, expires_at, used_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, phone, code, created_at, expires_at, used_at
`

func (r *PhoneCodeRepo) CreateCode(ctx context.Context, code models.PhoneCode) (models.PhoneCode, error) {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createPhoneCode,
		code.ID, code.Phone, code.Code, code.CreatedAt, code.ExpiresAt, code.UsedAt,
	)
	created, err := pgx.CollectOneRow(rows, rowToPhoneCode)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getActivePhoneCode = `-- name: GetActivePhoneCode
SELECT id, phone, code, created_at, expires_at, used_at FROM phone_codes
WHERE phone = $1 AND used_at IS NULL AND expires_at > $2
ORDER BY created_at DESC
LIMIT 1
`

func (r *PhoneCodeRepo) GetActiveCode(ctx context.Context, phone string, now time.Time) (models.PhoneCode, error) {
	rows, _ := r.DB.Query(ctx, getActivePhoneCode, phone, now)
	code, err := pgx.CollectOneRow(rows, rowToPhoneCode)

	switch {
	case err == nil:
		return code, nil
	case errors.Is(err, pgx.ErrNoRows):
		return code, apperrors.ErrPhoneCodeNotFound
	default:
		return code, fmt.Errorf("db error: %w", err)
	}
}

const markPhoneCodeUsed = `-- name: MarkPhoneCodeUsed
UPDATE phone_codes
SET used_at = $2
WHERE id = $1 AND used_at IS NULL
`

func (r *PhoneCodeRepo) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	tag, err := r.DB.Exec(ctx, markPhoneCodeUsed, id, usedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPhoneCodeNotFound
	}

	return nil
}

func rowToPhoneCode(row pgx.CollectableRow) (models.PhoneCode, error) {
	var c models.PhoneCode
	err := row.Scan(&c.ID, &c.Phone, &c.Code, &c.CreatedAt, &c.ExpiresAt, &c.UsedAt)
	return c, err
}
