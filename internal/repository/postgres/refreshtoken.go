package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const saveRefreshToken = `-- name: SaveRefreshToken
INSERT INTO refresh_tokens (id, user_id, token, created_at, expires_at, used_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) error {
	_, err := r.DB.Exec(ctx, saveRefreshToken,
		token.ID, token.UserID, token.Token, token.CreatedAt, token.ExpiresAt, token.UsedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const getRefreshToken = `-- name: GetRefreshToken
SELECT id, user_id, token, created_at, expires_at, used_at FROM refresh_tokens
WHERE token = $1
`

func (r *RefreshTokenRepo) GetValidToken(ctx context.Context, tokenString string, now time.Time) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, getRefreshToken, tokenString)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return token, apperrors.ErrRefreshTokenNotFound
	case err != nil:
		return token, fmt.Errorf("db error: %w", err)
	case token.UsedAt != nil:
		return token, apperrors.ErrRefreshTokenIsUsed
	case token.ExpiresAt.Before(now):
		return token, apperrors.ErrRefreshTokenExpired
	default:
		return token, nil
	}
}

const markRefreshTokenUsed = `-- name: MarkRefreshTokenUsed
UPDATE refresh_tokens
SET used_at = $2
WHERE token = $1 AND used_at IS NULL
`

func (r *RefreshTokenRepo) MarkUsed(ctx context.Context, tokenString string, usedAt time.Time) error {
	tag, err := r.DB.Exec(ctx, markRefreshTokenUsed, tokenString, usedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRefreshTokenNotFound
	}

	return nil
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt, &t.UsedAt)
	return t, err
}
