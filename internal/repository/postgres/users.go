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

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (id, created_at, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, email, password_hash
`

func (r *UserRepo) CreateUser(ctx context.Context, email string, hashedPassword string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, uuid.New(), time.Now(), email, hashedPassword)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}
		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, email, password_hash FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT id, created_at, email, password_hash FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const updatePassword = `-- name: UpdatePassword
UPDATE users SET password_hash = $2
WHERE id = $1
`

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	tag, err := r.DB.Exec(ctx, updatePassword, userID, hashedPassword)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Email, &u.HashedPassword)
	return u, err
}
