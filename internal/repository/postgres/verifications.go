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

type VerificationRepo struct {
	DB DBTX
}

const verificationColumns = `id, user_id, document_type, document_front_key, document_back_key, selfie_key,
passport_number, status, submitted_at, reviewed_at, admin_note`

const createVerification = `-- name: CreateVerification
INSERT INTO identity_verifications (id, user_id, document_type, document_front_key, document_back_key, selfie_key,
	passport_number, status, submitted_at, reviewed_at, admin_note)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + verificationColumns

func (r *VerificationRepo) CreateVerification(ctx context.Context, v models.IdentityVerification) (models.IdentityVerification, error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.SubmittedAt.IsZero() {
		v.SubmittedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createVerification,
		v.ID, v.UserID, v.DocumentType, v.DocumentFrontKey, v.DocumentBackKey, v.SelfieKey,
		v.PassportNumber, v.Status, v.SubmittedAt, v.ReviewedAt, v.AdminNote,
	)
	created, err := pgx.CollectOneRow(rows, rowToVerification)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getLatestVerification = `-- name: GetLatestVerification
SELECT ` + verificationColumns + ` FROM identity_verifications
WHERE user_id = $1
ORDER BY submitted_at DESC
LIMIT 1
`

func (r *VerificationRepo) GetLatest(ctx context.Context, userID uuid.UUID) (models.IdentityVerification, error) {
	rows, _ := r.DB.Query(ctx, getLatestVerification, userID)
	v, err := pgx.CollectOneRow(rows, rowToVerification)

	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, pgx.ErrNoRows):
		return v, apperrors.ErrVerificationNotFound
	default:
		return v, fmt.Errorf("db error: %w", err)
	}
}

const listPendingVerifications = `-- name: ListPendingVerifications
SELECT ` + verificationColumns + ` FROM identity_verifications
WHERE status = 'pending'
ORDER BY submitted_at
`

func (r *VerificationRepo) ListPending(ctx context.Context) ([]models.IdentityVerification, error) {
	rows, _ := r.DB.Query(ctx, listPendingVerifications)
	verifications, err := pgx.CollectRows(rows, rowToVerification)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return verifications, nil
}

const reviewVerification = `-- name: ReviewVerification
UPDATE identity_verifications
SET status = $2, admin_note = $3, reviewed_at = $4
WHERE id = $1 AND status = 'pending'
RETURNING ` + verificationColumns

func (r *VerificationRepo) Review(ctx context.Context, id uuid.UUID, status string, adminNote *string, reviewedAt time.Time) (models.IdentityVerification, error) {
	rows, _ := r.DB.Query(ctx, reviewVerification, id, status, adminNote, reviewedAt)
	v, err := pgx.CollectOneRow(rows, rowToVerification)

	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, pgx.ErrNoRows):
		return v, apperrors.ErrVerificationNotPending
	default:
		return v, fmt.Errorf("db error: %w", err)
	}
}

func rowToVerification(row pgx.CollectableRow) (models.IdentityVerification, error) {
	var v models.IdentityVerification
	err := row.Scan(
		&v.ID, &v.UserID, &v.DocumentType, &v.DocumentFrontKey, &v.DocumentBackKey, &v.SelfieKey,
		&v.PassportNumber, &v.Status, &v.SubmittedAt, &v.ReviewedAt, &v.AdminNote,
	)
	return v, err
}
