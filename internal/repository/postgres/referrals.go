package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/joel172001/appniania/internal/models"
)

type ReferralRepo struct {
	DB DBTX
}

const createReferral = `-- name: CreateReferral
INSERT INTO referrals (id, referrer_id, referred_id, status, created_at)
VALUES ($1, $2, $3, 'registered', $4)
RETURNING id, referrer_id, referred_id, status, created_at
`

func (r *ReferralRepo) CreateReferral(ctx context.Context, referrerID uuid.UUID, referredID uuid.UUID) (models.Referral, error) {
	rows, _ := r.DB.Query(ctx, createReferral, uuid.New(), referrerID, referredID, time.Now())
	referral, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Referral, error) {
		var ref models.Referral
		err := row.Scan(&ref.ID, &ref.ReferrerID, &ref.ReferredID, &ref.Status, &ref.CreatedAt)
		return ref, err
	})
	if err != nil {
		return referral, fmt.Errorf("db error: %w", err)
	}

	return referral, nil
}

const listReferralsByReferrer = `-- name: ListReferralsByReferrer
SELECT r.id, r.referrer_id, r.referred_id, r.status, r.created_at, p.full_name, p.email
FROM referrals r
JOIN profiles p ON p.user_id = r.referred_id
WHERE r.referrer_id = $1
ORDER BY r.created_at DESC
`

func (r *ReferralRepo) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.Referral, error) {
	rows, _ := r.DB.Query(ctx, listReferralsByReferrer, referrerID)
	referrals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Referral, error) {
		var ref models.Referral
		err := row.Scan(&ref.ID, &ref.ReferrerID, &ref.ReferredID, &ref.Status, &ref.CreatedAt, &ref.ReferredName, &ref.ReferredEmail)
		return ref, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return referrals, nil
}
