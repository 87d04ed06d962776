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
	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

type ProfileRepo struct {
	DB DBTX
}

const profileColumns = `user_id, email, full_name, phone, phone_verified, usdt_address,
referral_code, referred_by, is_admin, balance, total_invested, total_earnings, created_at, updated_at`

const createProfile = `-- name: CreateProfile
INSERT INTO profiles (user_id, email, full_name, phone, phone_verified, usdt_address,
	referral_code, referred_by, is_admin, balance, total_invested, total_earnings, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
RETURNING ` + profileColumns

func (r *ProfileRepo) CreateProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, createProfile,
		p.UserID, p.Email, p.FullName, p.Phone, p.PhoneVerified, p.USDTAddress,
		p.ReferralCode, p.ReferredBy, p.IsAdmin, p.Balance, p.TotalInvested, p.TotalEarnings, time.Now(),
	)
	profile, err := pgx.CollectOneRow(rows, rowToProfile)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return profile, fmt.Errorf("profile already exists: %w", apperrors.ErrUserAlreadyExists)
		}
		return profile, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

const getProfile = `-- name: GetProfile
SELECT ` + profileColumns + ` FROM profiles
WHERE user_id = $1
`

func (r *ProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, getProfile, userID)
	return collectProfile(rows)
}

const getProfileByEmail = `-- name: GetProfileByEmail
SELECT ` + profileColumns + ` FROM profiles
WHERE email = $1
`

func (r *ProfileRepo) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, getProfileByEmail, email)
	return collectProfile(rows)
}

const getProfileByReferralCode = `-- name: GetProfileByReferralCode
SELECT ` + profileColumns + ` FROM profiles
WHERE referral_code = $1
`

func (r *ProfileRepo) GetProfileByReferralCode(ctx context.Context, code string) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, getProfileByReferralCode, code)
	return collectProfile(rows)
}

const listProfileIDs = `-- name: ListProfileIDs
SELECT user_id FROM profiles
`

func (r *ProfileRepo) ListProfileIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, _ := r.DB.Query(ctx, listProfileIDs)
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (uuid.UUID, error) {
		var id uuid.UUID
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}

const updateContact = `-- name: UpdateContact
UPDATE profiles
SET full_name = COALESCE($2, full_name),
	usdt_address = COALESCE($3, usdt_address),
	updated_at = now()
WHERE user_id = $1
RETURNING ` + profileColumns

func (r *ProfileRepo) UpdateContact(ctx context.Context, userID uuid.UUID, params repository.UpdateContactParams) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, updateContact, userID, params.FullName, params.USDTAddress)
	return collectProfile(rows)
}

const markPhoneVerified = `-- name: MarkPhoneVerified
UPDATE profiles
SET phone_verified = TRUE, updated_at = now()
WHERE phone = $1
`

func (r *ProfileRepo) MarkPhoneVerified(ctx context.Context, phone string) error {
	_, err := r.DB.Exec(ctx, markPhoneVerified, phone)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Balance mutations below are single UPDATE statements on purpose:
// concurrent writers (two investments of one user in the same accrual run,
// admin approval racing a purchase) must not lose updates.

const creditBalance = `-- name: CreditBalance
UPDATE profiles
SET balance = balance + $2, updated_at = now()
WHERE user_id = $1
RETURNING ` + profileColumns

func (r *ProfileRepo) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, creditBalance, userID, amount)
	return collectProfile(rows)
}

const debitBalance = `-- name: DebitBalance
UPDATE profiles
SET balance = balance - $2, updated_at = now()
WHERE user_id = $1 AND balance >= $2
RETURNING ` + profileColumns

func (r *ProfileRepo) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, debitBalance, userID, amount)
	return r.collectBalanceUpdate(ctx, rows, userID, apperrors.ErrBalanceInsufficient)
}

const applyEarning = `-- name: ApplyEarning
UPDATE profiles
SET balance = balance + $2, total_earnings = total_earnings + $2, updated_at = now()
WHERE user_id = $1
RETURNING ` + profileColumns

func (r *ProfileRepo) ApplyEarning(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, applyEarning, userID, amount)
	return collectProfile(rows)
}

const applyInvestment = `-- name: ApplyInvestment
UPDATE profiles
SET balance = balance - $2, total_invested = total_invested + $2, updated_at = now()
WHERE user_id = $1 AND balance >= $2
RETURNING ` + profileColumns

func (r *ProfileRepo) ApplyInvestment(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, applyInvestment, userID, amount)
	return r.collectBalanceUpdate(ctx, rows, userID, apperrors.ErrBalanceInsufficient)
}

const transferEarnings = `-- name: TransferEarnings
UPDATE profiles
SET balance = balance + $2, total_earnings = total_earnings - $2, updated_at = now()
WHERE user_id = $1 AND total_earnings >= $2
RETURNING ` + profileColumns

func (r *ProfileRepo) TransferEarnings(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, transferEarnings, userID, amount)
	return r.collectBalanceUpdate(ctx, rows, userID, apperrors.ErrEarningsInsufficient)
}

// collectBalanceUpdate tells a guarded update that matched no row apart from
// a missing profile: the former maps to guardErr, the latter to ErrProfileNotFound
func (r *ProfileRepo) collectBalanceUpdate(ctx context.Context, rows pgx.Rows, userID uuid.UUID, guardErr error) (models.Profile, error) {
	profile, err := pgx.CollectOneRow(rows, rowToProfile)

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		if _, getErr := r.GetProfile(ctx, userID); getErr != nil {
			return profile, getErr
		}
		return profile, guardErr
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}

func collectProfile(rows pgx.Rows) (models.Profile, error) {
	profile, err := pgx.CollectOneRow(rows, rowToProfile)

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		return profile, apperrors.ErrProfileNotFound
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}

func rowToProfile(row pgx.CollectableRow) (models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.UserID, &p.Email, &p.FullName, &p.Phone, &p.PhoneVerified, &p.USDTAddress,
		&p.ReferralCode, &p.ReferredBy, &p.IsAdmin, &p.Balance, &p.TotalInvested, &p.TotalEarnings,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
