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
	"github.com/joel172001/appniania/internal/repository"
)

type WithdrawalRepo struct {
	DB DBTX
}

const withdrawalColumns = `id, user_id, amount, usdt_address, status, admin_note, requested_at, processed_at`

const createWithdrawalRequest = `-- name: CreateWithdrawalRequest
INSERT INTO withdrawal_requests (id, user_id, amount, usdt_address, status, admin_note, requested_at, processed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + withdrawalColumns

func (r *WithdrawalRepo) CreateRequest(ctx context.Context, req models.WithdrawalRequest) (models.WithdrawalRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createWithdrawalRequest,
		req.ID, req.UserID, req.Amount, req.USDTAddress, req.Status, req.AdminNote, req.RequestedAt, req.ProcessedAt,
	)
	created, err := pgx.CollectOneRow(rows, rowToWithdrawal)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getWithdrawalRequest = `-- name: GetWithdrawalRequest
SELECT ` + withdrawalColumns + ` FROM withdrawal_requests
WHERE id = $1
`

func (r *WithdrawalRepo) GetRequest(ctx context.Context, id uuid.UUID) (models.WithdrawalRequest, error) {
	rows, _ := r.DB.Query(ctx, getWithdrawalRequest, id)
	req, err := pgx.CollectOneRow(rows, rowToWithdrawal)

	switch {
	case err == nil:
		return req, nil
	case errors.Is(err, pgx.ErrNoRows):
		return req, apperrors.ErrWithdrawalNotFound
	default:
		return req, fmt.Errorf("db error: %w", err)
	}
}

const listWithdrawalsByUser = `-- name: ListWithdrawalsByUser
SELECT ` + withdrawalColumns + ` FROM withdrawal_requests
WHERE user_id = $1
ORDER BY requested_at DESC
`

func (r *WithdrawalRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	rows, _ := r.DB.Query(ctx, listWithdrawalsByUser, userID)
	requests, err := pgx.CollectRows(rows, rowToWithdrawal)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return requests, nil
}

const listPendingWithdrawals = `-- name: ListPendingWithdrawals
SELECT w.id, w.user_id, w.amount, w.usdt_address, w.status, w.admin_note, w.requested_at, w.processed_at, p.email
FROM withdrawal_requests w
JOIN profiles p ON p.user_id = w.user_id
WHERE w.status = 'pending'
ORDER BY w.requested_at DESC
`

func (r *WithdrawalRepo) ListPending(ctx context.Context) ([]repository.PendingWithdrawal, error) {
	rows, _ := r.DB.Query(ctx, listPendingWithdrawals)
	requests, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.PendingWithdrawal, error) {
		var w repository.PendingWithdrawal
		err := row.Scan(
			&w.ID, &w.UserID, &w.Amount, &w.USDTAddress, &w.Status, &w.AdminNote, &w.RequestedAt, &w.ProcessedAt,
			&w.Email,
		)
		return w, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return requests, nil
}

const setWithdrawalStatus = `-- name: SetWithdrawalStatus
UPDATE withdrawal_requests
SET status = $2, admin_note = $3, processed_at = $4
WHERE id = $1 AND status = 'pending'
RETURNING ` + withdrawalColumns

func (r *WithdrawalRepo) SetStatus(ctx context.Context, id uuid.UUID, status string, adminNote *string, processedAt time.Time) (models.WithdrawalRequest, error) {
	rows, _ := r.DB.Query(ctx, setWithdrawalStatus, id, status, adminNote, processedAt)
	req, err := pgx.CollectOneRow(rows, rowToWithdrawal)

	switch {
	case err == nil:
		return req, nil
	case errors.Is(err, pgx.ErrNoRows):
		if _, getErr := r.GetRequest(ctx, id); getErr != nil {
			return req, getErr
		}
		return req, apperrors.ErrWithdrawalNotPending
	default:
		return req, fmt.Errorf("db error: %w", err)
	}
}

const createWithdrawalReceipt = `-- name: CreateWithdrawalReceipt
INSERT INTO withdrawal_receipts (id, withdrawal_id, user_id, amount, destination_address, transaction_reference, processed_by, processed_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, withdrawal_id, user_id, amount, destination_address, transaction_reference, processed_by, processed_at, created_at
`

func (r *WithdrawalRepo) CreateReceipt(ctx context.Context, receipt models.WithdrawalReceipt) (models.WithdrawalReceipt, error) {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createWithdrawalReceipt,
		receipt.ID, receipt.WithdrawalID, receipt.UserID, receipt.Amount,
		receipt.DestinationAddress, receipt.TransactionReference,
		receipt.ProcessedBy, receipt.ProcessedAt, receipt.CreatedAt,
	)
	created, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.WithdrawalReceipt, error) {
		var wr models.WithdrawalReceipt
		err := row.Scan(
			&wr.ID, &wr.WithdrawalID, &wr.UserID, &wr.Amount,
			&wr.DestinationAddress, &wr.TransactionReference,
			&wr.ProcessedBy, &wr.ProcessedAt, &wr.CreatedAt,
		)
		return wr, err
	})
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func rowToWithdrawal(row pgx.CollectableRow) (models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := row.Scan(&w.ID, &w.UserID, &w.Amount, &w.USDTAddress, &w.Status, &w.AdminNote, &w.RequestedAt, &w.ProcessedAt)
	return w, err
}
