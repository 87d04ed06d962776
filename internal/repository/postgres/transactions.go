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

type TransactionRepo struct {
	DB DBTX
}

const transactionColumns = `id, user_id, type, amount, status, tx_hash, description, admin_note, created_at`

const createTransaction = `-- name: CreateTransaction
INSERT INTO transactions (id, user_id, type, amount, status, tx_hash, description, admin_note, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + transactionColumns

func (r *TransactionRepo) CreateTransaction(ctx context.Context, tr models.Transaction) (models.Transaction, error) {
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createTransaction,
		tr.ID, tr.UserID, tr.Type, tr.Amount, tr.Status, tr.TxHash, tr.Description, tr.AdminNote, tr.CreatedAt,
	)
	created, err := pgx.CollectOneRow(rows, rowToTransaction)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const getTransaction = `-- name: GetTransaction
SELECT ` + transactionColumns + ` FROM transactions
WHERE id = $1
`

func (r *TransactionRepo) GetTransaction(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, getTransaction, id)
	tr, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return tr, nil
	case errors.Is(err, pgx.ErrNoRows):
		return tr, apperrors.ErrTransactionNotFound
	default:
		return tr, fmt.Errorf("db error: %w", err)
	}
}

const listTransactionsByUser = `-- name: ListTransactionsByUser
SELECT ` + transactionColumns + ` FROM transactions
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listTransactionsByUser, userID)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

const listPendingDeposits = `-- name: ListPendingDeposits
SELECT t.id, t.user_id, t.type, t.amount, t.status, t.tx_hash, t.description, t.admin_note, t.created_at, p.email
FROM transactions t
JOIN profiles p ON p.user_id = t.user_id
WHERE t.type = 'deposit' AND t.status = 'pending'
ORDER BY t.created_at DESC
`

func (r *TransactionRepo) ListPendingDeposits(ctx context.Context) ([]repository.PendingDeposit, error) {
	rows, _ := r.DB.Query(ctx, listPendingDeposits)
	deposits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.PendingDeposit, error) {
		var d repository.PendingDeposit
		err := row.Scan(
			&d.ID, &d.UserID, &d.Type, &d.Amount, &d.Status, &d.TxHash, &d.Description, &d.AdminNote, &d.CreatedAt,
			&d.Email,
		)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return deposits, nil
}

const setTransactionStatus = `-- name: SetTransactionStatus
UPDATE transactions
SET status = $2, admin_note = COALESCE($3, admin_note)
WHERE id = $1 AND status = 'pending'
RETURNING ` + transactionColumns

func (r *TransactionRepo) SetStatus(ctx context.Context, id uuid.UUID, status string, adminNote *string) (models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, setTransactionStatus, id, status, adminNote)
	tr, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return tr, nil
	case errors.Is(err, pgx.ErrNoRows):
		if _, getErr := r.GetTransaction(ctx, id); getErr != nil {
			return tr, getErr
		}
		return tr, apperrors.ErrTransactionNotPending
	default:
		return tr, fmt.Errorf("db error: %w", err)
	}
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.TxHash, &t.Description, &t.AdminNote, &t.CreatedAt)
	return t, err
}
