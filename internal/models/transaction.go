package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"
	TransactionEarning    = "earning"
	TransactionInvestment = "investment"
)

const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionRejected  = "rejected"
)

// Transaction is an append-only audit record
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        string
	Amount      decimal.Decimal
	Status      string
	TxHash      *string
	Description string
	AdminNote   *string
	CreatedAt   time.Time
}
