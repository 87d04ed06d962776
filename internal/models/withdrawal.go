package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	WithdrawalPending   = "pending"
	WithdrawalCompleted = "completed"
	WithdrawalRejected  = "rejected"
)

type WithdrawalRequest struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	USDTAddress string
	Status      string
	AdminNote   *string
	RequestedAt time.Time
	ProcessedAt *time.Time
}

// WithdrawalReceipt is written once when an admin completes a withdrawal
type WithdrawalReceipt struct {
	ID                   uuid.UUID
	WithdrawalID         uuid.UUID
	UserID               uuid.UUID
	Amount               decimal.Decimal
	DestinationAddress   string
	TransactionReference string
	ProcessedBy          uuid.UUID
	ProcessedAt          time.Time
	CreatedAt            time.Time
}
