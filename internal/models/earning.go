package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Earning is one day's payout for one investment.
// The (InvestmentID, Date) pair is unique at the storage layer and is the
// idempotency key that prevents double accrual on repeated runs.
type Earning struct {
	ID           uuid.UUID
	InvestmentID uuid.UUID
	UserID       uuid.UUID
	Amount       decimal.Decimal
	Date         time.Time
	CreatedAt    time.Time
}
