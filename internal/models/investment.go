package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InvestmentActive    = "active"
	InvestmentCompleted = "completed"
	InvestmentCancelled = "cancelled"
)

// Investment accrues one daily return per calendar day while active.
// TotalEarned never decreases while the status is active.
type Investment struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	PlanID         uuid.UUID
	Amount         decimal.Decimal
	StartDate      time.Time
	EndDate        time.Time
	Status         string
	TotalEarned    decimal.Decimal
	LastPayoutDate *time.Time
	CreatedAt      time.Time

	// Plan is populated when investments are listed joined to their plan
	Plan *Plan
}
