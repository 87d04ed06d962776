package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile holds the financial state of a user.
// Balance and TotalEarnings are mutated only with atomic SQL increments,
// never with read-then-write pairs.
type Profile struct {
	UserID        uuid.UUID
	Email         string
	FullName      string
	Phone         string
	PhoneVerified bool
	USDTAddress   *string
	ReferralCode  string
	ReferredBy    *uuid.UUID
	IsAdmin       bool
	Balance       decimal.Decimal
	TotalInvested decimal.Decimal
	TotalEarnings decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
