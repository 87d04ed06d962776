package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Plan struct {
	ID                    uuid.UUID
	Name                  string
	MinAmount             decimal.Decimal
	MaxAmount             *decimal.Decimal
	DailyReturnPercentage decimal.Decimal
	DurationDays          int
	Description           string
	IsActive              bool
	CreatedAt             time.Time
}
