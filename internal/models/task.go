package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DailyTask struct {
	ID           uuid.UUID
	Title        string
	Description  string
	RewardAmount decimal.Decimal
	TaskType     string
	TaskURL      *string
	IsActive     bool
	CreatedAt    time.Time
}

// TaskCompletion records one claim of a daily task.
// (UserID, TaskID, CompletionDate) is unique at the storage layer so a task
// may be claimed at most once per calendar day.
type TaskCompletion struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	TaskID         uuid.UUID
	CompletedAt    time.Time
	CompletionDate time.Time
	RewardCredited bool
}
