package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationError   = "error"
)

type Notification struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        string
	Title       string
	Message     string
	ReferenceID *uuid.UUID
	IsRead      bool
	CreatedAt   time.Time
}
