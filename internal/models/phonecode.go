package models

import (
	"time"

	"github.com/google/uuid"
)

// PhoneCode is a single-use verification code. There is no real SMS
// delivery: the code is returned to the caller that requested it.
type PhoneCode struct {
	ID        uuid.UUID
	Phone     string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}
