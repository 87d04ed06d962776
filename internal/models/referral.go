package models

import (
	"time"

	"github.com/google/uuid"
)

type Referral struct {
	ID         uuid.UUID
	ReferrerID uuid.UUID
	ReferredID uuid.UUID
	Status     string
	CreatedAt  time.Time

	// Referred profile fields, populated on listing
	ReferredName  string
	ReferredEmail string
}
