package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentNationalID = "national_id"
	DocumentPassport   = "passport"
)

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// IdentityVerification keeps object-store keys of the uploaded documents,
// not the binaries themselves.
type IdentityVerification struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	DocumentType     string
	DocumentFrontKey string
	DocumentBackKey  *string
	SelfieKey        string
	PassportNumber   *string
	Status           string
	SubmittedAt      time.Time
	ReviewedAt       *time.Time
	AdminNote        *string
}
