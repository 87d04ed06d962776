package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrPasswordMismatch  = errors.New("current password is incorrect")
	ErrProfileNotFound   = errors.New("profile not found")

	ErrAccessTokenInvalid   = errors.New("access token is invalid")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrPlanNotFound       = errors.New("investment plan not found")
	ErrPlanInactive       = errors.New("investment plan is not active")
	ErrAmountBelowMinimum = errors.New("amount is below plan minimum")
	ErrAmountAboveMaximum = errors.New("amount is above plan maximum")

	ErrAmountTooSmall       = errors.New("amount is below the minimum")
	ErrBalanceInsufficient  = errors.New("insufficient balance")
	ErrEarningsInsufficient = errors.New("insufficient earnings balance")
	ErrInvalidAddress       = errors.New("invalid USDT address")

	ErrInvestmentNotFound = errors.New("investment not found")
	ErrEarningExists      = errors.New("earning already recorded for this day")

	ErrWithdrawalNotFound     = errors.New("withdrawal request not found")
	ErrWithdrawalNotPending   = errors.New("withdrawal request is not pending")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTransactionNotPending  = errors.New("transaction is not pending")
	ErrNotificationNotFound   = errors.New("notification not found")
	ErrTaskNotFound           = errors.New("daily task not found")
	ErrTaskAlreadyCompleted   = errors.New("task already completed today")
	ErrVerificationNotFound   = errors.New("identity verification not found")
	ErrVerificationNotPending = errors.New("identity verification is not pending")
	ErrDocumentTypeInvalid    = errors.New("unsupported document type")
	ErrDocumentMissing        = errors.New("required document is missing")
	ErrDocumentTooLarge       = errors.New("document exceeds the size limit")
	ErrPassportNumberRequired = errors.New("passport number is required")

	ErrPhoneCodeNotFound = errors.New("verification code not found")
	ErrPhoneCodeExpired  = errors.New("verification code expired")
	ErrPhoneCodeInvalid  = errors.New("verification code invalid")
)
