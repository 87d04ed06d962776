package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/models"
)

// Storage aggregates all repositories over a single connection source.
// InTx runs fn against a Storage bound to one transaction: every repo call
// inside fn commits or rolls back as a unit.
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Profile() ProfileRepo
	Plan() PlanRepo
	Investment() InvestmentRepo
	Earning() EarningRepo
	Transaction() TransactionRepo
	Withdrawal() WithdrawalRepo
	Task() TaskRepo
	Notification() NotificationRepo
	Referral() ReferralRepo
	Verification() VerificationRepo
	PhoneCode() PhoneCodeRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}

type UserRepo interface {
	// Create user
	// If user with email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, email string, hashedPassword string) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Replace the stored password hash
	// If user not found must return apperrors.ErrUserNotFound
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error
}

type RefreshTokenRepo interface {
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the token only while it is not expired and not used
	// Expired: apperrors.ErrRefreshTokenExpired, used: apperrors.ErrRefreshTokenIsUsed,
	// unknown: apperrors.ErrRefreshTokenNotFound
	GetValidToken(ctx context.Context, tokenString string, now time.Time) (models.RefreshToken, error)

	// Mark token as used. Must not overwrite an existing used_at.
	MarkUsed(ctx context.Context, tokenString string, usedAt time.Time) error
}

// ProfileRepo owns the balance fields. All mutations are single atomic
// UPDATE statements (balance = balance + $n), the repo never exposes a bare
// read-then-write pair.
type ProfileRepo interface {
	CreateProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	GetProfileByReferralCode(ctx context.Context, code string) (models.Profile, error)
	ListProfileIDs(ctx context.Context) ([]uuid.UUID, error)

	UpdateContact(ctx context.Context, userID uuid.UUID, params UpdateContactParams) (models.Profile, error)
	MarkPhoneVerified(ctx context.Context, phone string) error

	// Credit adds amount to balance
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error)

	// Debit subtracts amount from balance
	// Returns apperrors.ErrBalanceInsufficient when balance < amount
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error)

	// ApplyEarning adds amount to both balance and total_earnings
	ApplyEarning(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error)

	// ApplyInvestment moves amount from balance to total_invested
	// Returns apperrors.ErrBalanceInsufficient when balance < amount
	ApplyInvestment(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error)

	// TransferEarnings moves amount from total_earnings to balance
	// Returns apperrors.ErrEarningsInsufficient when total_earnings < amount
	TransferEarnings(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error)
}

type UpdateContactParams struct {
	FullName    *string
	USDTAddress *string
}

type PlanRepo interface {
	ListActivePlans(ctx context.Context) ([]models.Plan, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (models.Plan, error)
}

type InvestmentRepo interface {
	CreateInvestment(ctx context.Context, investment models.Investment) (models.Investment, error)
	GetInvestment(ctx context.Context, id uuid.UUID) (models.Investment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Investment, error)

	// ListActiveWithPlan returns every active investment joined to its plan
	ListActiveWithPlan(ctx context.Context) ([]models.Investment, error)

	// ApplyPayout adds amount to total_earned and stamps last_payout_date
	ApplyPayout(ctx context.Context, id uuid.UUID, amount decimal.Decimal, paidAt time.Time) error

	// Complete transitions an active investment to completed
	Complete(ctx context.Context, id uuid.UUID) error
}

type EarningRepo interface {
	// ExistsForDate reports whether a payout was already recorded
	// for (investmentID, date)
	ExistsForDate(ctx context.Context, investmentID uuid.UUID, date time.Time) (bool, error)

	// CreateEarning inserts one day's payout record
	// Returns apperrors.ErrEarningExists on (investment_id, date) uniqueness violation
	CreateEarning(ctx context.Context, earning models.Earning) (models.Earning, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Earning, error)
}

// PendingDeposit is a pending deposit transaction joined to the owner's email
// for the admin console
type PendingDeposit struct {
	models.Transaction
	Email string
}

type TransactionRepo interface {
	CreateTransaction(ctx context.Context, tr models.Transaction) (models.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	ListPendingDeposits(ctx context.Context) ([]PendingDeposit, error)

	// SetStatus updates a pending transaction only
	// Returns apperrors.ErrTransactionNotPending otherwise
	SetStatus(ctx context.Context, id uuid.UUID, status string, adminNote *string) (models.Transaction, error)
}

// PendingWithdrawal is a pending withdrawal request joined to the owner's email
type PendingWithdrawal struct {
	models.WithdrawalRequest
	Email string
}

type WithdrawalRepo interface {
	CreateRequest(ctx context.Context, req models.WithdrawalRequest) (models.WithdrawalRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (models.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error)
	ListPending(ctx context.Context) ([]PendingWithdrawal, error)

	// SetStatus updates a pending request only
	// Returns apperrors.ErrWithdrawalNotPending otherwise
	SetStatus(ctx context.Context, id uuid.UUID, status string, adminNote *string, processedAt time.Time) (models.WithdrawalRequest, error)

	CreateReceipt(ctx context.Context, receipt models.WithdrawalReceipt) (models.WithdrawalReceipt, error)
}

type TaskRepo interface {
	ListActiveTasks(ctx context.Context) ([]models.DailyTask, error)
	GetTask(ctx context.Context, id uuid.UUID) (models.DailyTask, error)

	// ListCompletions returns the user's completions for one calendar day
	ListCompletions(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.TaskCompletion, error)

	// CreateCompletion inserts a claim
	// Returns apperrors.ErrTaskAlreadyCompleted on daily uniqueness violation
	CreateCompletion(ctx context.Context, completion models.TaskCompletion) (models.TaskCompletion, error)
}

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	CreateBatch(ctx context.Context, ns []models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type ReferralRepo interface {
	CreateReferral(ctx context.Context, referrerID uuid.UUID, referredID uuid.UUID) (models.Referral, error)

	// ListByReferrer returns referrals joined to the referred profile name and email
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.Referral, error)
}

type VerificationRepo interface {
	CreateVerification(ctx context.Context, v models.IdentityVerification) (models.IdentityVerification, error)

	// GetLatest returns the most recently submitted verification of the user
	// or apperrors.ErrVerificationNotFound
	GetLatest(ctx context.Context, userID uuid.UUID) (models.IdentityVerification, error)

	ListPending(ctx context.Context) ([]models.IdentityVerification, error)

	// Review decides a pending verification only
	// Returns apperrors.ErrVerificationNotPending otherwise
	Review(ctx context.Context, id uuid.UUID, status string, adminNote *string, reviewedAt time.Time) (models.IdentityVerification, error)
}

type PhoneCodeRepo interface {
	CreateCode(ctx context.Context, code models.PhoneCode) (models.PhoneCode, error)

	// GetActiveCode returns the newest unused, unexpired code for the phone
	GetActiveCode(ctx context.Context, phone string, now time.Time) (models.PhoneCode, error)

	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}
