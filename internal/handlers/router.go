package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/handlers/middleware"
	"github.com/joel172001/appniania/internal/logger"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
	"github.com/joel172001/appniania/internal/service/admin"
	"github.com/joel172001/appniania/internal/service/auth"
	"github.com/joel172001/appniania/internal/service/earnings"
	"github.com/joel172001/appniania/internal/service/payment"
	"github.com/joel172001/appniania/internal/service/task"
	"github.com/joel172001/appniania/internal/service/verification"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// RouterConfig carries everything the HTTP surface depends on
type RouterConfig struct {
	Auth         authService
	User         userService
	Invest       investService
	Payment      paymentService
	Task         taskService
	Phone        phoneService
	Verification verificationService
	Admin        adminService
	Earnings     earningsService

	// JobToken guards the accrual trigger endpoint when set
	JobToken string

	Logger logger.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	l := cfg.Logger

	authMiddleware := middleware.AuthMiddleware(cfg.Auth)
	adminMiddleware := middleware.AdminMiddleware(cfg.User)

	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}
	withAdmin := func(h http.Handler) http.Handler {
		return chain(h, authMiddleware, adminMiddleware)
	}

	api := http.NewServeMux()

	api.Handle("POST /auth/register", handleRegister(cfg.Auth, l))
	api.Handle("POST /auth/login", handleLogin(cfg.Auth, l))
	api.Handle("POST /auth/refresh", handleTokenRefresh(cfg.Auth, l))
	api.Handle("POST /auth/password", withAuth(handleChangePassword(cfg.Auth, l)))

	api.Handle("GET /profile", withAuth(handleGetProfile(cfg.User, l)))
	api.Handle("PATCH /profile", withAuth(handleUpdateProfile(cfg.User, l)))
	api.Handle("POST /profile/transfer-earnings", withAuth(handleTransferEarnings(cfg.User, l)))

	api.Handle("GET /plans", handleListPlans(cfg.Invest, l))
	api.Handle("POST /investments", withAuth(handleCreateInvestment(cfg.Invest, l)))
	api.Handle("GET /investments", withAuth(handleListInvestments(cfg.Invest, l)))

	api.Handle("POST /deposits", withAuth(handleCreateDeposit(cfg.Payment, l)))
	api.Handle("POST /withdrawals", withAuth(handleCreateWithdrawal(cfg.Payment, l)))
	api.Handle("GET /withdrawals", withAuth(handleListWithdrawals(cfg.Payment, l)))
	api.Handle("GET /transactions", withAuth(handleListTransactions(cfg.Payment, l)))
	api.Handle("GET /earnings", withAuth(handleListEarnings(cfg.Payment, l)))

	api.Handle("GET /tasks", withAuth(handleListTasks(cfg.Task, l)))
	api.Handle("POST /tasks/{id}/complete", withAuth(handleCompleteTask(cfg.Task, l)))

	api.Handle("GET /notifications", withAuth(handleListNotifications(cfg.User, l)))
	api.Handle("GET /notifications/unread-count", withAuth(handleUnreadCount(cfg.User, l)))
	api.Handle("POST /notifications/{id}/read", withAuth(handleMarkNotificationRead(cfg.User, l)))
	api.Handle("POST /notifications/read-all", withAuth(handleMarkAllNotificationsRead(cfg.User, l)))

	api.Handle("GET /referrals", withAuth(handleListReferrals(cfg.User, l)))

	api.Handle("POST /verification", withAuth(handleSubmitVerification(cfg.Verification, l)))
	api.Handle("GET /verification", withAuth(handleGetVerification(cfg.Verification, l)))

	api.Handle("POST /phone/send-code", withAuth(handleGeneratePhoneCode(cfg.Phone, l)))
	api.Handle("POST /phone/verify-code", withAuth(handleVerifyPhoneCode(cfg.Phone, l)))

	api.Handle("GET /admin/deposits", withAdmin(handleAdminPendingDeposits(cfg.Admin, l)))
	api.Handle("POST /admin/deposits/{id}/review", withAdmin(handleAdminReviewDeposit(cfg.Admin, l)))
	api.Handle("GET /admin/withdrawals", withAdmin(handleAdminPendingWithdrawals(cfg.Admin, l)))
	api.Handle("POST /admin/withdrawals/{id}/review", withAdmin(handleAdminReviewWithdrawal(cfg.Admin, l)))
	api.Handle("GET /admin/verifications", withAdmin(handleAdminPendingVerifications(cfg.Admin, cfg.Verification, l)))
	api.Handle("POST /admin/verifications/{id}/review", withAdmin(handleAdminReviewVerification(cfg.Admin, l)))
	api.Handle("POST /admin/notifications", withAdmin(handleAdminBroadcast(cfg.Admin, l)))

	api.Handle("POST /jobs/daily-earnings", handleRunEarnings(cfg.Earnings, cfg.JobToken, l))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(l),
		middleware.CORSMiddleware(),
	)

	return handler
}

type authService interface {
	Register(ctx context.Context, params auth.RegisterParams) (models.User, models.TokenPair, error)
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)
	RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current string, newPassword string) error

	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)
	GetRefreshString(r *http.Request) (string, error)
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

type userService interface {
	Profile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	UpdateContact(ctx context.Context, userID uuid.UUID, params repository.UpdateContactParams) (models.Profile, error)
	TransferEarnings(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error)

	ListNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkNotificationRead(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error

	ListReferrals(ctx context.Context, userID uuid.UUID) ([]models.Referral, error)
}

type investService interface {
	ListPlans(ctx context.Context) ([]models.Plan, error)
	Purchase(ctx context.Context, userID uuid.UUID, planID uuid.UUID, amount decimal.Decimal) (models.Investment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Investment, error)
}

type paymentService interface {
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txHash string) (models.Transaction, error)
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, address string) (payment.Voucher, error)
	ListWithdrawals(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	ListEarnings(ctx context.Context, userID uuid.UUID) ([]models.Earning, error)
}

type taskService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]task.TaskWithState, error)
	Complete(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) (models.TaskCompletion, error)
}

type phoneService interface {
	GenerateCode(ctx context.Context, phone string) (models.PhoneCode, error)
	VerifyCode(ctx context.Context, phone string, code string) error
}

type verificationService interface {
	Submit(ctx context.Context, userID uuid.UUID, params verification.SubmitParams) (models.IdentityVerification, error)
	Latest(ctx context.Context, userID uuid.UUID) (models.IdentityVerification, error)
	DocumentURL(ctx context.Context, key string) (string, error)
}

type adminService interface {
	ListPendingDeposits(ctx context.Context) ([]repository.PendingDeposit, error)
	ListPendingWithdrawals(ctx context.Context) ([]repository.PendingWithdrawal, error)
	ApproveDeposit(ctx context.Context, txID uuid.UUID, adminNote *string) (models.Transaction, error)
	RejectDeposit(ctx context.Context, txID uuid.UUID, adminNote *string) (models.Transaction, error)
	ApproveWithdrawal(ctx context.Context, adminID uuid.UUID, withdrawalID uuid.UUID, txReference string, adminNote *string) (models.WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, withdrawalID uuid.UUID, adminNote *string) (models.WithdrawalRequest, error)
	ListPendingVerifications(ctx context.Context) ([]models.IdentityVerification, error)
	ReviewVerification(ctx context.Context, id uuid.UUID, approve bool, adminNote *string) (models.IdentityVerification, error)
	Broadcast(ctx context.Context, params admin.BroadcastParams) (int, error)
}

type earningsService interface {
	Run(ctx context.Context) (earnings.Summary, error)
}
