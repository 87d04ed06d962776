package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

// AdminService backs the operator console: confirming deposits, paying out
// withdrawals, reviewing identity documents and broadcasting notifications.
type AdminService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *AdminService {
	return &AdminService{storage: storage}
}

func (s *AdminService) ListPendingDeposits(ctx context.Context) ([]repository.PendingDeposit, error) {
	return s.storage.Transaction().ListPendingDeposits(ctx)
}

func (s *AdminService) ListPendingWithdrawals(ctx context.Context) ([]repository.PendingWithdrawal, error) {
	return s.storage.Withdrawal().ListPending(ctx)
}

// ApproveDeposit confirms the on-chain transfer arrived: the transaction
// completes, the balance is credited and the user is told
func (s *AdminService) ApproveDeposit(ctx context.Context, txID uuid.UUID, adminNote *string) (models.Transaction, error) {
	var tr models.Transaction

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		tr, err = st.Transaction().SetStatus(ctx, txID, models.TransactionCompleted, adminNote)
		if err != nil {
			return err
		}

		if _, err := st.Profile().Credit(ctx, tr.UserID, tr.Amount); err != nil {
			return err
		}

		_, err = st.Notification().CreateNotification(ctx, models.Notification{
			UserID:      tr.UserID,
			Type:        models.NotificationSuccess,
			Title:       "Deposit approved",
			Message:     fmt.Sprintf("Your deposit of $%s has been credited to your balance.", tr.Amount.StringFixed(2)),
			ReferenceID: &tr.ID,
		})
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return tr, nil
}

func (s *AdminService) RejectDeposit(ctx context.Context, txID uuid.UUID, adminNote *string) (models.Transaction, error) {
	var tr models.Transaction

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		tr, err = st.Transaction().SetStatus(ctx, txID, models.TransactionRejected, adminNote)
		if err != nil {
			return err
		}

		message := fmt.Sprintf("Your deposit of $%s was rejected.", tr.Amount.StringFixed(2))
		if adminNote != nil && *adminNote != "" {
			message = fmt.Sprintf("%s Reason: %s", message, *adminNote)
		}

		_, err = st.Notification().CreateNotification(ctx, models.Notification{
			UserID:      tr.UserID,
			Type:        models.NotificationError,
			Title:       "Deposit rejected",
			Message:     message,
			ReferenceID: &tr.ID,
		})
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return tr, nil
}

// ApproveWithdrawal marks the request paid and writes the payout receipt.
// The balance was already debited when the request was placed.
func (s *AdminService) ApproveWithdrawal(ctx context.Context, adminID uuid.UUID, withdrawalID uuid.UUID, txReference string, adminNote *string) (models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	now := time.Now()

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		req, err = st.Withdrawal().SetStatus(ctx, withdrawalID, models.WithdrawalCompleted, adminNote, now)
		if err != nil {
			return err
		}

		if _, err := st.Withdrawal().CreateReceipt(ctx, models.WithdrawalReceipt{
			WithdrawalID:         req.ID,
			UserID:               req.UserID,
			Amount:               req.Amount,
			DestinationAddress:   req.USDTAddress,
			TransactionReference: txReference,
			ProcessedBy:          adminID,
			ProcessedAt:          now,
		}); err != nil {
			return err
		}

		_, err = st.Notification().CreateNotification(ctx, models.Notification{
			UserID:      req.UserID,
			Type:        models.NotificationSuccess,
			Title:       "Withdrawal processed",
			Message:     fmt.Sprintf("Your withdrawal of $%s has been sent to %s.", req.Amount.StringFixed(2), req.USDTAddress),
			ReferenceID: &req.ID,
		})
		return err
	})
	if err != nil {
		return models.WithdrawalRequest{}, err
	}

	return req, nil
}

// RejectWithdrawal refunds the amount debited when the request was placed
func (s *AdminService) RejectWithdrawal(ctx context.Context, withdrawalID uuid.UUID, adminNote *string) (models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	now := time.Now()

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		req, err = st.Withdrawal().SetStatus(ctx, withdrawalID, models.WithdrawalRejected, adminNote, now)
		if err != nil {
			return err
		}

		if _, err := st.Profile().Credit(ctx, req.UserID, req.Amount); err != nil {
			return err
		}

		message := fmt.Sprintf("Your withdrawal of $%s was rejected and refunded to your balance.", req.Amount.StringFixed(2))
		if adminNote != nil && *adminNote != "" {
			message = fmt.Sprintf("%s Reason: %s", message, *adminNote)
		}

		_, err = st.Notification().CreateNotification(ctx, models.Notification{
			UserID:      req.UserID,
			Type:        models.NotificationError,
			Title:       "Withdrawal rejected",
			Message:     message,
			ReferenceID: &req.ID,
		})
		return err
	})
	if err != nil {
		return models.WithdrawalRequest{}, err
	}

	return req, nil
}

func (s *AdminService) ListPendingVerifications(ctx context.Context) ([]models.IdentityVerification, error) {
	return s.storage.Verification().ListPending(ctx)
}

// ReviewVerification approves or rejects a pending identity submission
func (s *AdminService) ReviewVerification(ctx context.Context, id uuid.UUID, approve bool, adminNote *string) (models.IdentityVerification, error) {
	status := models.VerificationApproved
	title := "Identity verified"
	message := "Your identity documents have been approved."
	notifType := models.NotificationSuccess

	if !approve {
		status = models.VerificationRejected
		title = "Verification rejected"
		message = "Your identity documents were rejected. Please submit them again."
		notifType = models.NotificationError
	}

	var v models.IdentityVerification

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		v, err = st.Verification().Review(ctx, id, status, adminNote, time.Now())
		if err != nil {
			return err
		}

		_, err = st.Notification().CreateNotification(ctx, models.Notification{
			UserID:      v.UserID,
			Type:        notifType,
			Title:       title,
			Message:     message,
			ReferenceID: &v.ID,
		})
		return err
	})
	if err != nil {
		return models.IdentityVerification{}, err
	}

	return v, nil
}

// BroadcastParams describes an announcement. Leave Email empty to reach
// every user.
type BroadcastParams struct {
	Title   string
	Message string
	Type    string
	Email   string
}

// Broadcast delivers an announcement to one user or to everyone
func (s *AdminService) Broadcast(ctx context.Context, params BroadcastParams) (int, error) {
	if params.Type == "" {
		params.Type = models.NotificationInfo
	}

	if params.Email != "" {
		profile, err := s.storage.Profile().GetProfileByEmail(ctx, params.Email)
		if err != nil {
			return 0, err
		}

		_, err = s.storage.Notification().CreateNotification(ctx, models.Notification{
			UserID:  profile.UserID,
			Type:    params.Type,
			Title:   params.Title,
			Message: params.Message,
		})
		if err != nil {
			return 0, err
		}
		return 1, nil
	}

	ids, err := s.storage.Profile().ListProfileIDs(ctx)
	if err != nil {
		return 0, err
	}

	notifications := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		notifications = append(notifications, models.Notification{
			UserID:  id,
			Type:    params.Type,
			Title:   params.Title,
			Message: params.Message,
		})
	}

	if err := s.storage.Notification().CreateBatch(ctx, notifications); err != nil {
		return 0, err
	}

	return len(notifications), nil
}
