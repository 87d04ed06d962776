package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

// Smallest amount that may be moved from earnings to the main balance
var minTransferAmount = decimal.NewFromInt(10)

type UserService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *UserService {
	return &UserService{storage: storage}
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	return s.storage.Profile().GetProfile(ctx, userID)
}

func (s *UserService) UpdateContact(ctx context.Context, userID uuid.UUID, params repository.UpdateContactParams) (models.Profile, error) {
	return s.storage.Profile().UpdateContact(ctx, userID, params)
}

// TransferEarnings moves amount from accumulated earnings to the spendable
// balance and records the move as a completed transaction
func (s *UserService) TransferEarnings(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Profile, error) {
	var profile models.Profile

	if amount.LessThan(minTransferAmount) {
		return profile, apperrors.ErrAmountTooSmall
	}

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		profile, err = st.Profile().TransferEarnings(ctx, userID, amount)
		if err != nil {
			return err
		}

		_, err = st.Transaction().CreateTransaction(ctx, models.Transaction{
			UserID:      userID,
			Type:        models.TransactionEarning,
			Amount:      amount,
			Status:      models.TransactionCompleted,
			Description: fmt.Sprintf("Transferred $%s from earnings to main balance", amount.StringFixed(2)),
		})
		return err
	})
	if err != nil {
		return models.Profile{}, err
	}

	return profile, nil
}

func (s *UserService) ListNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.storage.Notification().ListByUser(ctx, userID)
}

func (s *UserService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.storage.Notification().CountUnread(ctx, userID)
}

func (s *UserService) MarkNotificationRead(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	return s.storage.Notification().MarkRead(ctx, userID, id)
}

func (s *UserService) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error {
	return s.storage.Notification().MarkAllRead(ctx, userID)
}

func (s *UserService) ListReferrals(ctx context.Context, userID uuid.UUID) ([]models.Referral, error) {
	return s.storage.Referral().ListByReferrer(ctx, userID)
}
