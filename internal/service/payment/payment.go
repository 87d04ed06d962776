package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

var (
	minDepositAmount    = decimal.NewFromInt(10)
	minWithdrawalAmount = decimal.NewFromInt(10)

	// Platform fee withheld from every withdrawal
	withdrawalCommissionRate = decimal.NewFromFloat(0.10)
)

const minAddressLen = 10

// Voucher summarizes a placed withdrawal for the requester
type Voucher struct {
	Request    models.WithdrawalRequest
	Commission decimal.Decimal
	NetAmount  decimal.Decimal
}

type PaymentService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *PaymentService {
	return &PaymentService{storage: storage}
}

// Deposit records a pending deposit. The on-chain transfer hash is optional
// because the user may not have it at hand yet. The balance is credited
// later, when an admin confirms the transfer.
func (s *PaymentService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, txHash string) (models.Transaction, error) {
	if amount.LessThan(minDepositAmount) {
		return models.Transaction{}, apperrors.ErrAmountTooSmall
	}

	var hash *string
	if txHash != "" {
		hash = &txHash
	}

	return s.storage.Transaction().CreateTransaction(ctx, models.Transaction{
		UserID:      userID,
		Type:        models.TransactionDeposit,
		Amount:      amount,
		Status:      models.TransactionPending,
		TxHash:      hash,
		Description: fmt.Sprintf("USDT deposit of $%s", amount.StringFixed(2)),
	})
}

// RequestWithdrawal debits the balance up front and leaves the request
// pending for an admin. The debit is refunded if the request is rejected.
func (s *PaymentService) RequestWithdrawal(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, address string) (Voucher, error) {
	var voucher Voucher

	switch {
	case amount.LessThan(minWithdrawalAmount):
		return voucher, apperrors.ErrAmountTooSmall
	case len(address) < minAddressLen:
		return voucher, apperrors.ErrInvalidAddress
	}

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		if _, err := st.Profile().Debit(ctx, userID, amount); err != nil {
			return err
		}

		var err error
		voucher.Request, err = st.Withdrawal().CreateRequest(ctx, models.WithdrawalRequest{
			UserID:      userID,
			Amount:      amount,
			USDTAddress: address,
			Status:      models.WithdrawalPending,
		})
		if err != nil {
			return err
		}

		_, err = st.Transaction().CreateTransaction(ctx, models.Transaction{
			UserID:      userID,
			Type:        models.TransactionWithdrawal,
			Amount:      amount,
			Status:      models.TransactionPending,
			Description: fmt.Sprintf("Withdrawal to %s", address),
		})
		if err != nil {
			return err
		}

		// Remember the address for the next withdrawal
		_, err = st.Profile().UpdateContact(ctx, userID, repository.UpdateContactParams{USDTAddress: &address})
		return err
	})
	if err != nil {
		return Voucher{}, err
	}

	voucher.Commission = amount.Mul(withdrawalCommissionRate).Round(2)
	voucher.NetAmount = amount.Sub(voucher.Commission)

	return voucher, nil
}

func (s *PaymentService) ListWithdrawals(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	return s.storage.Withdrawal().ListByUser(ctx, userID)
}

func (s *PaymentService) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return s.storage.Transaction().ListByUser(ctx, userID)
}

func (s *PaymentService) ListEarnings(ctx context.Context, userID uuid.UUID) ([]models.Earning, error) {
	return s.storage.Earning().ListByUser(ctx, userID)
}
