package earnings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/logger"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

// Summary is the result of one accrual run
type Summary struct {
	Processed     int
	Completed     int
	TotalEarnings decimal.Decimal
}

// Service pays the daily return of every active investment. One run per
// calendar day is the expected cadence; repeated runs are harmless because
// the (investment, date) pair is unique at the storage layer.
type Service struct {
	storage repository.Storage
	logger  logger.Logger

	// now is overridable in tests
	now func() time.Time
}

func NewService(storage repository.Storage, l logger.Logger) *Service {
	if l == nil {
		l = logger.NewNoOp()
	}

	return &Service{
		storage: storage,
		logger:  l,
		now:     time.Now,
	}
}

// Run accrues today's return for every active investment. A failure to list
// investments aborts the run; a failure on a single investment is logged and
// the run moves on to the next one.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	summary := Summary{TotalEarnings: decimal.Zero}

	investments, err := s.storage.Investment().ListActiveWithPlan(ctx)
	if err != nil {
		return summary, fmt.Errorf("list active investments: %w", err)
	}

	now := s.now()
	today := dateOnly(now)

	s.logger.Info("accrual run started", "investments", len(investments), "date", today.Format(time.DateOnly))

	for _, inv := range investments {
		paid, completed, err := s.accrueOne(ctx, inv, now, today)
		if err != nil {
			if errors.Is(err, apperrors.ErrEarningExists) {
				s.logger.Debug("already paid today", "investment_id", inv.ID)
				continue
			}
			s.logger.Error("accrual failed for investment", "investment_id", inv.ID, "error", err)
			continue
		}

		summary.Processed++
		summary.TotalEarnings = summary.TotalEarnings.Add(paid)
		if completed {
			summary.Completed++
		}
	}

	s.logger.Info("accrual run finished",
		"processed", summary.Processed,
		"completed", summary.Completed,
		"total", summary.TotalEarnings.StringFixed(2))

	return summary, nil
}

// accrueOne pays one investment for one day. Everything happens in a single
// storage transaction so a crash mid-way leaves no partial payout.
func (s *Service) accrueOne(ctx context.Context, inv models.Investment, now time.Time, today time.Time) (decimal.Decimal, bool, error) {
	if inv.Plan == nil {
		return decimal.Zero, false, errors.New("investment loaded without its plan")
	}

	exists, err := s.storage.Earning().ExistsForDate(ctx, inv.ID, today)
	if err != nil {
		return decimal.Zero, false, err
	}
	if exists {
		return decimal.Zero, false, apperrors.ErrEarningExists
	}

	// Non-compounding: always a percentage of the principal
	amount := inv.Amount.Mul(inv.Plan.DailyReturnPercentage).Div(decimal.NewFromInt(100)).Round(2)
	completed := false

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		if _, err := st.Earning().CreateEarning(ctx, models.Earning{
			InvestmentID: inv.ID,
			UserID:       inv.UserID,
			Amount:       amount,
			Date:         today,
		}); err != nil {
			return err
		}

		if err := st.Investment().ApplyPayout(ctx, inv.ID, amount, now); err != nil {
			return err
		}

		if _, err := st.Profile().ApplyEarning(ctx, inv.UserID, amount); err != nil {
			return err
		}

		if _, err := st.Transaction().CreateTransaction(ctx, models.Transaction{
			UserID:      inv.UserID,
			Type:        models.TransactionEarning,
			Amount:      amount,
			Status:      models.TransactionCompleted,
			Description: fmt.Sprintf("Daily return from %s", inv.Plan.Name),
		}); err != nil {
			return err
		}

		if !now.Before(inv.EndDate) {
			completed = true
			return st.Investment().Complete(ctx, inv.ID)
		}

		return nil
	})
	if err != nil {
		return decimal.Zero, false, err
	}

	return amount, completed, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
