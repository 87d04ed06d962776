package invest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

type InvestService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *InvestService {
	return &InvestService{storage: storage}
}

func (s *InvestService) ListPlans(ctx context.Context) ([]models.Plan, error) {
	return s.storage.Plan().ListActivePlans(ctx)
}

func (s *InvestService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Investment, error) {
	return s.storage.Investment().ListByUser(ctx, userID)
}

// Purchase opens an investment in the given plan. The amount is moved from
// the profile balance to total_invested and the purchase is recorded as a
// completed transaction, all in one storage transaction.
func (s *InvestService) Purchase(ctx context.Context, userID uuid.UUID, planID uuid.UUID, amount decimal.Decimal) (models.Investment, error) {
	var investment models.Investment

	plan, err := s.storage.Plan().GetPlan(ctx, planID)
	if err != nil {
		return investment, err
	}

	switch {
	case !plan.IsActive:
		return investment, apperrors.ErrPlanInactive
	case amount.LessThan(plan.MinAmount):
		return investment, apperrors.ErrAmountBelowMinimum
	case plan.MaxAmount != nil && amount.GreaterThan(*plan.MaxAmount):
		return investment, apperrors.ErrAmountAboveMaximum
	}

	now := time.Now()

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		if _, err := st.Profile().ApplyInvestment(ctx, userID, amount); err != nil {
			return err
		}

		var err error
		investment, err = st.Investment().CreateInvestment(ctx, models.Investment{
			UserID:    userID,
			PlanID:    plan.ID,
			Amount:    amount,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, plan.DurationDays),
			Status:    models.InvestmentActive,
		})
		if err != nil {
			return err
		}

		_, err = st.Transaction().CreateTransaction(ctx, models.Transaction{
			UserID:      userID,
			Type:        models.TransactionInvestment,
			Amount:      amount,
			Status:      models.TransactionCompleted,
			Description: fmt.Sprintf("Investment in %s", plan.Name),
		})
		return err
	})
	if err != nil {
		return models.Investment{}, err
	}

	return investment, nil
}
