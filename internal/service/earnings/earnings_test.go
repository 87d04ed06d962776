package earnings

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/joel172001/appniania/internal/logger"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
	"github.com/joel172001/appniania/internal/repository/postgres"
	"github.com/joel172001/appniania/internal/testutil"
)

func TestEarnings(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Helper function to create the accrual service within transaction
	inTx := func(t *testing.T, fn func(s *Service, storage repository.Storage)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			service := NewService(storage, logger.NewNoOp())
			fn(service, storage)
		})
	}

	seedUser := func(t *testing.T, storage repository.Storage, tag string) models.Profile {
		t.Helper()

		user, err := storage.User().CreateUser(t.Context(), tag+"@example.com", "hash")
		require.NoError(t, err)

		profile, err := storage.Profile().CreateProfile(t.Context(), models.Profile{
			UserID:        user.ID,
			Email:         user.Email,
			FullName:      "Test User",
			Phone:         "+100000" + tag,
			ReferralCode:  fmt.Sprintf("%.8s", uuid.NewString()),
			Balance:       decimal.Zero,
			TotalInvested: decimal.Zero,
			TotalEarnings: decimal.Zero,
		})
		require.NoError(t, err)

		return profile
	}

	seedInvestment := func(t *testing.T, storage repository.Storage, userID uuid.UUID, amount string, daysLeft int) models.Investment {
		t.Helper()

		plans, err := storage.Plan().ListActivePlans(t.Context())
		require.NoError(t, err)
		require.NotEmpty(t, plans, "seeded plans should exist")

		// Growth plan pays 2% per day
		var plan models.Plan
		for _, p := range plans {
			if p.Name == "Growth" {
				plan = p
			}
		}
		require.NotEqual(t, uuid.Nil, plan.ID, "Growth plan should be seeded")

		now := time.Now()
		inv, err := storage.Investment().CreateInvestment(t.Context(), models.Investment{
			UserID:    userID,
			PlanID:    plan.ID,
			Amount:    decimal.RequireFromString(amount),
			StartDate: now.AddDate(0, 0, daysLeft-plan.DurationDays),
			EndDate:   now.AddDate(0, 0, daysLeft),
			Status:    models.InvestmentActive,
		})
		require.NoError(t, err)

		return inv
	}

	t.Run("pays daily return", func(t *testing.T) {
		inTx(t, func(s *Service, storage repository.Storage) {
			profile := seedUser(t, storage, "payout")
			inv := seedInvestment(t, storage, profile.UserID, "100", 30)

			summary, err := s.Run(t.Context())

			require.NoError(t, err)
			require.Equal(t, 1, summary.Processed)
			require.Equal(t, "2.00", summary.TotalEarnings.StringFixed(2), "100 at 2 percent should pay 2.00")

			got, err := storage.Investment().GetInvestment(t.Context(), inv.ID)
			require.NoError(t, err)
			require.Equal(t, "2.00", got.TotalEarned.StringFixed(2))
			require.NotNil(t, got.LastPayoutDate)
			require.Equal(t, models.InvestmentActive, got.Status)

			updated, err := storage.Profile().GetProfile(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.Equal(t, "2.00", updated.Balance.StringFixed(2))
			require.Equal(t, "2.00", updated.TotalEarnings.StringFixed(2))

			transactions, err := storage.Transaction().ListByUser(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.Len(t, transactions, 1)
			require.Equal(t, models.TransactionEarning, transactions[0].Type)
			require.Equal(t, models.TransactionCompleted, transactions[0].Status)
			require.Contains(t, transactions[0].Description, "Growth")
		})
	})

	t.Run("second run same day pays nothing", func(t *testing.T) {
		inTx(t, func(s *Service, storage repository.Storage) {
			profile := seedUser(t, storage, "idempotent")
			seedInvestment(t, storage, profile.UserID, "100", 30)

			first, err := s.Run(t.Context())
			require.NoError(t, err)
			require.Equal(t, 1, first.Processed)

			second, err := s.Run(t.Context())
			require.NoError(t, err)
			require.Equal(t, 0, second.Processed, "repeated run should skip the already paid day")
			require.True(t, second.TotalEarnings.IsZero())

			updated, err := storage.Profile().GetProfile(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.Equal(t, "2.00", updated.Balance.StringFixed(2), "balance should be credited exactly once")
		})
	})

	t.Run("return does not compound", func(t *testing.T) {
		inTx(t, func(s *Service, storage repository.Storage) {
			profile := seedUser(t, storage, "simple")
			inv := seedInvestment(t, storage, profile.UserID, "100", 30)

			_, err := s.Run(t.Context())
			require.NoError(t, err)

			// Next day
			s.now = func() time.Time { return time.Now().AddDate(0, 0, 1) }

			summary, err := s.Run(t.Context())
			require.NoError(t, err)
			require.Equal(t, 1, summary.Processed)
			require.Equal(t, "2.00", summary.TotalEarnings.StringFixed(2), "second day should pay the same amount")

			got, err := storage.Investment().GetInvestment(t.Context(), inv.ID)
			require.NoError(t, err)
			require.Equal(t, "4.00", got.TotalEarned.StringFixed(2))
		})
	})

	t.Run("completes investment past end date", func(t *testing.T) {
		inTx(t, func(s *Service, storage repository.Storage) {
			profile := seedUser(t, storage, "complete")
			inv := seedInvestment(t, storage, profile.UserID, "100", 0)

			summary, err := s.Run(t.Context())

			require.NoError(t, err)
			require.Equal(t, 1, summary.Processed)
			require.Equal(t, 1, summary.Completed)

			got, err := storage.Investment().GetInvestment(t.Context(), inv.ID)
			require.NoError(t, err)
			require.Equal(t, models.InvestmentCompleted, got.Status)
			require.Equal(t, "2.00", got.TotalEarned.StringFixed(2), "final day is still paid")
		})
	})

	t.Run("completed investments are not paid", func(t *testing.T) {
		inTx(t, func(s *Service, storage repository.Storage) {
			profile := seedUser(t, storage, "done")
			inv := seedInvestment(t, storage, profile.UserID, "100", 0)

			_, err := s.Run(t.Context())
			require.NoError(t, err)

			// Next day the investment is completed and must be skipped
			s.now = func() time.Time { return time.Now().AddDate(0, 0, 1) }

			summary, err := s.Run(t.Context())
			require.NoError(t, err)
			require.Equal(t, 0, summary.Processed)

			got, err := storage.Investment().GetInvestment(t.Context(), inv.ID)
			require.NoError(t, err)
			require.Equal(t, "2.00", got.TotalEarned.StringFixed(2))
		})
	})

	t.Run("one failing investment does not stop the run", func(t *testing.T) {
		inTx(t, func(s *Service, storage repository.Storage) {
			broken := seedUser(t, storage, "broken")
			healthy := seedUser(t, storage, "healthy")

			brokenInv := seedInvestment(t, storage, broken.UserID, "100", 30)
			seedInvestment(t, storage, healthy.UserID, "50", 30)

			// Pre-recorded earning makes the first investment fail with a skip
			_, err := storage.Earning().CreateEarning(t.Context(), models.Earning{
				InvestmentID: brokenInv.ID,
				UserID:       broken.UserID,
				Amount:       decimal.RequireFromString("2"),
				Date:         time.Now().UTC().Truncate(24 * time.Hour),
			})
			require.NoError(t, err)

			summary, err := s.Run(t.Context())

			require.NoError(t, err)
			require.Equal(t, 1, summary.Processed, "healthy investment should still be paid")
			require.Equal(t, "1.00", summary.TotalEarnings.StringFixed(2), "50 at 2 percent")
		})
	})

	t.Run("failed payout is rolled back and the run continues", func(t *testing.T) {
		inTx(t, func(_ *Service, storage repository.Storage) {
			broken := seedUser(t, storage, "rollback")
			healthy := seedUser(t, storage, "survivor")

			brokenInv := seedInvestment(t, storage, broken.UserID, "100", 30)
			healthyInv := seedInvestment(t, storage, healthy.UserID, "50", 30)

			// Service over a storage whose transaction insert fails for one user,
			// so the payout breaks after the earning and balance writes
			s := NewService(&txFailStorage{Storage: storage, failUserID: broken.UserID}, logger.NewNoOp())

			summary, err := s.Run(t.Context())

			require.NoError(t, err, "run level error is only for listing failures")
			require.Equal(t, 1, summary.Processed, "only the healthy investment counts")
			require.Equal(t, "1.00", summary.TotalEarnings.StringFixed(2), "50 at 2 percent")

			// Broken investment: every write of the payout must be rolled back
			today := time.Now().UTC().Truncate(24 * time.Hour)
			exists, err := storage.Earning().ExistsForDate(t.Context(), brokenInv.ID, today)
			require.NoError(t, err)
			require.False(t, exists, "earning row must not survive the rollback")

			gotBroken, err := storage.Investment().GetInvestment(t.Context(), brokenInv.ID)
			require.NoError(t, err)
			require.True(t, gotBroken.TotalEarned.IsZero(), "payout bump must be rolled back")

			brokenProfile, err := storage.Profile().GetProfile(t.Context(), broken.UserID)
			require.NoError(t, err)
			require.True(t, brokenProfile.Balance.IsZero(), "balance credit must be rolled back")

			transactions, err := storage.Transaction().ListByUser(t.Context(), broken.UserID)
			require.NoError(t, err)
			require.Empty(t, transactions)

			// Healthy investment is fully paid
			gotHealthy, err := storage.Investment().GetInvestment(t.Context(), healthyInv.ID)
			require.NoError(t, err)
			require.Equal(t, "1.00", gotHealthy.TotalEarned.StringFixed(2))

			healthyProfile, err := storage.Profile().GetProfile(t.Context(), healthy.UserID)
			require.NoError(t, err)
			require.Equal(t, "1.00", healthyProfile.Balance.StringFixed(2))
		})
	})

	t.Run("amounts are rounded to cents", func(t *testing.T) {
		inTx(t, func(s *Service, storage repository.Storage) {
			profile := seedUser(t, storage, "round")
			seedInvestment(t, storage, profile.UserID, "33.33", 30)

			summary, err := s.Run(t.Context())

			require.NoError(t, err)
			// 33.33 * 0.02 = 0.6666 -> 0.67
			require.Equal(t, "0.67", summary.TotalEarnings.StringFixed(2))
		})
	})
}

// Storage whose transaction repo fails inserts for one user. Used to break
// a payout after the earning and balance writes already happened.
type txFailStorage struct {
	repository.Storage
	failUserID uuid.UUID
}

func (s *txFailStorage) Transaction() repository.TransactionRepo {
	return &txFailRepo{TransactionRepo: s.Storage.Transaction(), failUserID: s.failUserID}
}

func (s *txFailStorage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	return s.Storage.InTx(ctx, func(st repository.Storage) error {
		return fn(&txFailStorage{Storage: st, failUserID: s.failUserID})
	})
}

type txFailRepo struct {
	repository.TransactionRepo
	failUserID uuid.UUID
}

func (r *txFailRepo) CreateTransaction(ctx context.Context, tr models.Transaction) (models.Transaction, error) {
	if tr.UserID == r.failUserID {
		return models.Transaction{}, errors.New("transaction insert refused")
	}
	return r.TransactionRepo.CreateTransaction(ctx, tr)
}
