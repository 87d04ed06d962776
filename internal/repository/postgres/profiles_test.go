package postgres

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
	"github.com/joel172001/appniania/internal/testutil"
)

func TestProfileRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(storage repository.Storage)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			fn(NewStorage(tx))
		})
	}

	seedProfile := func(t *testing.T, storage repository.Storage, balance, earnings string) models.Profile {
		t.Helper()

		user, err := storage.User().CreateUser(t.Context(), uuid.NewString()+"@example.com", "hash")
		require.NoError(t, err)

		profile, err := storage.Profile().CreateProfile(t.Context(), models.Profile{
			UserID:        user.ID,
			Email:         user.Email,
			FullName:      "Holder",
			Phone:         "+1" + uuid.NewString()[:10],
			ReferralCode:  fmt.Sprintf("%.8s", uuid.NewString()),
			Balance:       decimal.RequireFromString(balance),
			TotalInvested: decimal.Zero,
			TotalEarnings: decimal.RequireFromString(earnings),
		})
		require.NoError(t, err)

		return profile
	}

	t.Run("Credit and Debit", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			profile := seedProfile(t, storage, "100", "0")

			credited, err := storage.Profile().Credit(t.Context(), profile.UserID, decimal.RequireFromString("25.50"))
			require.NoError(t, err)
			require.Equal(t, "125.50", credited.Balance.StringFixed(2))

			debited, err := storage.Profile().Debit(t.Context(), profile.UserID, decimal.RequireFromString("125.50"))
			require.NoError(t, err)
			require.True(t, debited.Balance.IsZero())
		})
	})

	t.Run("Debit more than balance fail", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			profile := seedProfile(t, storage, "100", "0")

			_, err := storage.Profile().Debit(t.Context(), profile.UserID, decimal.RequireFromString("100.01"))
			require.ErrorIs(t, err, apperrors.ErrBalanceInsufficient)

			// Balance unchanged
			got, err := storage.Profile().GetProfile(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.Equal(t, "100.00", got.Balance.StringFixed(2))
		})
	})

	t.Run("Debit unknown profile fail", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			_, err := storage.Profile().Debit(t.Context(), uuid.New(), decimal.RequireFromString("10"))
			require.ErrorIs(t, err, apperrors.ErrProfileNotFound)
		})
	})

	t.Run("ApplyEarning bumps balance and total", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			profile := seedProfile(t, storage, "10", "5")

			got, err := storage.Profile().ApplyEarning(t.Context(), profile.UserID, decimal.RequireFromString("2.50"))

			require.NoError(t, err)
			require.Equal(t, "12.50", got.Balance.StringFixed(2))
			require.Equal(t, "7.50", got.TotalEarnings.StringFixed(2))
		})
	})

	t.Run("ApplyInvestment moves balance to invested", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			profile := seedProfile(t, storage, "300", "0")

			got, err := storage.Profile().ApplyInvestment(t.Context(), profile.UserID, decimal.RequireFromString("200"))

			require.NoError(t, err)
			require.Equal(t, "100.00", got.Balance.StringFixed(2))
			require.Equal(t, "200.00", got.TotalInvested.StringFixed(2))

			_, err = storage.Profile().ApplyInvestment(t.Context(), profile.UserID, decimal.RequireFromString("200"))
			require.ErrorIs(t, err, apperrors.ErrBalanceInsufficient)
		})
	})

	t.Run("TransferEarnings guards the earnings balance", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			profile := seedProfile(t, storage, "0", "40")

			got, err := storage.Profile().TransferEarnings(t.Context(), profile.UserID, decimal.RequireFromString("40"))
			require.NoError(t, err)
			require.Equal(t, "40.00", got.Balance.StringFixed(2))
			require.True(t, got.TotalEarnings.IsZero())

			_, err = storage.Profile().TransferEarnings(t.Context(), profile.UserID, decimal.RequireFromString("0.01"))
			require.ErrorIs(t, err, apperrors.ErrEarningsInsufficient)
		})
	})

	t.Run("UpdateContact keeps omitted fields", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			profile := seedProfile(t, storage, "0", "0")

			address := "TXYZabcdef123456"
			got, err := storage.Profile().UpdateContact(t.Context(), profile.UserID, repository.UpdateContactParams{
				USDTAddress: &address,
			})

			require.NoError(t, err)
			require.Equal(t, profile.FullName, got.FullName, "nil field should keep the old value")
			require.NotNil(t, got.USDTAddress)
		})
	})
}
