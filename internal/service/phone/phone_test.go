package phone

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
	"github.com/joel172001/appniania/internal/repository/postgres"
	"github.com/joel172001/appniania/internal/testutil"
)

func TestPhoneService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(s *PhoneService, storage repository.Storage)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			fn(NewService(storage), storage)
		})
	}

	seedUser := func(t *testing.T, storage repository.Storage, phone string) models.Profile {
		t.Helper()

		user, err := storage.User().CreateUser(t.Context(), uuid.NewString()+"@example.com", "hash")
		require.NoError(t, err)

		profile, err := storage.Profile().CreateProfile(t.Context(), models.Profile{
			UserID:        user.ID,
			Email:         user.Email,
			FullName:      "Caller",
			Phone:         phone,
			ReferralCode:  fmt.Sprintf("%.8s", uuid.NewString()),
			Balance:       decimal.Zero,
			TotalInvested: decimal.Zero,
			TotalEarnings: decimal.Zero,
		})
		require.NoError(t, err)

		return profile
	}

	t.Run("GenerateCode returns six digits", func(t *testing.T) {
		inTx(t, func(s *PhoneService, _ repository.Storage) {
			code, err := s.GenerateCode(t.Context(), "+15550001111")

			require.NoError(t, err)
			require.Len(t, code.Code, 6)
			require.Regexp(t, `^\d{6}$`, code.Code)
			require.True(t, code.ExpiresAt.After(time.Now()))
		})
	})

	t.Run("VerifyCode marks phone verified", func(t *testing.T) {
		inTx(t, func(s *PhoneService, storage repository.Storage) {
			profile := seedUser(t, storage, "+15550002222")

			code, err := s.GenerateCode(t.Context(), profile.Phone)
			require.NoError(t, err)

			err = s.VerifyCode(t.Context(), profile.Phone, code.Code)
			require.NoError(t, err)

			updated, err := storage.Profile().GetProfile(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.True(t, updated.PhoneVerified)

			// Code is single use
			err = s.VerifyCode(t.Context(), profile.Phone, code.Code)
			require.Error(t, err)
		})
	})

	t.Run("wrong code fail", func(t *testing.T) {
		inTx(t, func(s *PhoneService, storage repository.Storage) {
			profile := seedUser(t, storage, "+15550003333")

			_, err := s.GenerateCode(t.Context(), profile.Phone)
			require.NoError(t, err)

			err = s.VerifyCode(t.Context(), profile.Phone, "000000")
			require.ErrorIs(t, err, apperrors.ErrPhoneCodeInvalid)

			updated, err := storage.Profile().GetProfile(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.False(t, updated.PhoneVerified)
		})
	})

	t.Run("expired code fail", func(t *testing.T) {
		inTx(t, func(s *PhoneService, storage repository.Storage) {
			profile := seedUser(t, storage, "+15550004444")

			code, err := s.GenerateCode(t.Context(), profile.Phone)
			require.NoError(t, err)

			// Move the clock past the TTL
			s.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

			err = s.VerifyCode(t.Context(), profile.Phone, code.Code)
			require.ErrorIs(t, err, apperrors.ErrPhoneCodeNotFound)
		})
	})
}
