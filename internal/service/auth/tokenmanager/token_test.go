package tokenmanager

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
	"github.com/joel172001/appniania/internal/repository/postgres"
	"github.com/joel172001/appniania/internal/testutil"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withTx := func(t *testing.T, accessTTL time.Duration, refreshTTL time.Duration, fn func(m *TokenManager, user models.User, storage repository.Storage)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			m, err := New(Config{
				SecretKey:  "test-secret-key",
				AccessTTL:  accessTTL,
				RefreshTTL: refreshTTL,
			}, storage.Refresh())
			require.NoError(t, err, "token manager should be created without errors")

			email := fmt.Sprintf("%s@example.com", uuid.NewString())
			user, err := storage.User().CreateUser(t.Context(), email, "hashed_password")
			require.NoError(t, err)

			fn(m, user, storage)
		})
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{SecretKey: "secret"}, &postgres.RefreshTokenRepo{})
		require.NoError(t, err, "token manager should be created without errors")

		require.Equal(t, "secret", m.key, "secret key should be set")
		require.Equal(t, defaultAccessTokenTTL, m.accessTTL, "default access token TTL should be set")
		require.Equal(t, defaultRefreshTokenTTL, m.refreshTTL, "default refresh token TTL")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("new requires secret", func(t *testing.T) {
		_, err := New(Config{}, &postgres.RefreshTokenRepo{})
		require.Error(t, err, "empty secret key should be rejected")
	})

	t.Run("GeneratePair", func(t *testing.T) {
		t.Run("return token pair", func(t *testing.T) {
			withTx(t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, user models.User, storage repository.Storage) {
				pair, err := m.GeneratePair(t.Context(), user)
				require.NoError(t, err)

				assert.NotEmpty(t, pair.Access, "access token should not be empty")
				assert.NotEmpty(t, pair.Refresh, "refresh token should not be empty")

				saved, err := storage.Refresh().GetValidToken(t.Context(), pair.Refresh, time.Now())
				require.NoError(t, err, "refresh token should be persisted")
				assert.Equal(t, user.ID, saved.UserID)
				assert.WithinDuration(t, time.Now().Add(24*time.Hour), saved.ExpiresAt, time.Second)
			})
		})

		t.Run("access claims", func(t *testing.T) {
			withTx(t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, user models.User, _ repository.Storage) {
				pair, err := m.GeneratePair(t.Context(), user)
				require.NoError(t, err)

				token, err := jwt.ParseWithClaims(pair.Access, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
					return []byte("test-secret-key"), nil
				})
				require.NoError(t, err)
				require.True(t, token.Valid, "access token should be valid")

				claims, ok := token.Claims.(*AccessTokenClaims)
				require.True(t, ok, "claims should be of type AccessTokenClaims")
				assert.Equal(t, user.ID, claims.UserID, "user ID in token should match")
				assert.NotEmpty(t, claims.ID, "token has to has jti")
				assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second, "issued at should be close to now")
				assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Second, "expires at should be 15 minutes from now")
			})
		})

		t.Run("generate different tokens", func(t *testing.T) {
			withTx(t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, user models.User, _ repository.Storage) {
				pair1, err := m.GeneratePair(t.Context(), user)
				require.NoError(t, err)

				pair2, err := m.GeneratePair(t.Context(), user)
				require.NoError(t, err)

				assert.NotEqual(t, pair1.Refresh, pair2.Refresh, "refresh tokens should be different")
				assert.NotEqual(t, pair1.Access, pair2.Access, "access tokens should be different")
			})
		})
	})

	t.Run("ParseAccess", func(t *testing.T) {
		t.Run("parse own token", func(t *testing.T) {
			withTx(t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, user models.User, _ repository.Storage) {
				pair, err := m.GeneratePair(t.Context(), user)
				require.NoError(t, err)

				claims, err := m.ParseAccess(pair.Access)
				require.NoError(t, err)
				require.Equal(t, user.ID, claims.UserID)
			})
		})

		t.Run("reject garbage", func(t *testing.T) {
			withTx(t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, _ models.User, _ repository.Storage) {
				_, err := m.ParseAccess("not-a-jwt")
				require.ErrorIs(t, err, apperrors.ErrAccessTokenInvalid)
			})
		})

		t.Run("reject token signed with other key", func(t *testing.T) {
			withTx(t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, user models.User, _ repository.Storage) {
				forged := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
					RegisteredClaims: jwt.RegisteredClaims{
						ID:        uuid.NewString(),
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
					UserID: user.ID,
				})
				signed, err := forged.SignedString([]byte("other-key"))
				require.NoError(t, err)

				_, err = m.ParseAccess(signed)
				require.ErrorIs(t, err, apperrors.ErrAccessTokenInvalid)
			})
		})
	})

	t.Run("RotateRefresh", func(t *testing.T) {
		t.Run("use token once", func(t *testing.T) {
			withTx(t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, user models.User, _ repository.Storage) {
				pair, err := m.GeneratePair(t.Context(), user)
				require.NoError(t, err)

				userID, err := m.RotateRefresh(t.Context(), pair.Refresh)
				require.NoError(t, err, "using refresh token should not return an error")
				require.Equal(t, user.ID, userID)
			})
		})

		t.Run("use token twice", func(t *testing.T) {
			withTx(t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, user models.User, _ repository.Storage) {
				pair, err := m.GeneratePair(t.Context(), user)
				require.NoError(t, err)

				_, err = m.RotateRefresh(t.Context(), pair.Refresh)
				require.NoError(t, err, "using refresh token should not return an error")

				_, err = m.RotateRefresh(t.Context(), pair.Refresh)
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenIsUsed, "second use must be rejected")
			})
		})

		t.Run("unknown token", func(t *testing.T) {
			withTx(t, 15*time.Minute, 24*time.Hour, func(m *TokenManager, _ models.User, _ repository.Storage) {
				_, err := m.RotateRefresh(t.Context(), "never-issued")
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
			})
		})

		t.Run("expired token", func(t *testing.T) {
			withTx(t, 15*time.Minute, -time.Hour, func(m *TokenManager, user models.User, _ repository.Storage) {
				pair, err := m.GeneratePair(t.Context(), user)
				require.NoError(t, err)

				_, err = m.RotateRefresh(t.Context(), pair.Refresh)
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenExpired)
			})
		})
	})
}
