package verification

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
	"github.com/joel172001/appniania/internal/repository/postgres"
	"github.com/joel172001/appniania/internal/storage"
	"github.com/joel172001/appniania/internal/testutil"
)

func TestVerificationService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(s *VerificationService, st repository.Storage, docs *storage.MemoryStore)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			st := postgres.NewStorage(tx)
			docs := storage.NewMemoryStore()
			fn(NewService(st, docs), st, docs)
		})
	}

	seedUser := func(t *testing.T, st repository.Storage) models.Profile {
		t.Helper()

		user, err := st.User().CreateUser(t.Context(), uuid.NewString()+"@example.com", "hash")
		require.NoError(t, err)

		profile, err := st.Profile().CreateProfile(t.Context(), models.Profile{
			UserID:        user.ID,
			Email:         user.Email,
			FullName:      "Applicant",
			Phone:         "+1" + uuid.NewString()[:10],
			ReferralCode:  fmt.Sprintf("%.8s", uuid.NewString()),
			Balance:       decimal.Zero,
			TotalInvested: decimal.Zero,
			TotalEarnings: decimal.Zero,
		})
		require.NoError(t, err)

		return profile
	}

	doc := func(name string) *Document {
		return &Document{
			Filename:    name,
			ContentType: "image/jpeg",
			Size:        1024,
			Body:        strings.NewReader("fake image bytes"),
		}
	}

	t.Run("Submit national id", func(t *testing.T) {
		inTx(t, func(s *VerificationService, st repository.Storage, docs *storage.MemoryStore) {
			profile := seedUser(t, st)

			v, err := s.Submit(t.Context(), profile.UserID, SubmitParams{
				DocumentType: models.DocumentNationalID,
				Front:        doc("front.jpg"),
				Back:         doc("back.jpg"),
				Selfie:       doc("selfie.jpg"),
			})

			require.NoError(t, err)
			require.Equal(t, models.VerificationPending, v.Status)
			require.NotNil(t, v.DocumentBackKey)
			require.Nil(t, v.PassportNumber)

			for _, key := range []string{v.DocumentFrontKey, *v.DocumentBackKey, v.SelfieKey} {
				require.True(t, strings.HasPrefix(key, "verification-documents/"))
				_, ok := docs.Get(key)
				require.True(t, ok, "document should be stored under its key")
			}

			latest, err := s.Latest(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.Equal(t, v.ID, latest.ID)
		})
	})

	t.Run("Submit passport", func(t *testing.T) {
		inTx(t, func(s *VerificationService, st repository.Storage, _ *storage.MemoryStore) {
			profile := seedUser(t, st)

			v, err := s.Submit(t.Context(), profile.UserID, SubmitParams{
				DocumentType:   models.DocumentPassport,
				Front:          doc("passport.jpg"),
				Selfie:         doc("selfie.jpg"),
				PassportNumber: "AB1234567",
			})

			require.NoError(t, err)
			require.Nil(t, v.DocumentBackKey, "passports have no back side")
			require.NotNil(t, v.PassportNumber)
			require.Equal(t, "AB1234567", *v.PassportNumber)
		})
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name   string
			params SubmitParams
			want   error
		}{
			{
				name: "unknown type",
				params: SubmitParams{
					DocumentType: "drivers_license",
					Front:        doc("front.jpg"),
					Selfie:       doc("selfie.jpg"),
				},
				want: apperrors.ErrDocumentTypeInvalid,
			},
			{
				name: "national id without back",
				params: SubmitParams{
					DocumentType: models.DocumentNationalID,
					Front:        doc("front.jpg"),
					Selfie:       doc("selfie.jpg"),
				},
				want: apperrors.ErrDocumentMissing,
			},
			{
				name: "passport without number",
				params: SubmitParams{
					DocumentType: models.DocumentPassport,
					Front:        doc("front.jpg"),
					Selfie:       doc("selfie.jpg"),
				},
				want: apperrors.ErrPassportNumberRequired,
			},
			{
				name: "missing selfie",
				params: SubmitParams{
					DocumentType: models.DocumentNationalID,
					Front:        doc("front.jpg"),
					Back:         doc("back.jpg"),
				},
				want: apperrors.ErrDocumentMissing,
			},
			{
				name: "oversized document",
				params: SubmitParams{
					DocumentType: models.DocumentNationalID,
					Front: &Document{
						Filename:    "front.jpg",
						ContentType: "image/jpeg",
						Size:        MaxDocumentSize + 1,
						Body:        strings.NewReader("huge"),
					},
					Back:   doc("back.jpg"),
					Selfie: doc("selfie.jpg"),
				},
				want: apperrors.ErrDocumentTooLarge,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				inTx(t, func(s *VerificationService, st repository.Storage, _ *storage.MemoryStore) {
					profile := seedUser(t, st)

					_, err := s.Submit(t.Context(), profile.UserID, tc.params)
					require.ErrorIs(t, err, tc.want)
				})
			})
		}
	})

	t.Run("Latest without submissions fail", func(t *testing.T) {
		inTx(t, func(s *VerificationService, st repository.Storage, _ *storage.MemoryStore) {
			profile := seedUser(t, st)

			_, err := s.Latest(t.Context(), profile.UserID)
			require.ErrorIs(t, err, apperrors.ErrVerificationNotFound)
		})
	})
}
