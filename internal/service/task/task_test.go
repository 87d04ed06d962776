package task

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
	"github.com/joel172001/appniania/internal/repository/postgres"
	"github.com/joel172001/appniania/internal/testutil"
)

func TestTaskService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(s *TaskService, storage repository.Storage, tx pgx.Tx)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			fn(NewService(storage), storage, tx)
		})
	}

	seedUser := func(t *testing.T, storage repository.Storage) models.Profile {
		t.Helper()

		user, err := storage.User().CreateUser(t.Context(), uuid.NewString()+"@example.com", "hash")
		require.NoError(t, err)

		profile, err := storage.Profile().CreateProfile(t.Context(), models.Profile{
			UserID:        user.ID,
			Email:         user.Email,
			FullName:      "Tasker",
			Phone:         "+1" + uuid.NewString()[:10],
			ReferralCode:  fmt.Sprintf("%.8s", uuid.NewString()),
			Balance:       decimal.Zero,
			TotalInvested: decimal.Zero,
			TotalEarnings: decimal.Zero,
		})
		require.NoError(t, err)

		return profile
	}

	seedTask := func(t *testing.T, tx pgx.Tx, title string, reward string, active bool) uuid.UUID {
		t.Helper()

		id := uuid.New()
		_, err := tx.Exec(t.Context(),
			`INSERT INTO daily_tasks (id, title, description, reward_amount, task_type, is_active)
			 VALUES ($1, $2, 'test task', $3, 'visit', $4)`,
			id, title, reward, active)
		require.NoError(t, err)

		return id
	}

	t.Run("ListForUser marks completed tasks", func(t *testing.T) {
		inTx(t, func(s *TaskService, storage repository.Storage, tx pgx.Tx) {
			profile := seedUser(t, storage)
			doneID := seedTask(t, tx, "Done task", "0.50", true)
			seedTask(t, tx, "Open task", "0.25", true)
			seedTask(t, tx, "Hidden task", "1.00", false)

			_, err := s.Complete(t.Context(), profile.UserID, doneID)
			require.NoError(t, err)

			tasks, err := s.ListForUser(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.Len(t, tasks, 2, "inactive tasks should be hidden")

			byTitle := make(map[string]TaskWithState)
			for _, task := range tasks {
				byTitle[task.Title] = task
			}
			require.True(t, byTitle["Done task"].CompletedToday)
			require.False(t, byTitle["Open task"].CompletedToday)
		})
	})

	t.Run("Complete credits reward once", func(t *testing.T) {
		inTx(t, func(s *TaskService, storage repository.Storage, tx pgx.Tx) {
			profile := seedUser(t, storage)
			taskID := seedTask(t, tx, "Reward task", "0.75", true)

			completion, err := s.Complete(t.Context(), profile.UserID, taskID)

			require.NoError(t, err)
			require.True(t, completion.RewardCredited)

			updated, err := storage.Profile().GetProfile(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.Equal(t, "0.75", updated.Balance.StringFixed(2))

			transactions, err := storage.Transaction().ListByUser(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.Len(t, transactions, 1)
			require.Equal(t, models.TransactionEarning, transactions[0].Type)

			// Second claim the same day must fail and not pay
			_, err = s.Complete(t.Context(), profile.UserID, taskID)
			require.ErrorIs(t, err, apperrors.ErrTaskAlreadyCompleted)

			updated, err = storage.Profile().GetProfile(t.Context(), profile.UserID)
			require.NoError(t, err)
			require.Equal(t, "0.75", updated.Balance.StringFixed(2))
		})
	})

	t.Run("Complete inactive task fail", func(t *testing.T) {
		inTx(t, func(s *TaskService, storage repository.Storage, tx pgx.Tx) {
			profile := seedUser(t, storage)
			taskID := seedTask(t, tx, "Gone task", "0.50", false)

			_, err := s.Complete(t.Context(), profile.UserID, taskID)
			require.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		})
	})
}
