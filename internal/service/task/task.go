package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

// TaskWithState is a daily task together with today's completion state
// for one user
type TaskWithState struct {
	models.DailyTask
	CompletedToday bool
}

type TaskService struct {
	storage repository.Storage

	now func() time.Time
}

func NewService(storage repository.Storage) *TaskService {
	return &TaskService{
		storage: storage,
		now:     time.Now,
	}
}

// ListForUser returns every active task marked with whether the user has
// already claimed it today
func (s *TaskService) ListForUser(ctx context.Context, userID uuid.UUID) ([]TaskWithState, error) {
	tasks, err := s.storage.Task().ListActiveTasks(ctx)
	if err != nil {
		return nil, err
	}

	completions, err := s.storage.Task().ListCompletions(ctx, userID, dateOnly(s.now()))
	if err != nil {
		return nil, err
	}

	done := make(map[uuid.UUID]bool, len(completions))
	for _, c := range completions {
		done[c.TaskID] = true
	}

	out := make([]TaskWithState, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskWithState{DailyTask: t, CompletedToday: done[t.ID]})
	}

	return out, nil
}

// Complete claims a task for today and credits its reward. The daily
// uniqueness constraint on completions makes double claims impossible.
func (s *TaskService) Complete(ctx context.Context, userID uuid.UUID, taskID uuid.UUID) (models.TaskCompletion, error) {
	var completion models.TaskCompletion

	t, err := s.storage.Task().GetTask(ctx, taskID)
	if err != nil {
		return completion, err
	}
	if !t.IsActive {
		return completion, apperrors.ErrTaskNotFound
	}

	now := s.now()

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		var err error
		completion, err = st.Task().CreateCompletion(ctx, models.TaskCompletion{
			UserID:         userID,
			TaskID:         t.ID,
			CompletedAt:    now,
			CompletionDate: dateOnly(now),
			RewardCredited: true,
		})
		if err != nil {
			return err
		}

		if _, err := st.Profile().Credit(ctx, userID, t.RewardAmount); err != nil {
			return err
		}

		_, err = st.Transaction().CreateTransaction(ctx, models.Transaction{
			UserID:      userID,
			Type:        models.TransactionEarning,
			Amount:      t.RewardAmount,
			Status:      models.TransactionCompleted,
			Description: fmt.Sprintf("Reward for task: %s", t.Title),
		})
		return err
	})
	if err != nil {
		return models.TaskCompletion{}, err
	}

	return completion, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
