package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/handlers/render"
	"github.com/joel172001/appniania/internal/handlers/userctx"
	"github.com/joel172001/appniania/internal/logger"
)

func handleListTasks(ts taskService, l logger.Logger) http.Handler {
	type task struct {
		ID             uuid.UUID `json:"id"`
		Title          string    `json:"title"`
		Description    string    `json:"description"`
		RewardAmount   string    `json:"reward_amount"`
		TaskType       string    `json:"task_type"`
		TaskURL        *string   `json:"task_url"`
		CompletedToday bool      `json:"completed_today"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		tasks, err := ts.ListForUser(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list tasks", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]task, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, task{
				ID:             t.ID,
				Title:          t.Title,
				Description:    t.Description,
				RewardAmount:   t.RewardAmount.StringFixed(2),
				TaskType:       t.TaskType,
				TaskURL:        t.TaskURL,
				CompletedToday: t.CompletedToday,
			})
		}
		render.JSON(w, out)
	})
}

func handleCompleteTask(ts taskService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		taskID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid task id", http.StatusBadRequest)
			return
		}

		_, err = ts.Complete(r.Context(), user.ID, taskID)
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Task completed, reward credited"})
		case errors.Is(err, apperrors.ErrTaskNotFound):
			render.ServiceError(w, "Task not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrTaskAlreadyCompleted):
			render.ServiceError(w, "Task already completed today", http.StatusConflict)
		default:
			l.Error("Failed to complete task", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
