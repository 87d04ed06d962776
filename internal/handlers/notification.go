package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/handlers/render"
	"github.com/joel172001/appniania/internal/handlers/userctx"
	"github.com/joel172001/appniania/internal/logger"
)

func handleListNotifications(us userService, l logger.Logger) http.Handler {
	type notification struct {
		ID        uuid.UUID `json:"id"`
		Type      string    `json:"type"`
		Title     string    `json:"title"`
		Message   string    `json:"message"`
		IsRead    bool      `json:"is_read"`
		CreatedAt time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		notifications, err := us.ListNotifications(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list notifications", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]notification, 0, len(notifications))
		for _, n := range notifications {
			out = append(out, notification{
				ID:        n.ID,
				Type:      n.Type,
				Title:     n.Title,
				Message:   n.Message,
				IsRead:    n.IsRead,
				CreatedAt: n.CreatedAt,
			})
		}
		render.JSON(w, out)
	})
}

func handleUnreadCount(us userService, l logger.Logger) http.Handler {
	type response struct {
		Count int64 `json:"count"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		count, err := us.UnreadCount(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to count unread notifications", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Count: count})
	})
}

func handleMarkNotificationRead(us userService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid notification id", http.StatusBadRequest)
			return
		}

		err = us.MarkNotificationRead(r.Context(), user.ID, id)
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Notification marked as read"})
		case errors.Is(err, apperrors.ErrNotificationNotFound):
			render.ServiceError(w, "Notification not found", http.StatusNotFound)
		default:
			l.Error("Failed to mark notification read", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleMarkAllNotificationsRead(us userService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := us.MarkAllNotificationsRead(r.Context(), user.ID); err != nil {
			l.Error("Failed to mark notifications read", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Message: "All notifications marked as read"})
	})
}

func handleListReferrals(us userService, l logger.Logger) http.Handler {
	type referral struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Status    string    `json:"status"`
		CreatedAt time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		referrals, err := us.ListReferrals(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list referrals", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]referral, 0, len(referrals))
		for _, ref := range referrals {
			out = append(out, referral{
				ID:        ref.ID,
				Name:      ref.ReferredName,
				Email:     ref.ReferredEmail,
				Status:    ref.Status,
				CreatedAt: ref.CreatedAt,
			})
		}
		render.JSON(w, out)
	})
}
