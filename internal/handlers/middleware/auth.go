package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/joel172001/appniania/internal/handlers/render"
	"github.com/joel172001/appniania/internal/handlers/userctx"
	"github.com/joel172001/appniania/internal/models"
)

type authService interface {
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

type profileService interface {
	Profile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
}

func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.GetUserFromRequest(r.Context(), r)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware passes only authenticated users whose profile is flagged
// as admin. It must be chained after AuthMiddleware.
func AdminMiddleware(ps profileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userctx.FromContext(r.Context())
			if !ok {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			profile, err := ps.Profile(r.Context(), user.ID)
			if err != nil || !profile.IsAdmin {
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
