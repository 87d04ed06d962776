package handlers

import (
	"errors"
	"net/http"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/handlers/render"
	"github.com/joel172001/appniania/internal/handlers/userctx"
	"github.com/joel172001/appniania/internal/logger"
	"github.com/joel172001/appniania/internal/service/auth"
)

func handleRegister(as authService, l logger.Logger) http.Handler {
	type request struct {
		Email        string `json:"email" validate:"required,email"`
		Password     string `json:"password" validate:"required,min=8"`
		FullName     string `json:"full_name" validate:"required,min=2,max=100"`
		Phone        string `json:"phone" validate:"required,min=5,max=20"`
		ReferralCode string `json:"referral_code" validate:"omitempty,len=8"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		_, pair, err := as.Register(r.Context(), auth.RegisterParams{
			Email:        data.Email,
			Password:     data.Password,
			FullName:     data.FullName,
			Phone:        data.Phone,
			ReferralCode: data.ReferralCode,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "User already exists", http.StatusConflict)
			default:
				l.Error("Failed to register user", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		as.SetTokenPairToResponse(w, pair)
		render.JSON(w, response{Message: "User registered successfully"})
	})
}

func handleLogin(as authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := as.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.ServiceError(w, "Invalid email or password", http.StatusUnauthorized)
			default:
				l.Error("Failed to login user", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		as.SetTokenPairToResponse(w, pair)
		render.JSON(w, response{Message: "User logged in successfully"})
	})
}

func handleTokenRefresh(as authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := as.GetRefreshString(r)
		if err != nil {
			render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
			return
		}

		pair, err := as.RefreshPair(r.Context(), refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrRefreshTokenExpired):
				render.ServiceError(w, "Refresh token expired", http.StatusUnauthorized)
			default:
				render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
			}
			return
		}

		as.SetTokenPairToResponse(w, pair)
		render.JSON(w, response{Message: "Tokens refreshed successfully"})
	})
}

func handleChangePassword(as authService, l logger.Logger) http.Handler {
	type request struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = as.ChangePassword(r.Context(), user.ID, data.CurrentPassword, data.NewPassword)
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Password changed successfully"})
		case errors.Is(err, apperrors.ErrPasswordMismatch):
			render.ServiceError(w, "Current password is incorrect", http.StatusBadRequest)
		default:
			l.Error("Failed to change password", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
