package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/handlers/render"
	"github.com/joel172001/appniania/internal/handlers/userctx"
	"github.com/joel172001/appniania/internal/logger"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/repository"
)

type profileResponse struct {
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	PhoneVerified bool      `json:"phone_verified"`
	USDTAddress   *string   `json:"usdt_address"`
	ReferralCode  string    `json:"referral_code"`
	IsAdmin       bool      `json:"is_admin"`
	Balance       string    `json:"balance"`
	TotalInvested string    `json:"total_invested"`
	TotalEarnings string    `json:"total_earnings"`
	CreatedAt     time.Time `json:"created_at"`
}

func toProfileResponse(p models.Profile) profileResponse {
	return profileResponse{
		Email:         p.Email,
		FullName:      p.FullName,
		Phone:         p.Phone,
		PhoneVerified: p.PhoneVerified,
		USDTAddress:   p.USDTAddress,
		ReferralCode:  p.ReferralCode,
		IsAdmin:       p.IsAdmin,
		Balance:       p.Balance.StringFixed(2),
		TotalInvested: p.TotalInvested.StringFixed(2),
		TotalEarnings: p.TotalEarnings.StringFixed(2),
		CreatedAt:     p.CreatedAt,
	}
}

func handleGetProfile(us userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		profile, err := us.Profile(r.Context(), user.ID)
		switch {
		case err == nil:
			render.JSON(w, toProfileResponse(profile))
		case errors.Is(err, apperrors.ErrProfileNotFound):
			render.ServiceError(w, "Profile not found", http.StatusNotFound)
		default:
			l.Error("Failed to get profile", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateProfile(us userService, l logger.Logger) http.Handler {
	type request struct {
		FullName    *string `json:"full_name" validate:"omitempty,min=2,max=100"`
		USDTAddress *string `json:"usdt_address" validate:"omitempty,min=10,max=100"`
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

		profile, err := us.UpdateContact(r.Context(), user.ID, repository.UpdateContactParams{
			FullName:    data.FullName,
			USDTAddress: data.USDTAddress,
		})
		switch {
		case err == nil:
			render.JSON(w, toProfileResponse(profile))
		case errors.Is(err, apperrors.ErrProfileNotFound):
			render.ServiceError(w, "Profile not found", http.StatusNotFound)
		default:
			l.Error("Failed to update profile", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleTransferEarnings(us userService, l logger.Logger) http.Handler {
	type request struct {
		Amount decimal.Decimal `json:"amount" validate:"required"`
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

		profile, err := us.TransferEarnings(r.Context(), user.ID, data.Amount)
		switch {
		case err == nil:
			render.JSON(w, toProfileResponse(profile))
		case errors.Is(err, apperrors.ErrAmountTooSmall):
			render.ServiceError(w, "Minimum transfer amount is $10", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrEarningsInsufficient):
			render.ServiceError(w, "Insufficient earnings balance", http.StatusPaymentRequired)
		default:
			l.Error("Failed to transfer earnings", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
