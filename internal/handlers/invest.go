package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/handlers/render"
	"github.com/joel172001/appniania/internal/handlers/userctx"
	"github.com/joel172001/appniania/internal/logger"
	"github.com/joel172001/appniania/internal/models"
)

type planResponse struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	MinAmount             string    `json:"min_amount"`
	MaxAmount             *string   `json:"max_amount"`
	DailyReturnPercentage string    `json:"daily_return_percentage"`
	DurationDays          int       `json:"duration_days"`
	Description           string    `json:"description"`
}

func toPlanResponse(p models.Plan) planResponse {
	resp := planResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		MinAmount:             p.MinAmount.StringFixed(2),
		DailyReturnPercentage: p.DailyReturnPercentage.String(),
		DurationDays:          p.DurationDays,
		Description:           p.Description,
	}
	if p.MaxAmount != nil {
		s := p.MaxAmount.StringFixed(2)
		resp.MaxAmount = &s
	}
	return resp
}

type investmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	PlanID         uuid.UUID  `json:"plan_id"`
	PlanName       string     `json:"plan_name,omitempty"`
	Amount         string     `json:"amount"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         string     `json:"status"`
	TotalEarned    string     `json:"total_earned"`
	LastPayoutDate *time.Time `json:"last_payout_date"`
}

func toInvestmentResponse(inv models.Investment) investmentResponse {
	resp := investmentResponse{
		ID:             inv.ID,
		PlanID:         inv.PlanID,
		Amount:         inv.Amount.StringFixed(2),
		StartDate:      inv.StartDate,
		EndDate:        inv.EndDate,
		Status:         inv.Status,
		TotalEarned:    inv.TotalEarned.StringFixed(2),
		LastPayoutDate: inv.LastPayoutDate,
	}
	if inv.Plan != nil {
		resp.PlanName = inv.Plan.Name
	}
	return resp
}

func handleListPlans(is investService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plans, err := is.ListPlans(r.Context())
		if err != nil {
			l.Error("Failed to list plans", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]planResponse, 0, len(plans))
		for _, p := range plans {
			out = append(out, toPlanResponse(p))
		}
		render.JSON(w, out)
	})
}

func handleCreateInvestment(is investService, l logger.Logger) http.Handler {
	type request struct {
		PlanID uuid.UUID       `json:"plan_id" validate:"required"`
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

		investment, err := is.Purchase(r.Context(), user.ID, data.PlanID, data.Amount)
		switch {
		case err == nil:
			render.JSONWithStatus(w, toInvestmentResponse(investment), http.StatusCreated)
		case errors.Is(err, apperrors.ErrPlanNotFound):
			render.ServiceError(w, "Plan not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrPlanInactive):
			render.ServiceError(w, "Plan is not available", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrAmountBelowMinimum):
			render.ServiceError(w, "Amount is below plan minimum", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrAmountAboveMaximum):
			render.ServiceError(w, "Amount is above plan maximum", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrBalanceInsufficient):
			render.ServiceError(w, "Insufficient balance", http.StatusPaymentRequired)
		default:
			l.Error("Failed to create investment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListInvestments(is investService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		investments, err := is.ListByUser(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list investments", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]investmentResponse, 0, len(investments))
		for _, inv := range investments {
			out = append(out, toInvestmentResponse(inv))
		}
		render.JSON(w, out)
	})
}
