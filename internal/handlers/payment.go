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

type transactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Status      string    `json:"status"`
	TxHash      *string   `json:"tx_hash,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTransactionResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      t.Amount.StringFixed(2),
		Status:      t.Status,
		TxHash:      t.TxHash,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

type withdrawalResponse struct {
	ID          uuid.UUID  `json:"id"`
	Amount      string     `json:"amount"`
	USDTAddress string     `json:"usdt_address"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at"`
}

func toWithdrawalResponse(req models.WithdrawalRequest) withdrawalResponse {
	return withdrawalResponse{
		ID:          req.ID,
		Amount:      req.Amount.StringFixed(2),
		USDTAddress: req.USDTAddress,
		Status:      req.Status,
		RequestedAt: req.RequestedAt,
		ProcessedAt: req.ProcessedAt,
	}
}

func handleCreateDeposit(ps paymentService, l logger.Logger) http.Handler {
	type request struct {
		Amount decimal.Decimal `json:"amount" validate:"required"`
		TxHash string          `json:"tx_hash" validate:"omitempty,min=10,max=120"`
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

		tr, err := ps.Deposit(r.Context(), user.ID, data.Amount, data.TxHash)
		switch {
		case err == nil:
			render.JSONWithStatus(w, toTransactionResponse(tr), http.StatusCreated)
		case errors.Is(err, apperrors.ErrAmountTooSmall):
			render.ServiceError(w, "Minimum deposit amount is $10", http.StatusBadRequest)
		default:
			l.Error("Failed to create deposit", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleCreateWithdrawal(ps paymentService, l logger.Logger) http.Handler {
	type request struct {
		Amount  decimal.Decimal `json:"amount" validate:"required"`
		Address string          `json:"address" validate:"required,min=10,max=100"`
	}
	type response struct {
		Request    withdrawalResponse `json:"request"`
		Commission string             `json:"commission"`
		NetAmount  string             `json:"net_amount"`
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

		voucher, err := ps.RequestWithdrawal(r.Context(), user.ID, data.Amount, data.Address)
		switch {
		case err == nil:
			render.JSONWithStatus(w, response{
				Request:    toWithdrawalResponse(voucher.Request),
				Commission: voucher.Commission.StringFixed(2),
				NetAmount:  voucher.NetAmount.StringFixed(2),
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrAmountTooSmall):
			render.ServiceError(w, "Minimum withdrawal amount is $10", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrInvalidAddress):
			render.ServiceError(w, "Invalid USDT address", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrBalanceInsufficient):
			render.ServiceError(w, "Insufficient balance", http.StatusPaymentRequired)
		default:
			l.Error("Failed to create withdrawal", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListWithdrawals(ps paymentService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		requests, err := ps.ListWithdrawals(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list withdrawals", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]withdrawalResponse, 0, len(requests))
		for _, req := range requests {
			out = append(out, toWithdrawalResponse(req))
		}
		render.JSON(w, out)
	})
}

func handleListTransactions(ps paymentService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		transactions, err := ps.ListTransactions(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]transactionResponse, 0, len(transactions))
		for _, t := range transactions {
			out = append(out, toTransactionResponse(t))
		}
		render.JSON(w, out)
	})
}

func handleListEarnings(ps paymentService, l logger.Logger) http.Handler {
	type earning struct {
		ID           uuid.UUID `json:"id"`
		InvestmentID uuid.UUID `json:"investment_id"`
		Amount       string    `json:"amount"`
		Date         string    `json:"date"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		earnings, err := ps.ListEarnings(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list earnings", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]earning, 0, len(earnings))
		for _, e := range earnings {
			out = append(out, earning{
				ID:           e.ID,
				InvestmentID: e.InvestmentID,
				Amount:       e.Amount.StringFixed(2),
				Date:         e.Date.Format(time.DateOnly),
			})
		}
		render.JSON(w, out)
	})
}
