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
	"github.com/joel172001/appniania/internal/service/admin"
)

func handleAdminPendingDeposits(as adminService, l logger.Logger) http.Handler {
	type deposit struct {
		ID        uuid.UUID `json:"id"`
		Email     string    `json:"email"`
		Amount    string    `json:"amount"`
		TxHash    *string   `json:"tx_hash"`
		CreatedAt time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deposits, err := as.ListPendingDeposits(r.Context())
		if err != nil {
			l.Error("Failed to list pending deposits", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]deposit, 0, len(deposits))
		for _, d := range deposits {
			out = append(out, deposit{
				ID:        d.ID,
				Email:     d.Email,
				Amount:    d.Amount.StringFixed(2),
				TxHash:    d.TxHash,
				CreatedAt: d.CreatedAt,
			})
		}
		render.JSON(w, out)
	})
}

func handleAdminPendingWithdrawals(as adminService, l logger.Logger) http.Handler {
	type withdrawal struct {
		ID          uuid.UUID `json:"id"`
		Email       string    `json:"email"`
		Amount      string    `json:"amount"`
		USDTAddress string    `json:"usdt_address"`
		RequestedAt time.Time `json:"requested_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		withdrawals, err := as.ListPendingWithdrawals(r.Context())
		if err != nil {
			l.Error("Failed to list pending withdrawals", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]withdrawal, 0, len(withdrawals))
		for _, wd := range withdrawals {
			out = append(out, withdrawal{
				ID:          wd.ID,
				Email:       wd.Email,
				Amount:      wd.Amount.StringFixed(2),
				USDTAddress: wd.USDTAddress,
				RequestedAt: wd.RequestedAt,
			})
		}
		render.JSON(w, out)
	})
}

func handleAdminReviewDeposit(as adminService, l logger.Logger) http.Handler {
	type request struct {
		Approve   bool    `json:"approve"`
		AdminNote *string `json:"admin_note" validate:"omitempty,max=500"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid transaction id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if data.Approve {
			_, err = as.ApproveDeposit(r.Context(), id, data.AdminNote)
		} else {
			_, err = as.RejectDeposit(r.Context(), id, data.AdminNote)
		}

		switch {
		case err == nil:
			render.JSON(w, map[string]string{"message": "Deposit reviewed"})
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			render.ServiceError(w, "Transaction not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrTransactionNotPending):
			render.ServiceError(w, "Transaction is not pending", http.StatusConflict)
		default:
			l.Error("Failed to review deposit", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleAdminReviewWithdrawal(as adminService, l logger.Logger) http.Handler {
	type request struct {
		Approve     bool    `json:"approve"`
		TxReference string  `json:"tx_reference" validate:"omitempty,max=120"`
		AdminNote   *string `json:"admin_note" validate:"omitempty,max=500"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid withdrawal id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if data.Approve {
			_, err = as.ApproveWithdrawal(r.Context(), user.ID, id, data.TxReference, data.AdminNote)
		} else {
			_, err = as.RejectWithdrawal(r.Context(), id, data.AdminNote)
		}

		switch {
		case err == nil:
			render.JSON(w, map[string]string{"message": "Withdrawal reviewed"})
		case errors.Is(err, apperrors.ErrWithdrawalNotFound):
			render.ServiceError(w, "Withdrawal request not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrWithdrawalNotPending):
			render.ServiceError(w, "Withdrawal request is not pending", http.StatusConflict)
		default:
			l.Error("Failed to review withdrawal", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleAdminPendingVerifications(as adminService, vs verificationService, l logger.Logger) http.Handler {
	type pending struct {
		ID             uuid.UUID `json:"id"`
		UserID         uuid.UUID `json:"user_id"`
		DocumentType   string    `json:"document_type"`
		FrontURL       string    `json:"front_url"`
		BackURL        *string   `json:"back_url"`
		SelfieURL      string    `json:"selfie_url"`
		PassportNumber *string   `json:"passport_number"`
		SubmittedAt    time.Time `json:"submitted_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		verifications, err := as.ListPendingVerifications(r.Context())
		if err != nil {
			l.Error("Failed to list pending verifications", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]pending, 0, len(verifications))
		for _, v := range verifications {
			frontURL, err := vs.DocumentURL(r.Context(), v.DocumentFrontKey)
			if err != nil {
				l.Error("Failed to sign document url", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			selfieURL, err := vs.DocumentURL(r.Context(), v.SelfieKey)
			if err != nil {
				l.Error("Failed to sign document url", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			p := pending{
				ID:             v.ID,
				UserID:         v.UserID,
				DocumentType:   v.DocumentType,
				FrontURL:       frontURL,
				SelfieURL:      selfieURL,
				PassportNumber: v.PassportNumber,
				SubmittedAt:    v.SubmittedAt,
			}
			if v.DocumentBackKey != nil {
				backURL, err := vs.DocumentURL(r.Context(), *v.DocumentBackKey)
				if err != nil {
					l.Error("Failed to sign document url", "error", err)
					render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				p.BackURL = &backURL
			}

			out = append(out, p)
		}
		render.JSON(w, out)
	})
}

func handleAdminReviewVerification(as adminService, l logger.Logger) http.Handler {
	type request struct {
		Approve   bool    `json:"approve"`
		AdminNote *string `json:"admin_note" validate:"omitempty,max=500"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid verification id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		_, err = as.ReviewVerification(r.Context(), id, data.Approve, data.AdminNote)
		switch {
		case err == nil:
			render.JSON(w, map[string]string{"message": "Verification reviewed"})
		case errors.Is(err, apperrors.ErrVerificationNotFound):
			render.ServiceError(w, "Verification not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrVerificationNotPending):
			render.ServiceError(w, "Verification is not pending", http.StatusConflict)
		default:
			l.Error("Failed to review verification", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleAdminBroadcast(as adminService, l logger.Logger) http.Handler {
	type request struct {
		Title   string `json:"title" validate:"required,max=120"`
		Message string `json:"message" validate:"required,max=1000"`
		Type    string `json:"type" validate:"omitempty,oneof=info success error"`
		Email   string `json:"email" validate:"omitempty,email"`
	}
	type response struct {
		Delivered int `json:"delivered"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		delivered, err := as.Broadcast(r.Context(), admin.BroadcastParams{
			Title:   data.Title,
			Message: data.Message,
			Type:    data.Type,
			Email:   data.Email,
		})
		switch {
		case err == nil:
			render.JSON(w, response{Delivered: delivered})
		case errors.Is(err, apperrors.ErrProfileNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to broadcast notification", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
