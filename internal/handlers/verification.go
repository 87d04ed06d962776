package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joel172001/appniania/internal/apperrors"
	"github.com/joel172001/appniania/internal/handlers/render"
	"github.com/joel172001/appniania/internal/handlers/userctx"
	"github.com/joel172001/appniania/internal/logger"
	"github.com/joel172001/appniania/internal/models"
	"github.com/joel172001/appniania/internal/service/verification"
)

// Three files of up to 10MB each plus form fields
const maxVerificationForm = 32 << 20

type verificationResponse struct {
	ID           uuid.UUID  `json:"id"`
	DocumentType string     `json:"document_type"`
	Status       string     `json:"status"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	AdminNote    *string    `json:"admin_note"`
}

func toVerificationResponse(v models.IdentityVerification) verificationResponse {
	return verificationResponse{
		ID:           v.ID,
		DocumentType: v.DocumentType,
		Status:       v.Status,
		SubmittedAt:  v.SubmittedAt,
		ReviewedAt:   v.ReviewedAt,
		AdminNote:    v.AdminNote,
	}
}

func handleSubmitVerification(vs verificationService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := r.ParseMultipartForm(maxVerificationForm); err != nil {
			render.ServiceError(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}

		params := verification.SubmitParams{
			DocumentType:   r.FormValue("document_type"),
			PassportNumber: r.FormValue("passport_number"),
		}

		var closers []multipart.File
		defer func() {
			for _, f := range closers {
				_ = f.Close()
			}
		}()

		for _, part := range []struct {
			field string
			dst   **verification.Document
		}{
			{"front", &params.Front},
			{"back", &params.Back},
			{"selfie", &params.Selfie},
		} {
			file, header, err := r.FormFile(part.field)
			if err != nil {
				continue
			}
			closers = append(closers, file)
			*part.dst = &verification.Document{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			}
		}

		v, err := vs.Submit(r.Context(), user.ID, params)
		switch {
		case err == nil:
			render.JSONWithStatus(w, toVerificationResponse(v), http.StatusCreated)
		case errors.Is(err, apperrors.ErrDocumentTypeInvalid):
			render.ServiceError(w, "Unsupported document type", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrDocumentMissing):
			render.ServiceError(w, "Required document is missing", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrDocumentTooLarge):
			render.ServiceError(w, "Document exceeds the 10MB limit", http.StatusRequestEntityTooLarge)
		case errors.Is(err, apperrors.ErrPassportNumberRequired):
			render.ServiceError(w, "Passport number is required", http.StatusBadRequest)
		default:
			l.Error("Failed to submit verification", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleGetVerification(vs verificationService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		v, err := vs.Latest(r.Context(), user.ID)
		switch {
		case err == nil:
			render.JSON(w, toVerificationResponse(v))
		case errors.Is(err, apperrors.ErrVerificationNotFound):
			render.ServiceError(w, "No verification submitted", http.StatusNotFound)
		default:
			l.Error("Failed to get verification", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleGeneratePhoneCode(ps phoneService, l logger.Logger) http.Handler {
	type request struct {
		Phone string `json:"phone" validate:"required,min=5,max=20"`
	}
	type response struct {
		Code      string    `json:"code"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		code, err := ps.GenerateCode(r.Context(), data.Phone)
		if err != nil {
			l.Error("Failed to generate phone code", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		// No SMS gateway wired: the code goes back to the caller
		render.JSON(w, response{Code: code.Code, ExpiresAt: code.ExpiresAt})
	})
}

func handleVerifyPhoneCode(ps phoneService, l logger.Logger) http.Handler {
	type request struct {
		Phone string `json:"phone" validate:"required,min=5,max=20"`
		Code  string `json:"code" validate:"required,len=6"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = ps.VerifyCode(r.Context(), data.Phone, data.Code)
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Phone verified successfully"})
		case errors.Is(err, apperrors.ErrPhoneCodeNotFound), errors.Is(err, apperrors.ErrPhoneCodeExpired):
			render.ServiceError(w, "Verification code expired or not found", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrPhoneCodeInvalid):
			render.ServiceError(w, "Verification code invalid", http.StatusBadRequest)
		default:
			l.Error("Failed to verify phone code", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
