package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/joel172001/appniania/internal/handlers/render"
	"github.com/joel172001/appniania/internal/logger"
)

// handleRunEarnings triggers one accrual run. When jobToken is non empty the
// caller must present it as a bearer token, which lets an external scheduler
// hit the endpoint without a user account.
func handleRunEarnings(es earningsService, jobToken string, l logger.Logger) http.Handler {
	type response struct {
		Success       bool   `json:"success"`
		Message       string `json:"message"`
		Processed     int    `json:"processed"`
		TotalEarnings string `json:"totalEarnings"`
	}
	type errorResponse struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if jobToken != "" {
			header := r.Header.Get("Authorization")
			token, _ := strings.CutPrefix(header, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(jobToken)) != 1 {
				render.JSONWithStatus(w, errorResponse{Success: false, Error: "Unauthorized"}, http.StatusUnauthorized)
				return
			}
		}

		summary, err := es.Run(r.Context())
		if err != nil {
			l.Error("Accrual run failed", "error", err)
			render.JSONWithStatus(w, errorResponse{Success: false, Error: err.Error()}, http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			Success:       true,
			Message:       fmt.Sprintf("Processed %d investments", summary.Processed),
			Processed:     summary.Processed,
			TotalEarnings: summary.TotalEarnings.StringFixed(2),
		})
	})
}
