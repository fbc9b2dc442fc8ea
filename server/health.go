package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/user/taskmanager-go/apperror"
)

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// HandleHealth godoc
// @Summary Liveness and storage check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse "Storage unavailable"
// @Router /healthz [get]
func HandleHealth(pinger Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "health_check_failed", "error", err)
			apperror.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		apperror.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
