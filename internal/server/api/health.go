package api

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

// HealthResponse — ответ /healthz.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health проверяет доступность БД.
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.opts.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.opts.Health.Ping(ctx); err != nil {
			h.Log.Sugar().Warnw("health check failed", "error", err)
			WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
