package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/bookshop-server/internal/api/http/response"
	"github.com/dtroode/bookshop-server/internal/logger"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health serves the liveness probe.
type Health struct {
	pinger Pinger
	logger *logger.Logger
}

// NewHealth creates a new Health handler.
func NewHealth(pinger Pinger, logger *logger.Logger) *Health {
	return &Health{pinger: pinger, logger: logger}
}

type healthResponse struct {
	OK bool `json:"ok"`
}

// Check responds {"ok":true} when the user store answers a ping.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn("Health handler: store unreachable",
			"error", err.Error())
		response.JSON(w, http.StatusServiceUnavailable, healthResponse{OK: false})
		return
	}

	response.JSON(w, http.StatusOK, healthResponse{OK: true})
}
