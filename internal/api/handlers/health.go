package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/utils"
)

// Check probes one dependency for readiness
type Check func(ctx context.Context) error

// HealthHandler handles health check requests
type HealthHandler struct {
	version string
	checks  map[string]Check
	timeout time.Duration
	logger  *logger.Logger
}

// NewHealthHandler creates a new health handler. checks are keyed by the
// dependency name reported in the readiness payload.
func NewHealthHandler(version string, checks map[string]Check, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		version: version,
		checks:  checks,
		timeout: 2 * time.Second,
		logger:  log,
	}
}

// Healthz handles liveness probe
// @Summary Liveness probe
// @Description Check if the application is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is alive"
// @Router /health [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "flowvera",
		"version": h.version,
	})
}

// Readyz handles readiness probe
// @Summary Readiness probe
// @Description Check that the database and optional cache are reachable
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is ready"
// @Failure 503 {object} utils.ErrorResponse "Service unavailable"
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := map[string]string{"status": "ready"}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.WithError(err).With("dependency", name).Error("Readiness check failed")
			utils.WriteAppError(w, errors.ServiceUnavailable(name+" is unavailable"))
			return
		}
		status[name] = "connected"
	}

	utils.WriteSuccess(w, http.StatusOK, status)
}
