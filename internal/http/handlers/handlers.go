package handlers

import (
	"context"
	"net/http"
	"time"

	"dispatcherhub/internal/logx"
)

const healthTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handlers serves the ops endpoints.
type Handlers struct {
	Logger logx.Logger
	checks []HealthCheck
}

// New creates a Handlers instance. Every check must pass for /healthcheck to report healthy.
func New(logger logx.Logger, checks ...HealthCheck) *Handlers {
	return &Handlers{Logger: logger, checks: checks}
}

// Ping handles GET /ping.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// HealthcheckHead handles HEAD /healthcheck: 204 when healthy, 503 otherwise.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	for _, check := range h.checks {
		if err := check(ctx); err != nil {
			h.Logger.Warn("healthcheck failed", logx.String("request_id", reqID(r.Context())), logx.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotFound returns a JSON 404 error for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(h.Logger, w, r, http.StatusNotFound, "route not found")
}

// Unauthorized returns a JSON 401 for API calls without a session.
func (h *Handlers) Unauthorized(w http.ResponseWriter, r *http.Request) {
	writeError(h.Logger, w, r, http.StatusUnauthorized, "unauthorized")
}
