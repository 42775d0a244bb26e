package handlers

import (
	"net/http"

	"dispatcherhub/internal/http/middleware"
	"dispatcherhub/internal/logx"
)

// SessionHandler serves /api/session.
type SessionHandler struct {
	logger logx.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(logger logx.Logger) *SessionHandler {
	return &SessionHandler{logger: logger}
}

// Get returns the session attached by the session gate.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, sessionResponse{Email: s.Email, ExpiresAt: s.ExpiresAt})
}
