package handlers

import (
	"net/http"
	"strings"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/service/loads"
)

// LoadHandler serves /api/loads.
type LoadHandler struct {
	uc     LoadsUsecase
	logger logx.Logger
}

// NewLoadHandler creates a LoadHandler.
func NewLoadHandler(logger logx.Logger, uc LoadsUsecase) *LoadHandler {
	return &LoadHandler{uc: uc, logger: logger}
}

// List handles GET /api/loads.
func (h *LoadHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.List(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toLoadResponses(items))
}

// Create handles POST /api/loads.
func (h *LoadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLoadRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	id, err := h.uc.Create(r.Context(), loads.CreateLoadInput{
		Origin:      req.Origin,
		Destination: req.Destination,
		Rate:        string(req.Rate),
		Status:      domain.LoadStatus(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, map[string]int64{"id": id})
}

// UpdateStatus handles PATCH /api/loads/{id}/status.
func (h *LoadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateStatusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	status := domain.LoadStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid status")
		return
	}

	l, err := h.uc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toLoadResponse(l))
}
