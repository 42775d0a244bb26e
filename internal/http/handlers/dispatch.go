package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/view"
)

// DispatchHandler serves /api/dispatch.
type DispatchHandler struct {
	uc     DispatchUsecase
	logger logx.Logger
}

// NewDispatchHandler creates a DispatchHandler.
func NewDispatchHandler(logger logx.Logger, uc DispatchUsecase) *DispatchHandler {
	return &DispatchHandler{uc: uc, logger: logger}
}

// Health handles GET /api/dispatch/health.
func (h *DispatchHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": h.uc.Health(r.Context())})
}

// Loads handles GET /api/dispatch/loads.
func (h *DispatchHandler) Loads(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.Loads(r.Context())
	if err != nil {
		writeUpstreamError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toDispatchLoadResponses(items))
}

// Seed handles POST /api/dispatch/seed.
func (h *DispatchHandler) Seed(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.Seed(r.Context())
	if err != nil {
		writeUpstreamError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toSeedResponse(res))
}

// SetStatus handles PATCH /api/dispatch/loads/{id}/status.
func (h *DispatchHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req setDispatchStatusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	res, err := h.uc.SetStatus(r.Context(), id, domain.DispatchStatus(strings.TrimSpace(req.Status)))
	if err == nil {
		err = res.Failed
	}
	if err != nil {
		writeUpstreamError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toDispatchLoadResponses(res.Loads))
}

// Route handles GET /api/dispatch/route.
func (h *DispatchHandler) Route(w http.ResponseWriter, r *http.Request) {
	from, err := pointFromQuery(r, "from")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	to, err := pointFromQuery(r, "to")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.uc.Route(r.Context(), from, to)
	if err != nil {
		writeUpstreamError(h.logger, w, r, err)
		return
	}

	line := make([][2]float64, 0, len(res.Line))
	for _, p := range res.Line {
		line = append(line, [2]float64{p.Lat, p.Lon})
	}
	writeJSON(h.logger, w, r, http.StatusOK, routeResponse{
		ETA: etaResponse{
			DistanceKM:  res.ETA.DistanceKM,
			ETAMinutes:  res.ETA.ETAMinutes,
			AvgSpeedKPH: res.ETA.AvgSpeedKPH,
			Source:      res.ETA.Source,
		},
		Line: line,
		Map:  view.NewMiniMap(&from, &to, res.Line),
	})
}

// Feedback handles POST /api/dispatch/feedback.
func (h *DispatchHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	if err := h.uc.Feedback(r.Context(), req.LoadID, domain.Verdict(strings.TrimSpace(req.Verdict))); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func pointFromQuery(r *http.Request, prefix string) (domain.LatLon, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get(prefix+"_lat"), 64)
	if err != nil {
		return domain.LatLon{}, errors.New("invalid " + prefix + "_lat")
	}
	lon, err := strconv.ParseFloat(q.Get(prefix+"_lon"), 64)
	if err != nil {
		return domain.LatLon{}, errors.New("invalid " + prefix + "_lon")
	}
	return domain.LatLon{Lat: lat, Lon: lon}, nil
}
