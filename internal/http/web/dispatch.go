package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/view"
)

type dispatchPage struct {
	layoutData
	Health     string
	Loads      []domain.DispatchLoad
	Open       *domain.DispatchLoad
	ETA        *domain.ETA
	RouteError string
	Map        *view.MiniMap
}

func (p *Pages) dispatchPage(r *http.Request) dispatchPage {
	return dispatchPage{
		layoutData: p.layout(r, "AI Dispatch", "ai-dispatch"),
		Health:     p.dispatch.Health(r.Context()),
	}
}

func fetchError(err error) string {
	return "Failed to fetch: " + err.Error()
}

// openPanel fills the side panel for load id, computing the route when asked.
func (p *Pages) openPanel(ctx context.Context, data *dispatchPage, id string, withRoute bool) {
	if id == "" {
		return
	}
	for i := range data.Loads {
		if data.Loads[i].ID != id {
			continue
		}
		l := data.Loads[i]
		data.Open = &l
		m := view.NewMiniMap(&l.Pickup, &l.Drop, nil)
		data.Map = &m

		if !withRoute {
			return
		}
		res, err := p.dispatch.RouteFor(ctx, l)
		if err != nil {
			data.RouteError = "ETA/route failed: " + err.Error()
			return
		}
		data.ETA = &res.ETA
		m = view.NewMiniMap(&l.Pickup, &l.Drop, res.Line)
		data.Map = &m
		return
	}
}

// AIDispatch handles GET /ai-dispatch.
func (p *Pages) AIDispatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := p.dispatchPage(r)

	items, err := p.dispatch.Loads(r.Context())
	if err != nil {
		data.Error = fetchError(err)
	}
	data.Loads = items
	p.openPanel(r.Context(), &data, q.Get("open"), q.Get("route") == "1")

	p.render(w, r, http.StatusOK, pageDispatch, data)
}

// Seed handles POST /ai-dispatch/seed. The page is rendered from the seed's
// own re-list.
func (p *Pages) Seed(w http.ResponseWriter, r *http.Request) {
	data := p.dispatchPage(r)

	res, err := p.dispatch.Seed(r.Context())
	switch {
	case errors.Is(err, apperr.ErrBusy):
		data.Error = "Seeding is already in progress."
		data.Loads, err = p.dispatch.Loads(r.Context())
		if err != nil {
			data.Error = fetchError(err)
		}
	case err != nil:
		data.Error = fetchError(err)
	default:
		data.Loads = res.Loads
	}

	if res.Created > 0 || len(res.Failed) > 0 {
		data.Flash = fmt.Sprintf("Seeded %d loads.", res.Created)
	}
	if len(res.Failed) > 0 {
		msgs := make([]string, 0, len(res.Failed))
		for _, e := range res.Failed {
			msgs = append(msgs, e.Error())
		}
		data.Error = strings.TrimSpace(data.Error + " " +
			fmt.Sprintf("%d seed loads failed: %s", len(res.Failed), strings.Join(msgs, "; ")))
	}

	p.render(w, r, http.StatusOK, pageDispatch, data)
}

// SetDispatchStatus handles POST /ai-dispatch/loads/{id}/status.
func (p *Pages) SetDispatchStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	status := domain.DispatchStatus(strings.TrimSpace(r.PostForm.Get("status")))
	data := p.dispatchPage(r)

	res, err := p.dispatch.SetStatus(r.Context(), id, status)
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		data.Error = "Status must be in_transit or delivered."
		data.Loads, err = p.dispatch.Loads(r.Context())
	case errors.Is(err, apperr.ErrBusy):
		data.Error = "A status update is already in progress."
		data.Loads, err = p.dispatch.Loads(r.Context())
	default:
		data.Loads = res.Loads
		if res.Failed != nil {
			data.Error = "Status update failed: " + res.Failed.Error()
		} else {
			data.Flash = fmt.Sprintf("Load %s -> %s", id, status)
		}
	}
	if err != nil {
		data.Error = strings.TrimSpace(data.Error + " " + fetchError(err))
	}
	p.openPanel(r.Context(), &data, id, false)

	p.render(w, r, http.StatusOK, pageDispatch, data)
}

// Feedback handles POST /ai-dispatch/loads/{id}/feedback.
func (p *Pages) Feedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	v := domain.Verdict(strings.TrimSpace(r.PostForm.Get("verdict")))

	q := url.Values{"open": {id}}
	if err := p.dispatch.Feedback(r.Context(), id, v); err != nil {
		q.Set("err", "Invalid feedback.")
	}
	redirect(w, r, "/ai-dispatch", q)
}
