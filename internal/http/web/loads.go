package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/service/loads"
)

type loadForm struct {
	Origin      string
	Destination string
	Rate        string
	Status      domain.LoadStatus
}

type loadsPage struct {
	layoutData
	Loads    []domain.Load
	Statuses []domain.LoadStatus
	Form     loadForm
}

func (p *Pages) loadsPage(r *http.Request) loadsPage {
	return loadsPage{
		layoutData: p.layout(r, "Loads", "loads"),
		Statuses:   domain.LoadStatuses(),
		Form:       loadForm{Status: domain.StatusBooked},
	}
}

func (p *Pages) fillLoads(r *http.Request, data *loadsPage) {
	items, err := p.loads.List(r.Context())
	if err != nil {
		p.logger.Error("list loads failed", logx.Err(err))
		data.Error = "Failed to load loads: " + err.Error()
		return
	}
	data.Loads = items
}

// Loads handles GET /loads.
func (p *Pages) Loads(w http.ResponseWriter, r *http.Request) {
	data := p.loadsPage(r)
	p.fillLoads(r, &data)
	p.render(w, r, http.StatusOK, pageLoads, data)
}

// CreateLoad handles POST /loads.
func (p *Pages) CreateLoad(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := loadForm{
		Origin:      r.PostForm.Get("origin"),
		Destination: r.PostForm.Get("destination"),
		Rate:        r.PostForm.Get("rate"),
		Status:      domain.LoadStatus(strings.TrimSpace(r.PostForm.Get("status"))),
	}

	id, err := p.loads.Create(r.Context(), loads.CreateLoadInput{
		Origin:      form.Origin,
		Destination: form.Destination,
		Rate:        form.Rate,
		Status:      form.Status,
	})
	if err != nil {
		data := p.loadsPage(r)
		data.Form = form
		if data.Form.Status == "" {
			data.Form.Status = domain.StatusBooked
		}
		status := http.StatusBadRequest
		if errors.Is(err, apperr.ErrInvalid) {
			data.Error = apperr.Message(err)
		} else {
			p.logger.Error("create load failed", logx.Err(err))
			data.Error = "Failed to create load: " + err.Error()
			status = http.StatusInternalServerError
		}
		p.fillLoads(r, &data)
		p.render(w, r, status, pageLoads, data)
		return
	}

	redirect(w, r, "/loads", url.Values{"msg": {fmt.Sprintf("Created load %d", id)}})
}

// UpdateLoadStatus handles POST /loads/{id}/status.
func (p *Pages) UpdateLoadStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := loadID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	status := domain.LoadStatus(strings.TrimSpace(r.PostForm.Get("status")))

	l, err := p.loads.UpdateStatus(r.Context(), id, status)
	p.afterStatusChange(w, r, id, l, err)
}

// MarkDelivered handles POST /loads/{id}/deliver.
func (p *Pages) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := loadID(w, r)
	if !ok {
		return
	}
	l, err := p.loads.MarkDelivered(r.Context(), id)
	p.afterStatusChange(w, r, id, l, err)
}

func (p *Pages) afterStatusChange(w http.ResponseWriter, r *http.Request, id int64, l domain.Load, err error) {
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			msg = fmt.Sprintf("Load %d not found.", id)
		case errors.Is(err, apperr.ErrIllegalTransition):
			msg = fmt.Sprintf("Load %d: %s.", id, err.Error())
		case errors.Is(err, apperr.ErrInvalid):
			msg = "Unknown status."
		default:
			p.logger.Error("update load status failed", logx.Int64("load_id", id), logx.Err(err))
			msg = "Failed to update load: " + err.Error()
		}
		redirect(w, r, "/loads", url.Values{"err": {msg}})
		return
	}
	redirect(w, r, "/loads", url.Values{"msg": {fmt.Sprintf("Updated load %d -> %s", id, l.Status)}})
}

func loadID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

type invoicesPage struct {
	layoutData
	Invoices []domain.Invoice
}

// Invoices handles GET /invoices.
func (p *Pages) Invoices(w http.ResponseWriter, r *http.Request) {
	data := invoicesPage{layoutData: p.layout(r, "Invoices", "invoices")}
	items, err := p.invoices.List(r.Context())
	if err != nil {
		p.logger.Error("list invoices failed", logx.Err(err))
		data.Error = "Failed to load invoices: " + err.Error()
	}
	data.Invoices = items
	p.render(w, r, http.StatusOK, pageInvoices, data)
}
