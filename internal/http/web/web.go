// Package web renders the HTML dashboard: loads, invoices, the AI dispatch
// panel and the magic-link sign-in pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/http/middleware"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pageLoads    = "loads.html"
	pageInvoices = "invoices.html"
	pageDispatch = "ai_dispatch.html"
	pageLogin    = "login.html"
)

const defaultKeepAlive = 25 * time.Second

// Options configure the pages.
type Options struct {
	CookieName   string
	CookieSecure bool
	Location     *time.Location
	KeepAlive    time.Duration
}

// Pages serves the dashboard.
type Pages struct {
	logger   logx.Logger
	loads    LoadsUsecase
	invoices InvoicesUsecase
	dispatch DispatchUsecase
	auth     AuthUsecase
	opts     Options
	tmpl     map[string]*template.Template
}

// New parses the embedded templates and returns the pages.
func New(logger logx.Logger, l LoadsUsecase, inv InvoicesUsecase, d DispatchUsecase, a AuthUsecase, opts Options) (*Pages, error) {
	if logger == nil {
		logger = logx.Nop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = defaultKeepAlive
	}
	if opts.CookieName == "" {
		opts.CookieName = "dh_session"
	}

	p := &Pages{
		logger:   logger,
		loads:    l,
		invoices: inv,
		dispatch: d,
		auth:     a,
		opts:     opts,
		tmpl:     make(map[string]*template.Template),
	}

	funcs := templateFuncs(opts.Location)
	for _, page := range []string{pageLoads, pageInvoices, pageDispatch, pageLogin} {
		t, err := template.New(page).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		p.tmpl[page] = t
	}
	return p, nil
}

func templateFuncs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"money":         view.Money,
		"loadBadge":     view.LoadBadgeClass,
		"dispatchBadge": view.DispatchBadgeClass,
		"badgeLabel":    func(v any) string { return view.BadgeLabel(fmt.Sprint(v)) },
		"yesNo":         view.YesNo,
		"paidAt":        view.PaidAt,
		"localTime":     func(t time.Time) string { return view.LocaleTimestamp(t, loc) },
		"coords":        func(p domain.LatLon) string { return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon) },
		"number":        func(v float64) string { return fmt.Sprintf("%.1f", v) },
	}
}

// layoutData is what the shared layout reads.
type layoutData struct {
	Title  string
	Active string
	Email  string
	Flash  string
	Error  string
}

func (p *Pages) layout(r *http.Request, title, active string) layoutData {
	d := layoutData{Title: title, Active: active}
	if s, ok := middleware.SessionFrom(r.Context()); ok {
		d.Email = s.Email
	}
	q := r.URL.Query()
	d.Flash = q.Get("msg")
	d.Error = q.Get("err")
	return d
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	t, ok := p.tmpl[page]
	if !ok {
		p.logger.Error("unknown template", logx.String("page", page))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		p.logger.Error("render template failed",
			logx.String("page", page),
			logx.String("path", r.URL.Path),
			logx.Err(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// redirect answers 303 to path with the given query.
func redirect(w http.ResponseWriter, r *http.Request, path string, q url.Values) {
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// Root sends / to the loads page.
func (p *Pages) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/loads", http.StatusFound)
}
