package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"dispatcherhub/internal/http/handlers"
	"dispatcherhub/internal/http/middleware"
	"dispatcherhub/internal/http/web"
	"dispatcherhub/internal/logx"
)

const defaultTimeout = 15 * time.Second

// Handlers groups everything the router mounts.
type Handlers struct {
	Base     *handlers.Handlers
	Loads    *handlers.LoadHandler
	Invoices *handlers.InvoiceHandler
	Dispatch *handlers.DispatchHandler
	Session  *handlers.SessionHandler
	Pages    *web.Pages
}

// Options wire the cross-cutting pieces.
type Options struct {
	Sessions    middleware.SessionResolver
	CookieName  string
	HTTPMetrics *middleware.HTTPMetrics
	// Metrics serves GET /metrics; nil leaves the route out.
	Metrics http.Handler
	// SignInLimit throttles POST /auth/magic-link; nil means unlimited.
	SignInLimit func(http.Handler) http.Handler
	Timeout     time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(logger logx.Logger, h Handlers, opts Options) http.Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPMetrics == nil {
		opts.HTTPMetrics = middleware.NewHTTPMetrics(nil)
	}
	if opts.SignInLimit == nil {
		opts.SignInLimit = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Observability(logger, opts.HTTPMetrics))
	r.Use(chimw.Recoverer)

	r.Get("/ping", h.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.Base.HealthcheckHead))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.NotFound(http.HandlerFunc(h.Base.NotFound))

	htmlGate := middleware.SessionGate(logger, opts.Sessions, opts.CookieName, http.HandlerFunc(h.Pages.SignInRequired))
	apiGate := middleware.SessionGate(logger, opts.Sessions, opts.CookieName, http.HandlerFunc(h.Base.Unauthorized))

	// the event stream stays open, so it is the only route without a timeout
	r.With(htmlGate).Get("/auth/events", h.Pages.Events)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(opts.Timeout))

		r.Get("/login", h.Pages.Login)
		r.With(opts.SignInLimit).Post("/auth/magic-link", h.Pages.MagicLink)
		r.Get("/auth/callback", h.Pages.Callback)
		r.Post("/auth/sign-out", h.Pages.SignOut)

		r.Group(func(r chi.Router) {
			r.Use(htmlGate)

			r.Get("/", h.Pages.Root)
			r.Get("/loads", h.Pages.Loads)
			r.Post("/loads", h.Pages.CreateLoad)
			r.Post("/loads/{id}/status", h.Pages.UpdateLoadStatus)
			r.Post("/loads/{id}/deliver", h.Pages.MarkDelivered)
			r.Get("/invoices", h.Pages.Invoices)
			r.Get("/ai-dispatch", h.Pages.AIDispatch)
			r.Post("/ai-dispatch/seed", h.Pages.Seed)
			r.Post("/ai-dispatch/loads/{id}/status", h.Pages.SetDispatchStatus)
			r.Post("/ai-dispatch/loads/{id}/feedback", h.Pages.Feedback)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(apiGate)

			r.Get("/session", h.Session.Get)
			r.Get("/loads", h.Loads.List)
			r.Post("/loads", h.Loads.Create)
			r.Patch("/loads/{id}/status", h.Loads.UpdateStatus)
			r.Get("/invoices", h.Invoices.List)

			r.Route("/dispatch", func(r chi.Router) {
				r.Get("/health", h.Dispatch.Health)
				r.Get("/loads", h.Dispatch.Loads)
				r.Post("/seed", h.Dispatch.Seed)
				r.Patch("/loads/{id}/status", h.Dispatch.SetStatus)
				r.Get("/route", h.Dispatch.Route)
				r.Post("/feedback", h.Dispatch.Feedback)
			})
		})
	})

	return r
}
