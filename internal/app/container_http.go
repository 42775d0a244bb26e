package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"dispatcherhub/internal/config"
	"dispatcherhub/internal/http/handlers"
	"dispatcherhub/internal/http/middleware"
	"dispatcherhub/internal/http/pprofserver"
	"dispatcherhub/internal/http/router"
	"dispatcherhub/internal/http/web"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/service/auth"
	"dispatcherhub/internal/service/dispatch"
	"dispatcherhub/internal/service/invoices"
	"dispatcherhub/internal/service/loads"
)

func providePages(
	cfg *config.Config,
	logger logx.Logger,
	l *loads.Service,
	inv *invoices.Service,
	d *dispatch.Panel,
	a *auth.Service,
) (*web.Pages, error) {
	return web.New(logger, l, inv, d, a, web.Options{
		CookieName:   cfg.Auth.CookieName,
		CookieSecure: cfg.Auth.CookieSecure,
		Location:     cfg.DisplayTZ,
	})
}

type routerIn struct {
	dig.In

	Config      *config.Config
	Logger      logx.Logger
	Registry    *prometheus.Registry
	HTTPMetrics *middleware.HTTPMetrics
	Sessions    *auth.Service
	SignInLimit signInLimit

	Base     *handlers.Handlers
	Loads    *handlers.LoadHandler
	Invoices *handlers.InvoiceHandler
	Dispatch *handlers.DispatchHandler
	Session  *handlers.SessionHandler
	Pages    *web.Pages
}

func provideRouter(in routerIn) http.Handler {
	return router.New(in.Logger, router.Handlers{
		Base:     in.Base,
		Loads:    in.Loads,
		Invoices: in.Invoices,
		Dispatch: in.Dispatch,
		Session:  in.Session,
		Pages:    in.Pages,
	}, router.Options{
		Sessions:    in.Sessions,
		CookieName:  in.Config.Auth.CookieName,
		HTTPMetrics: in.HTTPMetrics,
		Metrics:     promhttp.HandlerFor(in.Registry, promhttp.HandlerOpts{}),
		SignInLimit: in.SignInLimit,
	})
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

// providePprofServer returns a nil server when profiling is off.
func providePprofServer(cfg *config.Config) pprofOut {
	if !cfg.Pprof.Enabled {
		return pprofOut{}
	}
	return pprofOut{Server: pprofserver.NewServer(pprofserver.Config{
		Addr: cfg.Pprof.Addr,
		User: cfg.Pprof.User,
		Pass: cfg.Pprof.Pass,
	})}
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		func(logger logx.Logger, pool *pgxpool.Pool) *handlers.Handlers {
			return handlers.New(logger, pool.Ping)
		},
		func(logger logx.Logger, svc *loads.Service) *handlers.LoadHandler {
			return handlers.NewLoadHandler(logger, svc)
		},
		func(logger logx.Logger, svc *invoices.Service) *handlers.InvoiceHandler {
			return handlers.NewInvoiceHandler(logger, svc)
		},
		func(logger logx.Logger, panel *dispatch.Panel) *handlers.DispatchHandler {
			return handlers.NewDispatchHandler(logger, panel)
		},
		handlers.NewSessionHandler,
		providePages,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newSignInLimit,
		provideRouter,
		serverProvider,
		providePprofServer,
	)
}
