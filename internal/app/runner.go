package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"dispatcherhub/internal/config"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/repository"
)

// Runner runs the HTTP server
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	_ = container.Invoke(func(logger logx.Logger) {
		switch {
		case errors.Is(err, context.Canceled):
			logger.Info("shutdown requested, exiting")
		case errors.Is(err, context.DeadlineExceeded):
			logger.Warn("startup aborted: startup timeout exceeded")
		default:
			logger.Error("run error", logx.Err(err))
			panic(err)
		}
	})
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

type runIn struct {
	dig.In

	Ctx      context.Context
	Config   *config.Config
	Logger   logx.Logger
	Server   *http.Server
	Pprof    *http.Server `name:"pprof_server" optional:"true"`
	Pool     *pgxpool.Pool
	Sessions *repository.AuthRepo
	Closer   publisherCloser
}

func appRun(in runIn) error {
	errCh := startServer(in.Server, in.Logger)
	if in.Pprof != nil {
		startPprofServer(in.Pprof, in.Logger)
	}
	startSessionCleanupLoop(in.Ctx, in.Logger, in.Sessions, in.Config.Auth.CleanupInterval)

	var err error
	select {
	case <-in.Ctx.Done():
		in.Logger.Info("shutting down dispatcherhub")
		err = in.Ctx.Err()
	case err = <-errCh:
		in.Logger.Error("listen error", logx.Err(err))
	}

	gracefulShutdown(in.Server, in.Logger, 15*time.Second)
	if in.Pprof != nil {
		gracefulShutdown(in.Pprof, in.Logger, time.Second)
	}
	closeResources(in.Pool, in.Closer, in.Logger)
	return err
}

func startServer(server *http.Server, logger logx.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("dispatcherhub listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

// startPprofServer logs listen failures without stopping the app.
func startPprofServer(server *http.Server, logger logx.Logger) {
	go func() {
		logger.Info("pprof listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof listen error", logx.Err(err))
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, closer publisherCloser, logger logx.Logger) {
	if closer != nil {
		if err := closer(); err != nil {
			logger.Error("publisher close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}

type sessionPurger interface {
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// startSessionCleanupLoop purges expired sessions every interval until ctx is done.
func startSessionCleanupLoop(ctx context.Context, logger logx.Logger, purger sessionPurger, interval time.Duration) {
	if purger == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := purger.DeleteExpiredSessions(ctx, time.Now().UTC())
				if err != nil {
					if ctx.Err() == nil {
						logger.Warn("session cleanup failed", logx.Err(err))
					}
					continue
				}
				if n > 0 {
					logger.Info("expired sessions purged", logx.Int64("count", n))
				}
			}
		}
	}()
}
