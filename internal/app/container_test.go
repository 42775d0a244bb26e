package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"dispatcherhub/internal/config"
	"dispatcherhub/internal/events"
	"dispatcherhub/internal/http/handlers"
	"dispatcherhub/internal/http/web"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/mailer"
	"dispatcherhub/internal/service/auth"
	"dispatcherhub/internal/service/dispatch"
	"dispatcherhub/internal/service/loads"
	"dispatcherhub/internal/transport/kafka"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:      8080,
		PublicURL: "http://localhost:8080",
		DisplayTZ: time.UTC,
		DB: config.DB{
			Host: "localhost",
			Port: "5432",
			User: "user",
			Pass: "pass",
			Name: "db",
		},
		DispatchAPI: config.DispatchAPI{BaseURL: "http://dispatch.invalid"},
		Auth: config.Auth{
			Secret:          "secret",
			LinkTTL:         15 * time.Minute,
			SessionTTL:      24 * time.Hour,
			CookieName:      "dh_session",
			CleanupInterval: time.Hour,
		},
		RateLimit: config.RateLimit{Enabled: true, Rate: 1, Burst: 5, TTL: time.Minute, MaxBuckets: 100},
		Log:       config.Log{Level: "info", Format: "json"},
	}
}

func stubConnect(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
	return &pgxpool.Pool{}, nil
}

func noMigrate(context.Context, *pgxpool.Pool) error { return nil }

func newTestBuilder(cfg *config.Config) *ContainerBuilder {
	return NewContainerBuilder().
		WithConfig(func() (*config.Config, error) { return cfg, nil }).
		WithDBConnect(stubConnect).
		WithMigrate(noMigrate)
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "provide app.bad")
}

func TestRegisterCore_ProvidesDependencies(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()
	cfg := testConfig()

	err := registerCore(c, ctx, func() (*config.Config, error) { return cfg, nil })
	require.NoError(t, err)

	err = c.Invoke(func(
		gotCtx context.Context,
		gotCfg *config.Config,
		logger logx.Logger,
		timeout time.Duration,
		reg *prometheus.Registry,
	) {
		require.Equal(t, ctx, gotCtx)
		require.Same(t, cfg, gotCfg)
		require.NotNil(t, logger)
		require.Equal(t, 3*time.Second, timeout)
		require.NotNil(t, reg)
	})
	require.NoError(t, err)
}

func TestRegisterCore_ConfigError(t *testing.T) {
	t.Parallel()

	c := dig.New()
	require.NoError(t, registerCore(c, context.Background(), func() (*config.Config, error) {
		return nil, errors.New("bad env")
	}))

	err := c.Invoke(func(*config.Config) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad env")
}

func TestRegisterDb_UsesDbConnectAndProvidesPool(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()
	cfg := testConfig()

	require.NoError(t, c.Provide(func() context.Context { return ctx }))
	require.NoError(t, c.Provide(func() *config.Config { return cfg }))
	require.NoError(t, c.Provide(logx.Nop))

	stubPool := &pgxpool.Pool{}
	migrated := false

	connect := func(
		gotCtx context.Context,
		_ logx.Logger,
		dsn string,
		retries int,
		delay time.Duration,
	) (*pgxpool.Pool, error) {
		require.Equal(t, ctx, gotCtx)
		require.Equal(t, cfg.DB.DSN(), dsn)
		require.Equal(t, 10, retries)
		require.Equal(t, time.Second, delay)
		return stubPool, nil
	}
	migrate := func(_ context.Context, pool *pgxpool.Pool) error {
		require.Same(t, stubPool, pool)
		migrated = true
		return nil
	}

	require.NoError(t, registerDb(c, connect, migrate))

	err := c.Invoke(func(pool *pgxpool.Pool) {
		require.Same(t, stubPool, pool)
	})
	require.NoError(t, err)
	require.True(t, migrated)
}

func TestContainerBuilder_Build_Success(t *testing.T) {
	t.Parallel()

	c, err := newTestBuilder(testConfig()).build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	err = c.Invoke(func(
		pool *pgxpool.Pool,
		srv *http.Server,
		base *handlers.Handlers,
		lh *handlers.LoadHandler,
		dh *handlers.DispatchHandler,
		pages *web.Pages,
		svc *loads.Service,
		panel *dispatch.Panel,
		authSvc *auth.Service,
	) {
		require.NotNil(t, pool)
		require.Equal(t, ":8080", srv.Addr)
		require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
		require.Greater(t, srv.WriteTimeout, time.Duration(0))
		require.Greater(t, srv.IdleTimeout, time.Duration(0))
		require.NotNil(t, srv.Handler)
		require.NotNil(t, base)
		require.NotNil(t, lh)
		require.NotNil(t, dh)
		require.NotNil(t, pages)
		require.NotNil(t, svc)
		require.NotNil(t, panel)
		require.NotNil(t, authSvc)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_Build_DBError(t *testing.T) {
	t.Parallel()

	builder := newTestBuilder(testConfig()).
		WithDBConnect(func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
			return nil, errors.New("db failed")
		})

	c, err := builder.build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	err = c.Invoke(func(*pgxpool.Pool) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "db failed")
}

func TestContainerBuilder_MustBuild_DoesNotCallFatal(t *testing.T) {
	t.Parallel()

	builder := newTestBuilder(testConfig()).
		WithLogFatalf(func(format string, args ...interface{}) {
			require.FailNowf(t, "logFatalf must not be called", format, args...)
		})

	c := builder.MustBuild(context.Background())
	require.NotNil(t, c)
}

func TestProvidePublisher_InProcessWithoutKafka(t *testing.T) {
	t.Parallel()

	c, err := newTestBuilder(testConfig()).build(context.Background())
	require.NoError(t, err)

	err = c.Invoke(func(pub events.Publisher, closer publisherCloser) {
		_, isFunc := pub.(events.Func)
		require.True(t, isFunc)
		require.NoError(t, closer())
	})
	require.NoError(t, err)
}

func TestProvideMailer(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	_, isLog := provideMailer(cfg, logx.Nop()).(*mailer.LogMailer)
	require.True(t, isLog)

	cfg.SMTP = config.SMTP{Host: "smtp.example.com", Port: 587, From: "hub@example.com"}
	_, isSMTP := provideMailer(cfg, logx.Nop()).(*mailer.SMTPMailer)
	require.True(t, isSMTP)
}

func TestContainerBuilder_BuildWorker_ProvidesConsumer(t *testing.T) {
	t.Parallel()

	c, err := newTestBuilder(testConfig()).buildWorker(context.Background())
	require.NoError(t, err)

	// Without brokers the consumer is nil and the worker refuses to start.
	err = c.Invoke(func(consumer *kafka.Consumer, h kafka.HandleFunc) {
		require.Nil(t, consumer)
		require.NotNil(t, h)
	})
	require.NoError(t, err)
}

type httpServersIn struct {
	dig.In

	Main  *http.Server
	Pprof *http.Server `name:"pprof_server" optional:"true"`
}

func TestRegisterHTTP_PprofDisabled_ReturnsNilPprofServer(t *testing.T) {
	t.Parallel()

	c, err := newTestBuilder(testConfig()).build(context.Background())
	require.NoError(t, err)

	err = c.Invoke(func(in httpServersIn) {
		require.NotNil(t, in.Main)
		require.Equal(t, ":8080", in.Main.Addr)
		require.Nil(t, in.Pprof)
	})
	require.NoError(t, err)
}

func TestRegisterHTTP_PprofEnabled_ProvidesPprofServer(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Pprof = config.Pprof{Enabled: true, Addr: "127.0.0.1:6060", User: "u", Pass: "p"}

	c, err := newTestBuilder(cfg).build(context.Background())
	require.NoError(t, err)

	err = c.Invoke(func(in httpServersIn) {
		require.NotNil(t, in.Main)
		require.NotNil(t, in.Pprof)
		require.Equal(t, "127.0.0.1:6060", in.Pprof.Addr)
		require.NotNil(t, in.Pprof.Handler)
	})
	require.NoError(t, err)
}
