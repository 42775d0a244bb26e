//go:build integration

package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"dispatcherhub/internal/app"
	"dispatcherhub/internal/config"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/repository"
)

func startPostgres(t *testing.T) config.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dispatcherhub"),
		postgres.WithUsername("hub"),
		postgres.WithPassword("hub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DB{Host: host, Port: port.Port(), User: "hub", Pass: "hub", Name: "dispatcherhub"}
}

func TestContainer_LoadLifecycleInvoicesInProcess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := &config.Config{
		Port:      0,
		PublicURL: "http://localhost",
		DisplayTZ: time.UTC,
		DB:        startPostgres(t),
		Auth: config.Auth{
			Secret:          "integration-secret",
			LinkTTL:         15 * time.Minute,
			SessionTTL:      time.Hour,
			CookieName:      "dh_session",
			CleanupInterval: time.Hour,
		},
		Invoicing: config.Invoicing{Factoring: true},
		Log:       config.Log{Level: "warn"},
	}

	c := app.NewContainerBuilder().
		WithConfig(func() (*config.Config, error) { return cfg, nil }).
		MustBuild(ctx)

	err := c.Invoke(func(h http.Handler, pool *pgxpool.Pool) {
		defer pool.Close()

		token := uuid.NewString()
		now := time.Now().UTC()
		require.NoError(t, repository.NewAuthRepo(pool).CreateSession(ctx, domain.Session{
			Token: token, Email: "ops@example.com", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
		}))

		do := func(method, path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.AddCookie(&http.Cookie{Name: "dh_session", Value: token})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec
		}

		rec := do(http.MethodPost, "/api/loads", `{"origin":"Dallas, TX","destination":"Denver, CO","rate":"2400"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = do(http.MethodPatch, "/api/loads/"+strconv.FormatInt(created.ID, 10)+"/status", `{"status":"invoiced"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(http.MethodGet, "/api/invoices", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var invoices []struct {
			LoadID    int64   `json:"load_id"`
			Amount    float64 `json:"amount"`
			Factoring bool    `json:"factoring"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoices))
		require.Len(t, invoices, 1)
		require.Equal(t, created.ID, invoices[0].LoadID)
		require.InDelta(t, 2400, invoices[0].Amount, 0)
		require.True(t, invoices[0].Factoring)
	})
	require.NoError(t, err)
}
