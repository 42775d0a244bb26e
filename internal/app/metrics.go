package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	"dispatcherhub/internal/http/middleware"
	"dispatcherhub/internal/metrics"
)

type metricsOut struct {
	dig.Out

	Registry               *prometheus.Registry
	Domain                 *metrics.Domain
	HTTP                   *middleware.HTTPMetrics
	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
}

// provideMetrics builds a registry per container so that several containers
// can live in one process.
func provideMetrics() (metricsOut, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rl, err := registerCounter(reg, metrics.NewRateLimitExceededTotal())
	if err != nil {
		return metricsOut{}, fmt.Errorf("register rate_limit_exceeded_total: %w", err)
	}

	return metricsOut{
		Registry:               reg,
		Domain:                 metrics.NewDomain(reg),
		HTTP:                   middleware.NewHTTPMetrics(reg),
		RateLimitExceededTotal: rl,
	}, nil
}

// registerCounter registers c, or returns the counter already registered under its name.
func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}
