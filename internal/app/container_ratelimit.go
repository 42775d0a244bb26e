package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"dispatcherhub/internal/config"
	"dispatcherhub/internal/http/middleware/ratelimit"
	"dispatcherhub/internal/http/web"
	"dispatcherhub/internal/logx"
)

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

type rateLimitIn struct {
	dig.In
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
	Pages   *web.Pages
}

// signInLimit throttles magic-link requests per client IP and answers with the login page.
type signInLimit func(http.Handler) http.Handler

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter,
		ratelimit.WithKey(ratelimit.ClientIP),
		ratelimit.WithReject(in.Pages.RateLimited),
	)
}

func newSignInLimit(m *ratelimit.Middleware) signInLimit {
	return m.Handler()
}
