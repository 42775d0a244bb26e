package ratelimit

import (
	"io"
	"net"
	"net/http"
	"net/netip"

	"github.com/prometheus/client_golang/prometheus"

	"dispatcherhub/internal/logx"
)

// KeyFunc derives the limiter key of a request.
type KeyFunc func(r *http.Request) string

// RejectFunc writes the response for a limited request.
type RejectFunc func(w http.ResponseWriter, r *http.Request)

// Middleware rejects requests whose key ran out of tokens.
type Middleware struct {
	logger  logx.Logger
	counter prometheus.Counter
	limiter Limiter
	key     KeyFunc
	reject  RejectFunc
}

// Option customizes a Middleware.
type Option func(*Middleware)

// WithKey replaces the default client IP key.
func WithKey(fn KeyFunc) Option { return func(m *Middleware) { m.key = fn } }

// WithReject replaces the default JSON 429 response.
func WithReject(fn RejectFunc) Option { return func(m *Middleware) { m.reject = fn } }

// New creates a Middleware. A nil limiter allows everything.
func New(logger logx.Logger, counter prometheus.Counter, limiter Limiter, opts ...Option) *Middleware {
	if limiter == nil {
		limiter = NopLimiter{}
	}
	m := &Middleware{
		logger:  logger,
		counter: counter,
		limiter: limiter,
		key:     ClientIP,
	}
	m.reject = m.rejectJSON
	for _, o := range opts {
		o(m)
	}
	return m
}

// Handler returns chi-style middleware.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := m.key(r)
			if m.limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			if m.counter != nil {
				m.counter.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("key", key),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", "1")
			m.reject(w, r)
		})
	}
}

func (m *Middleware) rejectJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	if _, err := io.WriteString(w, `{"error":"too many requests"}`); err != nil {
		m.logger.Debug("rate limit response write failed", logx.Err(err))
	}
}

// ClientIP returns the normalized remote address of r, or "unknown".
func ClientIP(r *http.Request) string {
	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return ap.Addr().Unmap().String()
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if a, err := netip.ParseAddr(r.RemoteAddr); err == nil {
		return a.Unmap().String()
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
