// Package pprofserver serves runtime profiles on a separate listener.
package pprofserver

import (
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const realm = "dispatcherhub-debug"

// Config stores debug listener settings. Empty credentials leave the
// profiles reachable from loopback only.
type Config struct {
	Addr string
	User string
	Pass string
}

// Handler mounts chi's profiler under /debug.
func Handler(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(loopbackOr(credentials(cfg)))
	r.Mount("/debug", chimw.Profiler())
	return r
}

// NewServer returns the debug http.Server. Profiles stream for up to 30s,
// so the write timeout is longer than the main server's.
func NewServer(cfg Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           Handler(cfg),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func credentials(cfg Config) func(http.Handler) http.Handler {
	if cfg.User == "" || cfg.Pass == "" {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`"`)
				w.WriteHeader(http.StatusUnauthorized)
			})
		}
	}
	return chimw.BasicAuth(realm, map[string]string{cfg.User: cfg.Pass})
}

// loopbackOr lets local callers through and sends everyone else via guard.
func loopbackOr(guard func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := guard(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Unmap().IsLoopback()
}
