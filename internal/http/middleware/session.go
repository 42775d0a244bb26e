package middleware

import (
	"context"
	"net/http"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/logx"
)

// SessionResolver looks up the live session of a cookie token.
type SessionResolver interface {
	Session(ctx context.Context, token string) (*domain.Session, error)
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored by SessionGate, if any.
func SessionFrom(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*domain.Session)
	return s, ok && s != nil
}

// SessionGate lets a request through only with a live session cookie. Absent,
// expired and unreadable sessions all go to onMissing.
func SessionGate(logger logx.Logger, resolver SessionResolver, cookieName string, onMissing http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				onMissing.ServeHTTP(w, r)
				return
			}

			s, err := resolver.Session(r.Context(), c.Value)
			if err != nil {
				logger.Warn("session lookup failed", logx.Err(err))
			}
			if s == nil {
				onMissing.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}
