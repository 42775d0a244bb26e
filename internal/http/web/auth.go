package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/http/middleware"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/service/auth"
)

// Sign-in messages.
const (
	InvalidLinkMessage  = "Sign-in link is invalid or expired."
	RateLimitedMessage  = "Too many sign-in attempts. Please wait a minute and try again."
	sendFailedMessage   = "Could not send the magic link. Please try again."
	verifyFailedMessage = "Sign-in failed. Please try again."
)

type loginPage struct {
	layoutData
	EmailInput string
	Redirect   string
	Sent       bool
}

func (p *Pages) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginPage) {
	data.Title = "Sign in"
	data.Email = ""
	p.render(w, r, status, pageLogin, data)
}

// Login handles GET /login. A live session skips straight to the redirect.
func (p *Pages) Login(w http.ResponseWriter, r *http.Request) {
	next := auth.SafeRedirect(r.URL.Query().Get("redirect"))
	if c, err := r.Cookie(p.opts.CookieName); err == nil && c.Value != "" {
		if s, err := p.auth.Session(r.Context(), c.Value); err == nil && s != nil {
			http.Redirect(w, r, next, http.StatusSeeOther)
			return
		}
	}
	p.renderLogin(w, r, http.StatusOK, loginPage{Redirect: next})
}

// SignInRequired renders the sign-in page in place of a gated page.
func (p *Pages) SignInRequired(w http.ResponseWriter, r *http.Request) {
	next := "/loads"
	if r.Method == http.MethodGet {
		next = auth.SafeRedirect(r.URL.RequestURI())
	}
	p.renderLogin(w, r, http.StatusUnauthorized, loginPage{Redirect: next})
}

// RateLimited rejects a throttled sign-in request.
func (p *Pages) RateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	p.renderLogin(w, r, http.StatusTooManyRequests, loginPage{
		layoutData: layoutData{Error: RateLimitedMessage},
		EmailInput: r.PostFormValue("email"),
		Redirect:   auth.SafeRedirect(r.PostFormValue("redirect")),
	})
}

// MagicLink handles POST /auth/magic-link.
func (p *Pages) MagicLink(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	data := loginPage{
		EmailInput: r.PostForm.Get("email"),
		Redirect:   auth.SafeRedirect(r.PostForm.Get("redirect")),
	}

	err := p.auth.SignInWithOTP(r.Context(), data.EmailInput, data.Redirect)
	switch {
	case err == nil:
		data.Sent = true
		data.Flash = auth.LinkSentMessage
		p.renderLogin(w, r, http.StatusOK, data)
	case errors.Is(err, apperr.ErrInvalid):
		data.Error = apperr.Message(err)
		p.renderLogin(w, r, http.StatusBadRequest, data)
	default:
		p.logger.Error("send magic link failed", logx.Err(err))
		data.Error = sendFailedMessage
		p.renderLogin(w, r, http.StatusInternalServerError, data)
	}
}

// Callback handles GET /auth/callback: it redeems the link and sets the
// session cookie.
func (p *Pages) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	next := auth.SafeRedirect(q.Get("redirect"))

	s, err := p.auth.Verify(r.Context(), q.Get("token"))
	if err != nil {
		status, msg := http.StatusUnauthorized, InvalidLinkMessage
		if !auth.IsUnauthorized(err) {
			p.logger.Error("verify magic link failed", logx.Err(err))
			status, msg = http.StatusInternalServerError, verifyFailedMessage
		} else {
			p.logger.Info("magic link rejected", logx.Err(err))
		}
		p.renderLogin(w, r, status, loginPage{layoutData: layoutData{Error: msg}, Redirect: next})
		return
	}

	http.SetCookie(w, p.sessionCookie(s))
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// SignOut handles POST /auth/sign-out.
func (p *Pages) SignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(p.opts.CookieName); err == nil && c.Value != "" {
		if err := p.auth.SignOut(r.Context(), c.Value); err != nil {
			p.logger.Error("sign out failed", logx.Err(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     p.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (p *Pages) sessionCookie(s *domain.Session) *http.Cookie {
	return &http.Cookie{
		Name:     p.opts.CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   p.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Events handles GET /auth/events, a server-sent event stream that tells the
// page when its session ends.
func (p *Pages) Events(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		p.logger.Debug("sse: write deadline not cleared", logx.Err(err))
	}

	changes, unsubscribe := p.auth.Subscribe()
	defer unsubscribe()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	send := func(frame string) bool {
		if _, err := fmt.Fprint(w, frame); err != nil {
			return false
		}
		return rc.Flush() == nil
	}
	if !send(": connected\n\n") {
		return
	}

	ticker := time.NewTicker(p.opts.KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !send(": keep-alive\n\n") {
				return
			}
		case c, ok := <-changes:
			if !ok {
				return
			}
			if c.Kind == domain.SessionSignedOut && c.Token == s.Token {
				send("event: signed_out\ndata: {}\n\n")
				return
			}
		}
	}
}
