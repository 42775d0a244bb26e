package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/mailer"
)

const (
	issuer          = "dispatcherhub"
	defaultRedirect = "/loads"

	// LinkSentMessage is shown after a magic link was mailed.
	LinkSentMessage = "Check your email for the magic link."
)

// Repository stores links and sessions.
type Repository interface {
	SaveLink(ctx context.Context, jti, email string, expiresAt time.Time) error
	ConsumeLink(ctx context.Context, jti string, now time.Time) (string, error)
	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) (bool, error)
}

// Config holds auth settings.
type Config struct {
	Secret     string
	LinkTTL    time.Duration
	SessionTTL time.Duration
	PublicURL  string
	Timeout    time.Duration
}

// Service issues magic links and manages sessions.
type Service struct {
	repo   Repository
	mail   mailer.Mailer
	broker *Broker
	cfg    Config
	logger logx.Logger
	now    func() time.Time
}

// NewService creates an auth Service.
func NewService(repo Repository, m mailer.Mailer, broker *Broker, cfg Config, logger logx.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if broker == nil {
		broker = NewBroker()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	return &Service{
		repo:   repo,
		mail:   m,
		broker: broker,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

// SignInWithOTP mails a single-use sign-in link to email.
func (s *Service) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	now := s.now()
	jti := uuid.NewString()
	expiresAt := now.Add(s.cfg.LinkTTL)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   email,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return fmt.Errorf("sign link token: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.SaveLink(ctx, jti, email, expiresAt); err != nil {
		return err
	}

	q := url.Values{}
	q.Set("token", signed)
	q.Set("redirect", SafeRedirect(redirectTo))
	link := s.cfg.PublicURL + "/auth/callback?" + q.Encode()

	if err := s.mail.Send(ctx, mailer.Message{
		To:      email,
		Subject: "Your DispatcherHub sign-in link",
		Body:    "Sign in to DispatcherHub:\n\n" + link + "\n\nThe link expires in " + s.cfg.LinkTTL.String() + " and works once.\n",
	}); err != nil {
		return err
	}

	s.logger.Info("magic link issued", logx.String("email", email), logx.Time("expires_at", expiresAt))
	return nil
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if raw == "" || err != nil || addr.Address != raw {
		return "", apperr.Validation("Please enter a valid email address.")
	}
	return strings.ToLower(raw), nil
}

// SafeRedirect keeps only local absolute paths.
func SafeRedirect(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return defaultRedirect
	}
	return raw
}

// Verify redeems a magic-link token and opens a session.
func (s *Service) Verify(ctx context.Context, token string) (*domain.Session, error) {
	now := s.now()

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return nil, fmt.Errorf("%w: malformed link id", apperr.ErrUnauthorized)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	email, err := s.repo.ConsumeLink(ctx, claims.ID, now)
	if err != nil {
		return nil, err
	}
	if email == "" || email != claims.Subject {
		return nil, fmt.Errorf("%w: link already used or expired", apperr.ErrUnauthorized)
	}

	sess := domain.Session{
		Token:     uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	s.broker.Publish(domain.SessionChange{Kind: domain.SessionSignedIn, Token: sess.Token, Email: email})
	s.logger.Info("signed in", logx.String("email", email))
	return &sess, nil
}

// Session returns the live session for token, or nil when there is none.
func (s *Service) Session(ctx context.Context, token string) (*domain.Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sess, err := s.repo.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Expired(s.now()) {
		return nil, nil
	}
	return sess, nil
}

// SignOut ends the session and notifies its listeners.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sess, err := s.repo.GetSession(ctx, token)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteSession(ctx, token)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}

	change := domain.SessionChange{Kind: domain.SessionSignedOut, Token: token}
	if sess != nil {
		change.Email = sess.Email
	}
	s.broker.Publish(change)
	s.logger.Info("signed out", logx.String("email", change.Email))
	return nil
}

// Subscribe registers for session changes. Call the returned func to stop.
func (s *Service) Subscribe() (<-chan domain.SessionChange, func()) {
	return s.broker.Subscribe()
}

// IsUnauthorized reports whether err means the credential was rejected.
func IsUnauthorized(err error) bool { return errors.Is(err, apperr.ErrUnauthorized) }
