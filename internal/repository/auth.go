package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"dispatcherhub/internal/domain"
)

// AuthRepo stores magic-link issuance and browser sessions.
type AuthRepo struct{ db *pgxpool.Pool }

// NewAuthRepo creates a new AuthRepo.
func NewAuthRepo(db *pgxpool.Pool) *AuthRepo { return &AuthRepo{db: db} }

// SaveLink records an issued magic link.
func (r *AuthRepo) SaveLink(ctx context.Context, jti, email string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO login_links (jti, email, expires_at) VALUES ($1, $2, $3)`,
		jti, email, expiresAt)
	if err != nil {
		return fmt.Errorf("save login link: %w", err)
	}
	return nil
}

// ConsumeLink marks a link used and returns its email. It returns "" when the
// link is unknown, expired or already used.
func (r *AuthRepo) ConsumeLink(ctx context.Context, jti string, now time.Time) (string, error) {
	var email string
	err := r.db.QueryRow(ctx, `
        UPDATE login_links
        SET used_at = $2
        WHERE jti = $1 AND used_at IS NULL AND expires_at > $2
        RETURNING email
    `, jti, now).Scan(&email)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("consume login link: %w", err)
	}
	return email, nil
}

// CreateSession stores a session.
func (r *AuthRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (token, email, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		s.Token, s.Email, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession returns a session by token, or nil when there is none.
func (r *AuthRepo) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRow(ctx,
		`SELECT token::text, email, created_at, expires_at FROM sessions WHERE token = $1`, token,
	).Scan(&s.Token, &s.Email, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes a session and reports whether it existed.
func (r *AuthRepo) DeleteSession(ctx context.Context, token string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// DeleteExpiredSessions purges sessions that expired before now.
func (r *AuthRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return ct.RowsAffected(), nil
}
