package domain

import "time"

// Session is an authenticated browser session.
type Session struct {
	Token     string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionChangeKind names a session lifecycle notification.
type SessionChangeKind string

// Session change kinds.
const (
	SessionSignedIn  SessionChangeKind = "signed_in"
	SessionSignedOut SessionChangeKind = "signed_out"
)

// SessionChange is delivered to session-change subscribers.
type SessionChange struct {
	Kind  SessionChangeKind
	Token string
	Email string
}
