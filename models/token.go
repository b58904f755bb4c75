package models

import (
	"time"
)

// Token is a bearer token issued by the backend together with the claims the
// client reads from it without verification. The signature is checked by the
// backend only.
type Token struct {
	// Raw is the compact JWS form sent in the Authorization header.
	Raw string

	// Subject is the "sub" claim, the backend user identifier.
	Subject string

	// ExpiresAt is the "exp" claim. Zero when the token carries no expiry.
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that is not after now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// String returns the compact JWS form of the token.
func (t Token) String() string {
	return t.Raw
}

// Session is the locally persisted login state.
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
	SavedAt   time.Time
}

// Expired reports whether the session token has expired at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
