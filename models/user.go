package models

import "time"

// User is the account profile returned by the backend.
type User struct {
	// ID is the backend identifier of the account.
	ID string `json:"id"`

	// Email is the login identifier of the account.
	Email string `json:"email"`

	// Name is the display name. It is non-sensitive and may be shown in UI.
	Name string `json:"name,omitempty"`

	// Plan is the identifier of the plan the account is subscribed to,
	// empty for free accounts.
	Plan string `json:"plan,omitempty"`

	// EmailVerified reports whether the address has been confirmed.
	EmailVerified bool `json:"email_verified"`

	CreatedAt time.Time `json:"created_at"`
}

// Credentials is the body of a password login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of a sign-up request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthSession is returned by every endpoint that issues a bearer token.
// Token may be empty when the backend sends it in the Authorization header.
type AuthSession struct {
	Token string `json:"token,omitempty"`
	User  User   `json:"user"`
}

// OAuthCallback carries the authorization code the provider redirected back
// with. State must match the one issued together with the authorization URL.
type OAuthCallback struct {
	Provider    string `json:"-"`
	Code        string `json:"code"`
	State       string `json:"state"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// OAuthURL is the provider authorization URL the user has to open.
type OAuthURL struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// PasswordResetRequest asks the backend to e-mail a reset link.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm sets a new password using the token from the reset link.
type PasswordResetConfirm struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
