package service

import (
	"errors"

	"github.com/MKhiriev/orchestra/internal/validators"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrWeakPassword        = errors.New("password is too weak")
	ErrResetTokenInvalid   = errors.New("reset link is invalid or expired")
	ErrUnknownProvider     = errors.New("unknown oauth provider")

	ErrNotSignedIn    = errors.New("not signed in")
	ErrSessionExpired = errors.New("session expired, please log in again")

	ErrPaymentRequired = errors.New("an active subscription is required")
	ErrNoSubscription  = errors.New("no subscription")
	ErrUnknownPlan     = errors.New("unknown plan")
	ErrRateLimited     = errors.New("quota exceeded or rate limited")

	ErrJobNotFound  = errors.New("job not found")
	ErrNoTrackedJob = errors.New("no tracked job")

	ErrServerUnavailable = errors.New("server unavailable")
)

// ErrEmptyPrompt is returned (wrapped in ErrInvalidDataProvided) for blank
// prompts.
var ErrEmptyPrompt = validators.ErrEmptyPrompt
