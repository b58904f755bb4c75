// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the client business logic that sits between the user
// interfaces (CLI and TUI) and the transport, storage, stream and poller
// packages.
package service

import (
	"context"

	"github.com/MKhiriev/orchestra/internal/poller"
	"github.com/MKhiriev/orchestra/internal/stream"
	"github.com/MKhiriev/orchestra/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_services_mock.go -package=mock

// AuthService manages the account session. Operations that sign in store the
// token in the adapter and persist the session locally.
type AuthService interface {
	// Register creates an account and signs it in.
	// Returns ErrEmailTaken if the e-mail is already registered.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)

	// Login signs in with e-mail and password.
	// Returns ErrInvalidCredentials if the pair does not match an account.
	Login(ctx context.Context, creds models.Credentials) (models.User, error)

	// Logout revokes the token on the backend and forgets the local session
	// and tracked job. The local state is cleared even if the backend call
	// fails.
	Logout(ctx context.Context) error

	// StartOAuth returns the provider authorization URL to open in a browser.
	StartOAuth(ctx context.Context, provider, redirectURI string) (models.OAuthURL, error)

	// CompleteOAuth exchanges the provider code for a session and signs in.
	CompleteOAuth(ctx context.Context, cb models.OAuthCallback) (models.User, error)

	// RequestPasswordReset asks the backend to e-mail a reset link.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword sets a new password using the token from the reset link.
	ResetPassword(ctx context.Context, token, password string) error

	// RestoreSession loads the persisted session and hands its token to the
	// adapter. Returns ErrNotSignedIn when nothing is stored and
	// ErrSessionExpired (after clearing it) when the token has expired.
	RestoreSession(ctx context.Context) (models.Session, error)

	// CurrentUser fetches the profile of the signed-in account and refreshes
	// the stored copy.
	CurrentUser(ctx context.Context) (models.User, error)
}

// BillingService covers plans and the subscription lifecycle.
type BillingService interface {
	Plans(ctx context.Context) ([]models.Plan, error)
	// Subscription returns ErrNoSubscription for accounts that never subscribed.
	Subscription(ctx context.Context) (models.Subscription, error)
	Checkout(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error)
	Portal(ctx context.Context) (models.PortalSession, error)
	Cancel(ctx context.Context) (models.Subscription, error)
}

// AgentService sends prompts to the agent service.
type AgentService interface {
	// Submit returns ErrEmptyPrompt for a blank prompt without calling the
	// backend.
	Submit(ctx context.Context, req models.PromptRequest) (models.PromptResponse, error)
}

// GeneratorService submits backend generation jobs and follows them.
type GeneratorService interface {
	// Generate creates a job and remembers it as the tracked job.
	Generate(ctx context.Context, req models.GenerateRequest) (models.Job, error)

	// Status fetches the job once. An empty jobID means the tracked job.
	Status(ctx context.Context, jobID string) (models.Job, error)

	// Track polls jobID until it is terminal, replacing any running poll.
	// The tracked job is forgotten once it completes or fails.
	Track(ctx context.Context, jobID string, cb poller.Callbacks)

	// StopTracking stops the running poll without forgetting the job.
	StopTracking()

	// LastJob returns the tracked job. Returns ErrNoTrackedJob if there is none.
	LastJob(ctx context.Context) (models.TrackedJob, error)
}

// MetricsService exposes the live metrics stream.
type MetricsService interface {
	// Subscribe registers handler and returns its unsubscribe function. The
	// stream connection is open while at least one handler is registered.
	Subscribe(handler stream.Handler) func()
	Connected() bool
	// Close drops the connection and cancels any pending reconnect.
	Close()
}

// StreamClient is the part of *stream.Client the metrics service uses.
type StreamClient interface {
	Subscribe(handler stream.Handler) func()
	Connected() bool
	Disconnect()
}

// JobPoller is the part of *poller.Poller the generator service uses.
type JobPoller interface {
	Start(ctx context.Context, jobID string, cb poller.Callbacks)
	Stop()
}
