// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for talking to the
// orchestration backend REST API.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/orchestra/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the orchestration backend.
// Implementations are responsible for serialisation, authentication header
// management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. Register, Login and OAuthCallback
	// call it themselves on success.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register creates an account and signs it in.
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthSession, error)

	// Login authenticates with e-mail and password.
	Login(ctx context.Context, creds models.Credentials) (models.AuthSession, error)

	// Logout revokes the current token on the backend and forgets it locally.
	Logout(ctx context.Context) error

	// CurrentUser returns the profile of the token owner.
	CurrentUser(ctx context.Context) (models.User, error)

	// OAuthURL returns the provider authorization URL to open in a browser.
	OAuthURL(ctx context.Context, provider, redirectURI string) (models.OAuthURL, error)

	// OAuthCallback exchanges the provider authorization code for a session.
	OAuthCallback(ctx context.Context, cb models.OAuthCallback) (models.AuthSession, error)

	// RequestPasswordReset asks the backend to e-mail a reset link.
	RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error

	// ResetPassword sets a new password using the token from the reset link.
	ResetPassword(ctx context.Context, req models.PasswordResetConfirm) error

	// ListPlans returns the purchasable plans. No token is required.
	ListPlans(ctx context.Context) ([]models.Plan, error)

	// GetSubscription returns the subscription of the signed-in account.
	// Returns [ErrNotFound] (wrapped) for accounts without one.
	GetSubscription(ctx context.Context) (models.Subscription, error)

	// CreateCheckoutSession starts a hosted checkout for req.PlanID.
	CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error)

	// CreatePortalSession opens the hosted billing portal.
	CreatePortalSession(ctx context.Context) (models.PortalSession, error)

	// CancelSubscription cancels the subscription at period end and returns
	// its updated state.
	CancelSubscription(ctx context.Context) (models.Subscription, error)

	// SubmitPrompt sends a prompt to the agent service and waits for the answer.
	SubmitPrompt(ctx context.Context, req models.PromptRequest) (models.PromptResponse, error)

	// CreateGeneratorJob submits an asynchronous backend generation job.
	CreateGeneratorJob(ctx context.Context, req models.GenerateRequest) (models.Job, error)

	// GetJobStatus fetches the current status record of a generator job.
	GetJobStatus(ctx context.Context, jobID string) (models.Job, error)
}
