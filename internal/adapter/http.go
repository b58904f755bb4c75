// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/orchestra/internal/config"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/utils"
	"github.com/MKhiriev/orchestra/models"
	"github.com/go-resty/resty/v2"
)

// IdempotencyKeyHeader lets the backend deduplicate retried creations.
const IdempotencyKeyHeader = "Idempotency-Key"

type httpServerAdapter struct {
	client *utils.HTTPClient
	ids    *utils.UUIDGenerator

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the resolved base URL and
// request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{
		client: client,
		ids:    utils.NewUUIDGenerator(),
		logger: logger.Component("adapter"),
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed).
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	h.token = strings.TrimSpace(token)
	h.mu.Unlock()
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter]. It POSTs to /api/auth/register and
// stores the issued token.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.AuthSession, error) {
	return h.authenticate(ctx, "register", "/api/auth/register", req)
}

// Login implements [ServerAdapter]. It POSTs to /api/auth/login and stores
// the issued token.
func (h *httpServerAdapter) Login(ctx context.Context, creds models.Credentials) (models.AuthSession, error) {
	return h.authenticate(ctx, "login", "/api/auth/login", creds)
}

// OAuthCallback implements [ServerAdapter]. It POSTs the authorization code
// to /api/auth/oauth/{provider}/callback and stores the issued token.
func (h *httpServerAdapter) OAuthCallback(ctx context.Context, cb models.OAuthCallback) (models.AuthSession, error) {
	path := "/api/auth/oauth/" + url.PathEscape(cb.Provider) + "/callback"
	return h.authenticate(ctx, "oauth callback", path, cb)
}

// authenticate POSTs body to path and extracts the bearer token from the
// Authorization header, falling back to the "token" field of the body.
func (h *httpServerAdapter) authenticate(ctx context.Context, op, path string, body any) (models.AuthSession, error) {
	var session models.AuthSession

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&session).
		Post(path)
	if err != nil {
		return models.AuthSession{}, fmt.Errorf("%s request: %w", op, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthSession{}, err
	}

	if header := resp.Header().Get("Authorization"); header != "" {
		token, err := utils.ParseBearerToken(header)
		if err != nil {
			return models.AuthSession{}, fmt.Errorf("%s parse bearer token: %w", op, err)
		}
		session.Token = token
	}
	if session.Token == "" {
		return models.AuthSession{}, fmt.Errorf("%s: %w", op, ErrNoToken)
	}

	h.SetToken(session.Token)
	return session, nil
}

// Logout implements [ServerAdapter]. The local token is dropped even when
// the backend call fails.
func (h *httpServerAdapter) Logout(ctx context.Context) error {
	defer h.SetToken("")

	resp, err := h.authedRequest(ctx).Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

// CurrentUser implements [ServerAdapter]. GET /api/auth/me.
func (h *httpServerAdapter) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User

	resp, err := h.authedRequest(ctx).
		SetResult(&user).
		Get("/api/auth/me")
	if err != nil {
		return models.User{}, fmt.Errorf("current user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// OAuthURL implements [ServerAdapter]. GET /api/auth/oauth/{provider}.
func (h *httpServerAdapter) OAuthURL(ctx context.Context, provider, redirectURI string) (models.OAuthURL, error) {
	var out models.OAuthURL

	req := h.client.R().
		SetContext(ctx).
		SetPathParam("provider", provider).
		SetResult(&out)
	if redirectURI != "" {
		req.SetQueryParam("redirect_uri", redirectURI)
	}

	resp, err := req.Get("/api/auth/oauth/{provider}")
	if err != nil {
		return models.OAuthURL{}, fmt.Errorf("oauth url request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.OAuthURL{}, err
	}

	return out, nil
}

// RequestPasswordReset implements [ServerAdapter]. POST /api/auth/password/forgot.
func (h *httpServerAdapter) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/auth/password/forgot")
	if err != nil {
		return fmt.Errorf("password reset request: %w", err)
	}

	return mapHTTPError(resp)
}

// ResetPassword implements [ServerAdapter]. POST /api/auth/password/reset.
func (h *httpServerAdapter) ResetPassword(ctx context.Context, req models.PasswordResetConfirm) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/auth/password/reset")
	if err != nil {
		return fmt.Errorf("reset password request: %w", err)
	}

	return mapHTTPError(resp)
}

// ListPlans implements [ServerAdapter]. GET /api/billing/plans.
func (h *httpServerAdapter) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&plans).
		Get("/api/billing/plans")
	if err != nil {
		return nil, fmt.Errorf("list plans request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return plans, nil
}

// GetSubscription implements [ServerAdapter]. GET /api/billing/subscription.
func (h *httpServerAdapter) GetSubscription(ctx context.Context) (models.Subscription, error) {
	var sub models.Subscription

	resp, err := h.authedRequest(ctx).
		SetResult(&sub).
		Get("/api/billing/subscription")
	if err != nil {
		return models.Subscription{}, fmt.Errorf("get subscription request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Subscription{}, err
	}

	return sub, nil
}

// CreateCheckoutSession implements [ServerAdapter]. POST /api/billing/checkout
// with an Idempotency-Key.
func (h *httpServerAdapter) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error) {
	var session models.CheckoutSession

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(IdempotencyKeyHeader, h.ids.Generate()).
		SetBody(req).
		SetResult(&session).
		Post("/api/billing/checkout")
	if err != nil {
		return models.CheckoutSession{}, fmt.Errorf("checkout request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CheckoutSession{}, err
	}

	return session, nil
}

// CreatePortalSession implements [ServerAdapter]. POST /api/billing/portal.
func (h *httpServerAdapter) CreatePortalSession(ctx context.Context) (models.PortalSession, error) {
	var session models.PortalSession

	resp, err := h.authedRequest(ctx).
		SetResult(&session).
		Post("/api/billing/portal")
	if err != nil {
		return models.PortalSession{}, fmt.Errorf("portal request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PortalSession{}, err
	}

	return session, nil
}

// CancelSubscription implements [ServerAdapter]. POST /api/billing/subscription/cancel.
func (h *httpServerAdapter) CancelSubscription(ctx context.Context) (models.Subscription, error) {
	var sub models.Subscription

	resp, err := h.authedRequest(ctx).
		SetResult(&sub).
		Post("/api/billing/subscription/cancel")
	if err != nil {
		return models.Subscription{}, fmt.Errorf("cancel subscription request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Subscription{}, err
	}

	return sub, nil
}

// SubmitPrompt implements [ServerAdapter]. POST /api/agents/prompt.
func (h *httpServerAdapter) SubmitPrompt(ctx context.Context, req models.PromptRequest) (models.PromptResponse, error) {
	var out models.PromptResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post("/api/agents/prompt")
	if err != nil {
		return models.PromptResponse{}, fmt.Errorf("submit prompt request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PromptResponse{}, err
	}

	return out, nil
}

// CreateGeneratorJob implements [ServerAdapter]. POST /api/generator/jobs
// with an Idempotency-Key.
func (h *httpServerAdapter) CreateGeneratorJob(ctx context.Context, req models.GenerateRequest) (models.Job, error) {
	var job models.Job

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(IdempotencyKeyHeader, h.ids.Generate()).
		SetBody(req).
		SetResult(&job).
		Post("/api/generator/jobs")
	if err != nil {
		return models.Job{}, fmt.Errorf("create job request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Job{}, err
	}
	if job.ID == "" {
		return models.Job{}, errors.New("create job: backend returned no job id")
	}

	return job, nil
}

// GetJobStatus implements [ServerAdapter]. GET /api/generator/jobs/{id}.
func (h *httpServerAdapter) GetJobStatus(ctx context.Context, jobID string) (models.Job, error) {
	var job models.Job

	resp, err := h.authedRequest(ctx).
		SetPathParam("id", jobID).
		SetResult(&job).
		Get("/api/generator/jobs/{id}")
	if err != nil {
		return models.Job{}, fmt.Errorf("job status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Job{}, err
	}
	if job.ID == "" {
		job.ID = jobID
	}

	return job, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
