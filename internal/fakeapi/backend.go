// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package fakeapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/utils"
	"github.com/MKhiriev/orchestra/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

const (
	defaultTokenTTL        = time.Hour
	defaultPromptQuota     = 20
	defaultGeneratingSteps = 1
)

// Option configures a Backend.
type Option func(*Backend)

// WithTokenTTL sets the lifetime of issued tokens. Negative values issue
// tokens that are already expired.
func WithTokenTTL(ttl time.Duration) Option {
	return func(b *Backend) { b.tokenTTL = ttl }
}

// WithPromptQuota sets how many prompts an account may send before getting 429.
func WithPromptQuota(n int) Option {
	return func(b *Backend) { b.promptQuota = n }
}

// WithGeneratingSteps sets how many status fetches report "generating"
// before a job becomes terminal.
func WithGeneratingSteps(n int) Option {
	return func(b *Backend) { b.generatingSteps = max(n, 0) }
}

// WithLogger sets the request logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// WithRequireStreamAuth makes the stream close connections whose first frame
// is not a valid auth frame.
func WithRequireStreamAuth() Option {
	return func(b *Backend) { b.requireStreamAuth = true }
}

type account struct {
	user         models.User
	password     passwordHash
	subscription *models.Subscription
	prompts      int
}

type job struct {
	models.Job
	owner   string
	failing bool
	fetches int
}

// Backend holds the whole fake backend state.
type Backend struct {
	signingKey        []byte
	tokenTTL          time.Duration
	promptQuota       int
	generatingSteps   int
	requireStreamAuth bool

	ids      *utils.UUIDGenerator
	upgrader websocket.Upgrader
	now      func() time.Time
	logger   *logger.Logger

	mu          sync.Mutex
	accounts    map[string]*account // by e-mail
	revoked     map[string]struct{} // token ids
	resetTokens map[string]string   // reset token -> e-mail
	oauthStates map[string]string   // state -> provider
	jobs        map[string]*job
	idempotent  map[string]any // Idempotency-Key -> response body
	plans       []models.Plan
	metrics     models.Metrics
	streams     map[*streamConn]struct{}
	requests    []RecordedRequest
}

// RecordedRequest is a request the backend has served.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// New returns a Backend with the default plans and no accounts.
func New(opts ...Option) *Backend {
	ids := utils.NewUUIDGenerator()

	b := &Backend{
		signingKey:      []byte(ids.Generate()),
		tokenTTL:        defaultTokenTTL,
		promptQuota:     defaultPromptQuota,
		generatingSteps: defaultGeneratingSteps,
		ids:             ids,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		now:         time.Now,
		logger:      logger.Nop(),
		accounts:    make(map[string]*account),
		revoked:     make(map[string]struct{}),
		resetTokens: make(map[string]string),
		oauthStates: make(map[string]string),
		jobs:        make(map[string]*job),
		idempotent:  make(map[string]any),
		plans:       defaultPlans(),
		streams:     make(map[*streamConn]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Handler returns the chi router serving the REST API and the stream.
func (b *Backend) Handler() http.Handler {
	return b.routes()
}

func (b *Backend) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, b.withRequestID, b.withLogging, b.withRecording)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", b.register)
		r.Post("/api/auth/login", b.login)
		r.Get("/api/auth/oauth/{provider}", b.oauthURL)
		r.Post("/api/auth/oauth/{provider}/callback", b.oauthCallback)
		r.Post("/api/auth/password/forgot", b.forgotPassword)
		r.Post("/api/auth/password/reset", b.resetPassword)
		r.Get("/api/billing/plans", b.listPlans)
		r.Get("/ws", b.stream)
	})

	router.Group(func(r chi.Router) {
		r.Use(b.auth)

		r.Post("/api/auth/logout", b.logout)
		r.Get("/api/auth/me", b.me)

		r.Get("/api/billing/subscription", b.subscription)
		r.Post("/api/billing/checkout", b.checkout)
		r.Post("/api/billing/portal", b.portal)
		r.Post("/api/billing/subscription/cancel", b.cancelSubscription)

		r.Post("/api/agents/prompt", b.prompt)

		r.Post("/api/generator/jobs", b.createJob)
		r.Get("/api/generator/jobs/{id}", b.jobStatus)
	})

	return router
}

// Requests returns a copy of every request served so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// ResetToken returns the last reset token issued for email, as if read from
// the reset e-mail.
func (b *Backend) ResetToken(email string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for token, owner := range b.resetTokens {
		if owner == email {
			return token, true
		}
	}
	return "", false
}

func defaultPlans() []models.Plan {
	return []models.Plan{
		{ID: "free", Name: "Free", PriceCents: 0, Currency: "usd", Interval: models.IntervalMonth, Features: []string{"20 prompts"}},
		{ID: "pro", Name: "Pro", PriceCents: 2900, Currency: "usd", Interval: models.IntervalMonth, Features: []string{"unlimited prompts", "backend generator"}, Popular: true},
		{ID: "team", Name: "Team", PriceCents: 29000, Currency: "usd", Interval: models.IntervalYear, Features: []string{"5 seats", "priority agents"}},
	}
}

func (b *Backend) planByID(id string) (models.Plan, bool) {
	for _, p := range b.plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.Plan{}, false
}
