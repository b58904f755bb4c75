// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package fakeapi_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/config"
	"github.com/MKhiriev/orchestra/internal/fakeapi"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/poller"
	"github.com/MKhiriev/orchestra/internal/service"
	"github.com/MKhiriev/orchestra/internal/store"
	"github.com/MKhiriev/orchestra/internal/stream"
	"github.com/MKhiriev/orchestra/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 3 * time.Second
	tick    = 5 * time.Millisecond
)

// clientStack: полный клиент поверх фейкового бэкенда: адаптер, сервисы,
// поток метрик и поллер, как их собирает cmd/orchestra.
type clientStack struct {
	backend  *fakeapi.Backend
	services *service.ClientServices
	sessions store.SessionStore
	stream   *stream.Client
}

func newClientStack(t *testing.T, backend *fakeapi.Backend) *clientStack {
	t.Helper()

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	ad, err := adapter.NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: srv.URL, RequestTimeout: 5 * time.Second}, logger.Nop())
	require.NoError(t, err)

	sessions := store.NewMemorySessionStore()
	streamClient := stream.NewClient(stream.Options{
		URL:              "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
		BaseDelay:        10 * time.Millisecond,
		MaxAttempts:      3,
		HandshakeTimeout: 2 * time.Second,
	}, stream.NewWebsocketDialer(2*time.Second), sessions, logger.Nop())
	t.Cleanup(streamClient.Disconnect)

	jobPoller := poller.New(ad, 10*time.Millisecond, logger.Nop())
	t.Cleanup(jobPoller.Stop)

	return &clientStack{
		backend:  backend,
		services: service.NewClientServices(ad, sessions, streamClient, jobPoller, logger.Nop()),
		sessions: sessions,
		stream:   streamClient,
	}
}

func (c *clientStack) register(t *testing.T, email string) models.User {
	t.Helper()
	user, err := c.services.AuthService.Register(context.Background(), models.RegisterRequest{Email: email, Password: "correct-horse", Name: "Test"})
	require.NoError(t, err)
	return user
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestE2E_AuthLifecycle(t *testing.T) {
	c := newClientStack(t, fakeapi.New())
	ctx := context.Background()
	auth := c.services.AuthService

	user := c.register(t, "alice@example.com")
	assert.NotEmpty(t, user.ID)

	session, err := auth.RestoreSession(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	me, err := auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)

	_, err = auth.Register(ctx, models.RegisterRequest{Email: "alice@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	require.NoError(t, auth.Logout(ctx))
	_, err = auth.RestoreSession(ctx)
	assert.ErrorIs(t, err, service.ErrNotSignedIn)
	_, err = auth.CurrentUser(ctx)
	assert.ErrorIs(t, err, service.ErrSessionExpired)

	_, err = auth.Login(ctx, models.Credentials{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	// логин возвращает токен в теле, регистрация в заголовке: оба пути должны работать
	_, err = auth.Login(ctx, models.Credentials{Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	_, err = auth.CurrentUser(ctx)
	assert.NoError(t, err)

	for _, req := range c.backend.Requests() {
		assert.NotEmpty(t, req.RequestID, "%s %s without request id", req.Method, req.Path)
	}
}

func TestE2E_ExpiredToken(t *testing.T) {
	c := newClientStack(t, fakeapi.New(fakeapi.WithTokenTTL(-time.Minute)))
	ctx := context.Background()

	c.register(t, "late@example.com")

	_, err := c.services.AuthService.CurrentUser(ctx)
	assert.ErrorIs(t, err, service.ErrSessionExpired)

	_, err = c.services.AuthService.RestoreSession(ctx)
	assert.ErrorIs(t, err, service.ErrSessionExpired)
	_, err = c.sessions.LoadSession(ctx)
	assert.ErrorIs(t, err, store.ErrSessionNotFound, "expired session is cleared")
}

func TestE2E_PasswordReset(t *testing.T) {
	backend := fakeapi.New()
	c := newClientStack(t, backend)
	ctx := context.Background()
	auth := c.services.AuthService

	c.register(t, "bob@example.com")
	require.NoError(t, auth.RequestPasswordReset(ctx, "bob@example.com"))
	require.NoError(t, auth.RequestPasswordReset(ctx, "nobody@example.com"), "unknown address is not revealed")

	token, ok := backend.ResetToken("bob@example.com")
	require.True(t, ok)

	require.NoError(t, auth.ResetPassword(ctx, token, "brand-new-pass"))
	assert.ErrorIs(t, auth.ResetPassword(ctx, token, "another-pass"), service.ErrResetTokenInvalid)

	_, err := auth.Login(ctx, models.Credentials{Email: "bob@example.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestE2E_OAuth(t *testing.T) {
	c := newClientStack(t, fakeapi.New())
	ctx := context.Background()
	auth := c.services.AuthService

	u, err := auth.StartOAuth(ctx, "github", "http://localhost:7777/callback")
	require.NoError(t, err)
	assert.Contains(t, u.URL, "state="+u.State)
	assert.Contains(t, u.URL, "redirect_uri=")

	user, err := auth.CompleteOAuth(ctx, models.OAuthCallback{Provider: "github", Code: "octocat", State: u.State})
	require.NoError(t, err)
	assert.Equal(t, "octocat@github.oauth", user.Email)
	assert.True(t, user.EmailVerified)

	_, err = auth.CompleteOAuth(ctx, models.OAuthCallback{Provider: "github", Code: "octocat", State: u.State})
	assert.ErrorIs(t, err, service.ErrInvalidDataProvided, "state is single-use")

	_, err = auth.CompleteOAuth(ctx, models.OAuthCallback{Provider: "google", Code: "denied"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

// ── Billing / agents ─────────────────────────────────────────────────────────

func TestE2E_Billing(t *testing.T) {
	c := newClientStack(t, fakeapi.New())
	ctx := context.Background()
	billing := c.services.BillingService

	plans, err := billing.Plans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 3)

	c.register(t, "carol@example.com")

	_, err = billing.Subscription(ctx)
	assert.ErrorIs(t, err, service.ErrNoSubscription)
	_, err = billing.Checkout(ctx, models.CheckoutRequest{PlanID: "gold"})
	assert.ErrorIs(t, err, service.ErrUnknownPlan)

	session, err := billing.Checkout(ctx, models.CheckoutRequest{PlanID: "pro"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)

	sub, err := billing.Subscription(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, "pro", sub.PlanID)

	portal, err := billing.Portal(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, portal.URL)

	sub, err = billing.Cancel(ctx)
	require.NoError(t, err)
	assert.True(t, sub.CancelAtPeriodEnd)
}

func TestE2E_PromptQuota(t *testing.T) {
	c := newClientStack(t, fakeapi.New(fakeapi.WithPromptQuota(1)))
	ctx := context.Background()
	c.register(t, "dave@example.com")

	resp, err := c.services.AgentService.Submit(ctx, models.PromptRequest{Prompt: "design a schema", Agent: "dba"})
	require.NoError(t, err)
	assert.Equal(t, "dba", resp.Agent)
	assert.Positive(t, resp.TokensUsed)

	_, err = c.services.AgentService.Submit(ctx, models.PromptRequest{Prompt: "again"})
	assert.ErrorIs(t, err, service.ErrRateLimited)
}

// ── Generator ────────────────────────────────────────────────────────────────

type trackResult struct {
	updates []models.Job
	final   models.Job
	err     error
}

func track(t *testing.T, c *clientStack, jobID string) trackResult {
	t.Helper()

	var res trackResult
	done := make(chan struct{})
	c.services.GeneratorService.Track(context.Background(), jobID, poller.Callbacks{
		OnUpdate:   func(j models.Job) { res.updates = append(res.updates, j) },
		OnComplete: func(j models.Job) { res.final = j; close(done) },
		OnError:    func(err error) { res.err = err; close(done) },
	})

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("job did not finish")
	}
	return res
}

func TestE2E_GeneratorJob(t *testing.T) {
	c := newClientStack(t, fakeapi.New())
	ctx := context.Background()
	gen := c.services.GeneratorService

	c.register(t, "erin@example.com")

	_, err := gen.Generate(ctx, models.GenerateRequest{Prompt: "todo api"})
	require.ErrorIs(t, err, service.ErrPaymentRequired)

	_, err = c.services.BillingService.Checkout(ctx, models.CheckoutRequest{PlanID: "pro"})
	require.NoError(t, err)

	job, err := gen.Generate(ctx, models.GenerateRequest{Prompt: "todo api"})
	require.NoError(t, err)
	assert.Equal(t, models.JobPending, job.Status)

	last, err := gen.LastJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, last.JobID)

	res := track(t, c, job.ID)

	require.NoError(t, res.err)
	require.Len(t, res.updates, 2)
	assert.Equal(t, models.JobPending, res.updates[0].Status)
	assert.Equal(t, models.JobGenerating, res.updates[1].Status)
	assert.Equal(t, models.JobCompleted, res.final.Status)
	assert.NotEmpty(t, res.final.ResultURL)

	_, err = gen.LastJob(ctx)
	assert.ErrorIs(t, err, service.ErrNoTrackedJob, "finished job is forgotten")
}

func TestE2E_GeneratorJobFails(t *testing.T) {
	c := newClientStack(t, fakeapi.New(fakeapi.WithGeneratingSteps(0)))
	ctx := context.Background()

	c.register(t, "frank@example.com")
	_, err := c.services.BillingService.Checkout(ctx, models.CheckoutRequest{PlanID: "team"})
	require.NoError(t, err)

	job, err := c.services.GeneratorService.Generate(ctx, models.GenerateRequest{Prompt: "please fail"})
	require.NoError(t, err)

	res := track(t, c, job.ID)

	require.NoError(t, res.err)
	assert.Len(t, res.updates, 1)
	assert.Equal(t, models.JobFailed, res.final.Status)
	assert.NotEmpty(t, res.final.Error)
}

func TestE2E_GeneratorUnknownJob(t *testing.T) {
	c := newClientStack(t, fakeapi.New())
	c.register(t, "gina@example.com")

	res := track(t, c, "no-such-job")

	assert.ErrorIs(t, res.err, service.ErrJobNotFound)
	assert.Empty(t, res.updates)
}

// ── Metrics stream ───────────────────────────────────────────────────────────

func TestE2E_MetricsStream(t *testing.T) {
	backend := fakeapi.New(fakeapi.WithRequireStreamAuth())
	c := newClientStack(t, backend)
	c.register(t, "henry@example.com")

	received := make(chan models.Metrics, 16)
	metrics := c.services.MetricsService
	unsubscribe := metrics.Subscribe(func(m models.Metrics) { received <- m })

	next := func() models.Metrics {
		t.Helper()
		select {
		case m := <-received:
			return m
		case <-time.After(waitFor):
			t.Fatal("no metrics received")
			return models.Metrics{}
		}
	}

	// сразу после подключения бэкенд присылает текущий снимок
	next()
	require.Eventually(t, func() bool { return backend.StreamCount() == 1 }, waitFor, tick)
	assert.True(t, metrics.Connected())

	backend.PushMetrics(models.Metrics{TokensUsed: 42, ActiveAgents: 2})
	assert.EqualValues(t, 42, next().TokensUsed)

	// чужие типы и мусор подписчикам не доставляются
	backend.SendRaw([]byte(`{"type":"log","payload":{"line":"hello"}}`))
	backend.SendRaw([]byte(`not json`))
	backend.PushMetrics(models.Metrics{TokensUsed: 43})
	assert.EqualValues(t, 43, next().TokensUsed)

	backend.Heartbeat()
	assert.EqualValues(t, 43, next().TokensUsed)

	// обрыв со стороны сервера: клиент переподключается сам
	backend.DropStreams()
	next()
	require.Eventually(t, func() bool { return backend.StreamCount() == 1 && metrics.Connected() }, waitFor, tick)

	unsubscribe()
	assert.False(t, metrics.Connected())
	require.Eventually(t, func() bool { return backend.StreamCount() == 0 }, waitFor, tick)
}

func TestE2E_MetricsStreamRejectsAnonymous(t *testing.T) {
	backend := fakeapi.New(fakeapi.WithRequireStreamAuth())
	c := newClientStack(t, backend)

	received := make(chan models.Metrics, 1)
	unsubscribe := c.services.MetricsService.Subscribe(func(m models.Metrics) { received <- m })
	defer unsubscribe()

	select {
	case <-received:
		t.Fatal("anonymous stream must not receive metrics")
	case <-time.After(200 * time.Millisecond):
	}
	assert.Zero(t, backend.StreamCount())
}
