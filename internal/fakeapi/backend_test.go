package fakeapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/MKhiriev/orchestra/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func registerAndSubscribe(t *testing.T, b *Backend, h http.Handler) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Email: "a@example.com", Password: "long-password"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	token := rec.Header().Get("Authorization")[len("Bearer "):]

	rec = doJSON(t, h, http.MethodPost, "/api/billing/checkout", token, models.CheckoutRequest{PlanID: "pro"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestBackend_JobAdvancesOneStepPerFetch(t *testing.T) {
	b := New(WithGeneratingSteps(2))
	h := b.Handler()
	token := registerAndSubscribe(t, b, h)

	rec := doJSON(t, h, http.MethodPost, "/api/generator/jobs", token, models.GenerateRequest{Prompt: "crm"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	job := decodeBody[models.Job](t, rec)

	var statuses []models.JobStatus
	for range 5 {
		rec = doJSON(t, h, http.MethodGet, "/api/generator/jobs/"+job.ID, token, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		statuses = append(statuses, decodeBody[models.Job](t, rec).Status)
	}

	assert.Equal(t, []models.JobStatus{
		models.JobPending, models.JobGenerating, models.JobGenerating, models.JobCompleted, models.JobCompleted,
	}, statuses)
}

func TestBackend_IdempotencyKeyReplaysJob(t *testing.T) {
	b := New()
	h := b.Handler()
	token := registerAndSubscribe(t, b, h)
	headers := map[string]string{idempotencyKeyHeader: "key-1"}

	first := decodeBody[models.Job](t, doJSON(t, h, http.MethodPost, "/api/generator/jobs", token, models.GenerateRequest{Prompt: "crm"}, headers))
	rec := doJSON(t, h, http.MethodPost, "/api/generator/jobs", token, models.GenerateRequest{Prompt: "crm"}, headers)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, decodeBody[models.Job](t, rec).ID)
}

func TestBackend_JobsAreScopedToOwner(t *testing.T) {
	b := New()
	h := b.Handler()
	token := registerAndSubscribe(t, b, h)
	job := decodeBody[models.Job](t, doJSON(t, h, http.MethodPost, "/api/generator/jobs", token, models.GenerateRequest{Prompt: "crm"}, nil))

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Email: "b@example.com", Password: "long-password"}, nil)
	other := rec.Header().Get("Authorization")[len("Bearer "):]

	rec = doJSON(t, h, http.MethodGet, "/api/generator/jobs/"+job.ID, other, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, app.MsgJobNotFound, decodeBody[errorResponse](t, rec).Error)
}

func TestBackend_Auth(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New()
	b.now = func() time.Time { return now }
	h := b.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Email: "a@example.com", Password: "short"}, nil)
	assert.Equal(t, app.MsgWeakPassword, decodeBody[errorResponse](t, rec).Error)

	token := registerAndSubscribe(t, b, h)

	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", "garbage", nil, nil)
	assert.Equal(t, app.MsgTokenIsExpiredOrInvalid, decodeBody[errorResponse](t, rec).Error)

	now = now.Add(2 * time.Hour)
	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, app.MsgTokenIsExpired, decodeBody[errorResponse](t, rec).Error)
}

func TestBackend_LogoutRevokesToken(t *testing.T) {
	b := New()
	h := b.Handler()
	token := registerAndSubscribe(t, b, h)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/logout", token, nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBackend_OAuthAccountCannotPasswordLogin(t *testing.T) {
	b := New()
	h := b.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/auth/oauth/github/callback", "", models.OAuthCallback{Code: "octocat"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", models.Credentials{Email: "octocat@github.oauth"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBackend_RequestIDIsEchoed(t *testing.T) {
	h := New().Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/billing/plans", "", nil, map[string]string{"X-Request-ID": "req-1"})

	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	assert.Len(t, decodeBody[[]models.Plan](t, rec), 3)
}

func TestPasswordHash(t *testing.T) {
	h := hashPassword("correct-horse")

	assert.True(t, h.matches("correct-horse"))
	assert.False(t, h.matches("correct-hors"))
	assert.NotEqual(t, []byte("correct-horse"), h.key)

	// одинаковые пароли дают разные хэши
	assert.NotEqual(t, h.key, hashPassword("correct-horse").key)

	// у OAuth-аккаунтов пароля нет
	assert.False(t, passwordHash{}.matches(""))
}
