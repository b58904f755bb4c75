package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_NotNil(t *testing.T) {
	client := NewHTTPClient()

	if client == nil {
		t.Fatal("expected non-nil *HTTPClient, got nil")
	}

	if client.Client == nil {
		t.Fatal("expected embedded *resty.Client to be non-nil, got nil")
	}
}

func TestNewHTTPClient_Type(t *testing.T) {
	client := NewHTTPClient()

	if _, ok := interface{}(client.Client).(*resty.Client); !ok {
		t.Fatalf("expected embedded client to be *resty.Client, got %T", client.Client)
	}
}

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient()
	client2 := NewHTTPClient()

	if client1.Client == client2.Client {
		t.Fatal("expected NewHTTPClient to return HTTPClients with different *resty.Client instances")
	}
}

// ── X-Request-ID ─────────────────────────────────────────────────────────────

func newEchoRequestIDServer(t *testing.T, got *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient_GeneratesRequestID(t *testing.T) {
	var got string
	srv := newEchoRequestIDServer(t, &got)

	_, err := NewHTTPClient().R().Get(srv.URL)
	require.NoError(t, err)

	// без значения в контексте генерируется UUIDv7
	parsed, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestHTTPClient_RequestIDFromContext(t *testing.T) {
	var got string
	srv := newEchoRequestIDServer(t, &got)

	ctx := WithRequestID(context.Background(), "trace-1")
	_, err := NewHTTPClient().R().SetContext(ctx).Get(srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "trace-1", got)
}

func TestHTTPClient_ExplicitHeaderWins(t *testing.T) {
	var got string
	srv := newEchoRequestIDServer(t, &got)

	ctx := WithRequestID(context.Background(), "from-ctx")
	_, err := NewHTTPClient().R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, "explicit").
		Get(srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "explicit", got)
}
