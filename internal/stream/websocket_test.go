package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_WebsocketEndToEnd(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	authFrames := make(chan models.AuthMessage, 1)
	serverDone := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(serverDone)

		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		var auth models.AuthMessage
		if !assert.NoError(t, conn.ReadJSON(&auth)) {
			return
		}
		authFrames <- auth

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"log","payload":{"line":"hello"}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{broken`))
		_ = conn.WriteJSON(map[string]any{
			"type":    models.EnvelopeMetrics,
			"payload": models.Metrics{ActiveAgents: 2, SavingsUSD: 12.5},
		})

		// ждём закрытия со стороны клиента
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	tokens := TokenSourceFunc(func(ctx context.Context) (string, error) { return "tok-e2e", nil })
	c := NewClient(Options{URL: wsURL, BaseDelay: time.Second, MaxAttempts: 1}, NewWebsocketDialer(2*time.Second), tokens, logger.Nop())

	got := make(chan models.Metrics, 4)
	unsubscribe := c.Subscribe(func(m models.Metrics) { got <- m })

	select {
	case auth := <-authFrames:
		assert.Equal(t, models.NewAuthMessage("tok-e2e"), auth)
	case <-time.After(3 * time.Second):
		t.Fatal("auth frame not received")
	}

	select {
	case m := <-got:
		assert.Equal(t, 2, m.ActiveAgents)
		assert.InDelta(t, 12.5, m.SavingsUSD, 1e-9)
	case <-time.After(3 * time.Second):
		t.Fatal("metrics not delivered")
	}

	unsubscribe()
	assert.False(t, c.Connected())

	select {
	case <-serverDone:
	case <-time.After(3 * time.Second):
		t.Fatal("server did not observe the close")
	}
	assert.Empty(t, got, "only the metrics frame reaches subscribers")
}

func TestWebsocketDialer_HandshakeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	d := NewWebsocketDialer(time.Second)
	_, err := d.DialContext(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
