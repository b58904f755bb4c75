// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package stream

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/orchestra/internal/config"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/models"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 5 * time.Second
)

// Options configures a [Client].
type Options struct {
	// URL is the ws:// or wss:// stream endpoint.
	URL string
	// BaseDelay is the delay before the first reconnect attempt.
	BaseDelay time.Duration
	// MaxAttempts caps consecutive reconnect attempts.
	MaxAttempts int
	// HandshakeTimeout bounds dials not covered by a caller context.
	HandshakeTimeout time.Duration
	// WriteTimeout is the write deadline for the auth frame.
	WriteTimeout time.Duration
}

// OptionsFromConfig builds [Options] from the client configuration.
func OptionsFromConfig(adapterCfg config.ClientAdapter, streamCfg config.ClientStream) Options {
	return Options{
		URL:              adapterCfg.WSAddress,
		BaseDelay:        streamCfg.BaseDelay,
		MaxAttempts:      streamCfg.MaxAttempts,
		HandshakeTimeout: adapterCfg.RequestTimeout,
	}
}

// Handler receives every decoded metrics snapshot.
type Handler func(models.Metrics)

type subscriber struct {
	id uint64
	fn Handler
}

// Client maintains at most one live stream connection and multiplexes it to
// the registered handlers. The connection is open while at least one handler
// is registered; it is closed when the last one unsubscribes.
//
// Connection failures are never reported to handlers. After an unexpected
// close the client redials with exponential backoff and gives up silently
// once Options.MaxAttempts consecutive attempts have been made.
type Client struct {
	opts      Options
	dialer    Dialer
	tokens    TokenSource
	afterFunc afterFunc
	logger    *logger.Logger

	mu       sync.Mutex
	conn     Conn
	dialing  bool
	epoch    uint64
	attempts int
	timer    timer
	subs     []subscriber
	nextID   uint64
}

// NewClient returns a disconnected client. tokens may be nil.
func NewClient(opts Options, dialer Dialer, tokens TokenSource, log *logger.Logger) *Client {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = defaultHandshakeTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}

	return &Client{
		opts:      opts,
		dialer:    dialer,
		tokens:    tokens,
		afterFunc: realAfterFunc,
		logger:    log.Component("stream"),
	}
}

// Backoff returns the reconnect delay for the given 0-indexed attempt:
// base × 2^attempt.
func Backoff(base time.Duration, attempt int) time.Duration {
	return base << attempt
}

// Connect opens the connection unless one is already open or being opened.
// An explicit Connect cancels a pending reconnect and restarts the attempt
// counter.
//
// A failed dial is returned to the caller and also schedules a reconnect.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.attempts = 0
	c.mu.Unlock()

	return c.dial(ctx)
}

// Connected reports whether a connection is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Subscribe registers handler and opens the connection if needed. The
// returned function unregisters handler; calling it more than once is a
// no-op. Handlers are invoked in registration order.
func (c *Client) Subscribe(handler Handler) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: handler})
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.HandshakeTimeout)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("stream connect on subscribe failed")
	}

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(id) })
	}
}

func (c *Client) unsubscribe(id uint64) {
	c.mu.Lock()
	c.subs = slices.DeleteFunc(c.subs, func(s subscriber) bool { return s.id == id })
	empty := len(c.subs) == 0
	c.mu.Unlock()

	if empty {
		c.Disconnect()
	}
}

// Disconnect cancels a pending reconnect and closes the open connection.
// It is safe to call at any time and more than once.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.epoch++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.attempts = 0
	c.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("stream close")
		}
		c.logger.Info().Msg("stream disconnected")
	}
}

func (c *Client) dial(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil || c.dialing {
		c.mu.Unlock()
		return nil
	}
	c.dialing = true
	epoch := c.epoch
	c.mu.Unlock()

	token := c.authToken(ctx)
	conn, err := c.dialer.DialContext(ctx, c.opts.URL, nil)

	c.mu.Lock()
	c.dialing = false
	if epoch != c.epoch {
		// Disconnect ran while dialing.
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return nil
	}
	if err != nil {
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		c.logger.Err(err).Str("func", "Client.dial").Msg("stream dial failed")
		return err
	}
	c.conn = conn
	c.attempts = 0
	c.mu.Unlock()

	c.logger.Info().Str("url", c.opts.URL).Msg("stream connected")

	if token != "" {
		if err = conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err == nil {
			err = conn.WriteJSON(models.NewAuthMessage(token))
		}
		if err != nil {
			// the read loop observes the broken connection and reconnects
			c.logger.Err(err).Str("func", "Client.dial").Msg("stream auth frame not sent")
		}
	}

	go c.readLoop(conn)
	return nil
}

func (c *Client) authToken(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.AuthToken(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("stream connecting without token")
		return ""
	}
	return token
}

func (c *Client) readLoop(conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(conn, err)
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) handleClose(conn Conn, cause error) {
	c.mu.Lock()
	if c.conn != conn {
		// closed by Disconnect
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.scheduleReconnectLocked()
	c.mu.Unlock()

	_ = conn.Close()
	c.logger.Warn().Err(cause).Msg("stream closed unexpectedly")
}

// scheduleReconnectLocked must be called with c.mu held.
func (c *Client) scheduleReconnectLocked() {
	if c.attempts >= c.opts.MaxAttempts {
		c.logger.Warn().
			Int("attempts", c.attempts).
			Msg("stream reconnect attempts exhausted, giving up")
		return
	}

	delay := Backoff(c.opts.BaseDelay, c.attempts)
	c.attempts++
	c.logger.Debug().
		Int("attempt", c.attempts).
		Dur("delay", delay).
		Msg("stream reconnect scheduled")

	epoch := c.epoch
	c.timer = c.afterFunc(delay, func() { c.reconnect(epoch) })
}

func (c *Client) reconnect(epoch uint64) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.HandshakeTimeout)
	defer cancel()
	_ = c.dial(ctx)
}

func (c *Client) dispatch(data []byte) {
	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.Warn().Err(err).Msg("stream message dropped: malformed envelope")
		return
	}
	if env.Type != models.EnvelopeMetrics {
		c.logger.Debug().Str("type", env.Type).Msg("stream message ignored")
		return
	}

	var m models.Metrics
	if err := json.Unmarshal(env.Body(), &m); err != nil {
		c.logger.Warn().Err(err).Msg("stream message dropped: malformed metrics")
		return
	}

	c.mu.Lock()
	subs := slices.Clone(c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(m)
	}
}
