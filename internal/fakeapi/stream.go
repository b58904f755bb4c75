// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package fakeapi

import (
	"encoding/json"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/models"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait = 5 * time.Second
	streamAuthWait  = 5 * time.Second
)

type streamConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *streamConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *streamConn) close(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(streamWriteWait)
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	_ = c.conn.Close()
}

// stream upgrades to a websocket, sends the current metrics snapshot and
// then pushes one snapshot per change until the client disconnects.
func (b *Backend) stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Msg("websocket upgrade failed")
		return
	}
	sc := &streamConn{conn: conn}

	if b.requireStreamAuth && !b.authenticateStream(conn) {
		log.Warn().Msg("stream auth frame missing or invalid")
		sc.close(websocket.ClosePolicyViolation, "unauthorized")
		return
	}

	b.mu.Lock()
	b.streams[sc] = struct{}{}
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	if data, err := marshalMetrics(snapshot); err == nil {
		_ = sc.write(data)
	}

	// auth and keep-alive frames from the client are read and dropped
	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			break
		}
	}

	b.mu.Lock()
	delete(b.streams, sc)
	b.mu.Unlock()
	_ = conn.Close()
}

func (b *Backend) authenticateStream(conn *websocket.Conn) bool {
	_ = conn.SetReadDeadline(time.Now().Add(streamAuthWait))
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	var auth models.AuthMessage
	if err := conn.ReadJSON(&auth); err != nil || auth.Type != models.EnvelopeAuth {
		return false
	}
	_, err := b.verifyToken(auth.Token)
	return err == nil
}

// PushMetrics replaces the metrics state and sends m unchanged to every
// stream.
func (b *Backend) PushMetrics(m models.Metrics) {
	b.mu.Lock()
	b.metrics = m
	b.mu.Unlock()

	b.broadcast(m)
}

// Heartbeat sends the current snapshot, with a fresh timestamp, to every
// stream.
func (b *Backend) Heartbeat() {
	b.mu.Lock()
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	b.broadcast(snapshot)
}

// SendRaw writes data as-is to every stream.
func (b *Backend) SendRaw(data []byte) {
	for _, sc := range b.liveStreams() {
		_ = sc.write(data)
	}
}

// DropStreams closes every stream connection as a server restart would.
func (b *Backend) DropStreams() {
	for _, sc := range b.liveStreams() {
		sc.close(websocket.CloseGoingAway, "restarting")
	}
}

// StreamCount returns the number of open stream connections.
func (b *Backend) StreamCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.streams)
}

func (b *Backend) broadcast(m models.Metrics) {
	data, err := marshalMetrics(m)
	if err != nil {
		b.logger.Err(err).Str("func", "Backend.broadcast").Msg("error marshalling metrics")
		return
	}

	for _, sc := range b.liveStreams() {
		if err = sc.write(data); err != nil {
			b.logger.Debug().Err(err).Msg("dropping stream after failed write")
			sc.close(websocket.CloseInternalServerErr, "write failed")
		}
	}
}

func (b *Backend) liveStreams() []*streamConn {
	b.mu.Lock()
	defer b.mu.Unlock()

	conns := make([]*streamConn, 0, len(b.streams))
	for sc := range b.streams {
		conns = append(conns, sc)
	}
	return conns
}

// snapshotLocked derives the pushed snapshot from the counters. Callers hold b.mu.
func (b *Backend) snapshotLocked() models.Metrics {
	m := b.metrics
	m.PerAgent = maps.Clone(b.metrics.PerAgent)
	m.ActiveAgents = len(m.PerAgent)
	m.SavingsUSD = m.CostUSD * 4
	if m.CompletedTasks > 0 && m.AvgLatencyMS == 0 {
		m.AvgLatencyMS = 420
	}
	m.Timestamp = b.now().UTC()
	return m
}

func marshalMetrics(m models.Metrics) ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.Envelope{Type: models.EnvelopeMetrics, Payload: payload})
}
