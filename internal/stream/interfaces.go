// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package stream keeps a single reconnecting connection to the backend
// metrics stream and fans decoded metrics snapshots out to local
// subscribers.
package stream

import (
	"context"
	"net/http"
	"time"
)

// Conn is the subset of *websocket.Conn used by [Client].
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer opens stream connections.
type Dialer interface {
	DialContext(ctx context.Context, url string, header http.Header) (Conn, error)
}

// TokenSource returns the locally stored bearer token. An error or an empty
// token means the connection is opened without the auth frame.
type TokenSource interface {
	AuthToken(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a plain function to [TokenSource].
type TokenSourceFunc func(ctx context.Context) (string, error)

// AuthToken implements [TokenSource].
func (f TokenSourceFunc) AuthToken(ctx context.Context) (string, error) {
	return f(ctx)
}

type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}
