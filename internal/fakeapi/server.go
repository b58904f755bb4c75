// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/orchestra/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server serves a Backend on a TCP address.
type Server struct {
	backend *Backend
	server  *http.Server
	logger  *logger.Logger
}

// NewServer returns a Server for backend listening on addr.
func NewServer(backend *Backend, addr string, logger *logger.Logger) *Server {
	return &Server{
		backend: backend,
		server: &http.Server{
			Addr:              addr,
			Handler:           backend.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run listens and serves until ctx is cancelled, then shuts down gracefully.
// onListen, if not nil, receives the bound address once the listener is up.
func (s *Server) Run(ctx context.Context, onListen func(addr string)) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	if onListen != nil {
		onListen(ln.Addr().String())
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("launching dev backend")
		serveErr <- s.server.Serve(ln)
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// hijacked websocket connections are not tracked by http.Server
	s.backend.DropStreams()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown dev backend: %w", err)
	}

	s.logger.Info().Msg("dev backend shut down gracefully")
	return nil
}
