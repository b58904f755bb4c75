// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/stream"
)

type clientMetricsService struct {
	stream StreamClient
	logger *logger.Logger
}

func NewClientMetricsService(streamClient StreamClient, logger *logger.Logger) MetricsService {
	return &clientMetricsService{stream: streamClient, logger: logger}
}

func (m *clientMetricsService) Subscribe(handler stream.Handler) func() {
	unsubscribe := m.stream.Subscribe(handler)
	if !m.stream.Connected() {
		m.logger.Warn().Str("func", "clientMetricsService.Subscribe").Msg("metrics stream is not connected yet, retrying in background")
	}
	return unsubscribe
}

func (m *clientMetricsService) Connected() bool {
	return m.stream.Connected()
}

func (m *clientMetricsService) Close() {
	m.stream.Disconnect()
}
