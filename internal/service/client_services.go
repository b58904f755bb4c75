// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/store"
	"github.com/MKhiriev/orchestra/internal/validators"
)

type ClientServices struct {
	AuthService      AuthService
	BillingService   BillingService
	AgentService     AgentService
	GeneratorService GeneratorService
	MetricsService   MetricsService
}

func NewClientServices(
	serverAdapter adapter.ServerAdapter,
	sessions store.SessionStore,
	streamClient StreamClient,
	jobPoller JobPoller,
	logger *logger.Logger,
) *ClientServices {
	validator := validators.NewRequestValidator()

	return &ClientServices{
		AuthService:      NewClientAuthService(serverAdapter, sessions, validator, logger.Component("auth")),
		BillingService:   NewClientBillingService(serverAdapter, validator),
		AgentService:     NewClientAgentService(serverAdapter, validator, logger.Component("agent")),
		GeneratorService: NewClientGeneratorService(serverAdapter, sessions, jobPoller, validator, logger.Component("generator")),
		MetricsService:   NewClientMetricsService(streamClient, logger.Component("metrics")),
	}
}
