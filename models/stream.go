// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Stream message types.
const (
	EnvelopeAuth    = "auth"
	EnvelopeMetrics = "metrics"
)

// Envelope is the JSON frame exchanged over the metrics stream. The backend
// sends the body either in "payload" or in "data".
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Body returns Payload, falling back to Data when Payload is empty.
func (e Envelope) Body() json.RawMessage {
	if len(e.Payload) > 0 {
		return e.Payload
	}
	return e.Data
}

// AuthMessage is sent once right after the stream connection opens.
type AuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// NewAuthMessage returns the auth frame for token.
func NewAuthMessage(token string) AuthMessage {
	return AuthMessage{Type: EnvelopeAuth, Token: token}
}

// Metrics is the orchestration usage snapshot pushed by the backend.
type Metrics struct {
	ActiveAgents   int            `json:"active_agents"`
	QueuedTasks    int            `json:"queued_tasks"`
	CompletedTasks int64          `json:"completed_tasks"`
	FailedTasks    int64          `json:"failed_tasks"`
	TokensUsed     int64          `json:"tokens_used"`
	CostUSD        float64        `json:"cost_usd"`
	SavingsUSD     float64        `json:"savings_usd"`
	AvgLatencyMS   float64        `json:"avg_latency_ms"`
	PerAgent       map[string]int `json:"per_agent,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}
