package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobPending, false},
		{JobGenerating, false},
		{JobCompleted, true},
		{JobFailed, true},
		{JobStatus("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
			assert.Equal(t, tt.want, Job{Status: tt.status}.IsTerminal())
		})
	}
}

func TestEnvelope_Body(t *testing.T) {
	var withPayload Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"type":"metrics","payload":{"active_agents":1}}`), &withPayload))
	assert.JSONEq(t, `{"active_agents":1}`, string(withPayload.Body()))

	// сервер может прислать тело в поле data
	var withData Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"type":"metrics","data":{"active_agents":2}}`), &withData))
	assert.JSONEq(t, `{"active_agents":2}`, string(withData.Body()))

	assert.Empty(t, Envelope{Type: "metrics"}.Body())
}

func TestNewAuthMessage_JSON(t *testing.T) {
	b, err := json.Marshal(NewAuthMessage("tkn"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"auth","token":"tkn"}`, string(b))
}

func TestToken_Expired(t *testing.T) {
	now := time.Now()

	assert.False(t, Token{}.Expired(now), "token without exp never expires")
	assert.False(t, Token{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Token{ExpiresAt: now}.Expired(now))
	assert.True(t, Session{ExpiresAt: now.Add(-time.Second)}.Expired(now))
}

func TestAppBuildInfo_DefaultsToNA(t *testing.T) {
	info := NewAppBuildInfo("", "2026-01-01", "")
	assert.Equal(t, "N/A", info.BuildVersion())
	assert.Equal(t, "2026-01-01", info.BuildDate())
	assert.Equal(t, "N/A", info.BuildCommit())
	assert.Contains(t, info.String(), "Build date: 2026-01-01")

	assert.Equal(t, "N/A", AppBuildInfo{}.BuildCommit())
}
