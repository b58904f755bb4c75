// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CONFIG",
	"APP_HASH_KEY",
	"APP_VERSION",
	"ADAPTER_ADDRESS",
	"ADAPTER_WS_ADDRESS",
	"ADAPTER_REQUEST_TIMEOUT",
	"STREAM_BASE_DELAY",
	"STREAM_MAX_ATTEMPTS",
	"POLLER_INTERVAL",
	"STORAGE_DB_DSN",
	"LOG_LEVEL",
	"LOG_FILE",
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"CONFIG":                  "/path/to/config.yaml",
		"APP_HASH_KEY":            "seal-secret",
		"APP_VERSION":             "1.4.0",
		"ADAPTER_ADDRESS":         "https://api.example.com",
		"ADAPTER_WS_ADDRESS":      "wss://api.example.com/ws",
		"ADAPTER_REQUEST_TIMEOUT": "30s",
		"STREAM_BASE_DELAY":       "500ms",
		"STREAM_MAX_ATTEMPTS":     "7",
		"POLLER_INTERVAL":         "3s",
		"STORAGE_DB_DSN":          "/tmp/orchestra.db",
		"LOG_LEVEL":               "debug",
		"LOG_FILE":                "/tmp/orchestra.log",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.yaml", cfg.FilePath)
	assert.Equal(t, "seal-secret", cfg.App.HashKey)
	assert.Equal(t, "1.4.0", cfg.App.Version)
	assert.Equal(t, "https://api.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "wss://api.example.com/ws", cfg.Adapter.WSAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Stream.BaseDelay)
	assert.Equal(t, 7, cfg.Stream.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.Poller.Interval)
	assert.Equal(t, "/tmp/orchestra.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/orchestra.log", cfg.Log.File)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	setEnvVars(t, nil)

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{"POLLER_INTERVAL": "soon"})

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}

func TestParseEnv_InvalidInt(t *testing.T) {
	setEnvVars(t, map[string]string{"STREAM_MAX_ATTEMPTS": "many"})

	require.Error(t, parseEnv(&StructuredConfig{}))
}

// Helpers

// setEnvVars clears every variable the config reads, then sets vars.
// Original values are restored by t.Setenv on cleanup.
func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}
