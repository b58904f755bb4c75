package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestParseFile_JSON(t *testing.T) {
	p := writeConfigFile(t, "config.json", `{
		"app": { "hash_key": "seal", "version": "2.0.0" },
		"adapter": {
			"http_address": "https://api.example.com",
			"ws_address": "wss://api.example.com/ws",
			"request_timeout": "20s"
		},
		"stream": { "base_delay": "250ms", "max_attempts": 3 },
		"poller": { "interval": 1000000000 },
		"storage": { "db": { "dsn": "local.db" } },
		"log": { "level": "warn", "file": "out.log" }
	}`)

	cfg, err := parseFile(p)
	require.NoError(t, err)

	assert.Equal(t, "seal", cfg.App.HashKey)
	assert.Equal(t, "2.0.0", cfg.App.Version)
	assert.Equal(t, "https://api.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "wss://api.example.com/ws", cfg.Adapter.WSAddress)
	assert.Equal(t, 20*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Stream.BaseDelay)
	assert.Equal(t, 3, cfg.Stream.MaxAttempts)
	// числовое значение трактуется как наносекунды
	assert.Equal(t, time.Second, cfg.Poller.Interval)
	assert.Equal(t, "local.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "out.log", cfg.Log.File)
	assert.Empty(t, cfg.FilePath)
}

func TestParseFile_YAML(t *testing.T) {
	p := writeConfigFile(t, "config.yaml", `
app:
  hash_key: seal
adapter:
  http_address: https://api.example.com
  ws_address: wss://api.example.com/ws
  request_timeout: 10s
stream:
  base_delay: 2s
  max_attempts: 4
poller:
  interval: 5s
storage:
  db:
    dsn: yaml.db
log:
  level: error
`)

	cfg, err := parseFile(p)
	require.NoError(t, err)

	assert.Equal(t, "seal", cfg.App.HashKey)
	assert.Equal(t, "https://api.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Stream.BaseDelay)
	assert.Equal(t, 4, cfg.Stream.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Poller.Interval)
	assert.Equal(t, "yaml.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestParseFile_YMLExtension(t *testing.T) {
	p := writeConfigFile(t, "config.yml", "poller:\n  interval: 1500000000\n")

	cfg, err := parseFile(p)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Poller.Interval)
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := parseFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a config file")
}

func TestParseFile_InvalidJSON(t *testing.T) {
	p := writeConfigFile(t, "config.json", `{"adapter": `)

	_, err := parseFile(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseFile_InvalidYAMLDuration(t *testing.T) {
	p := writeConfigFile(t, "config.yaml", "poller:\n  interval: whenever\n")

	_, err := parseFile(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding yaml configs")
}

func TestParseFile_InvalidJSONDuration(t *testing.T) {
	p := writeConfigFile(t, "config.json", `{"stream": {"base_delay": true}}`)

	_, err := parseFile(p)
	require.Error(t, err)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
