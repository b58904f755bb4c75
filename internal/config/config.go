// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// StructuredConfig is the top-level configuration container for the
// orchestra client. It is populated by merging built-in defaults,
// environment variables, command-line flags, and an optional JSON or YAML
// file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the local sealing key and
	// the application version.
	App App `envPrefix:"APP_"`

	// Adapter holds the backend addresses and the outbound request timeout.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Stream holds the reconnect policy of the metrics stream client.
	Stream Stream `envPrefix:"STREAM_"`

	// Poller holds the generator job status polling settings.
	Poller Poller `envPrefix:"POLLER_"`

	// Storage holds configuration for the local session database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Log holds the client log level and destination.
	Log Log `envPrefix:"LOG_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from defaults, environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	FilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// HashKey is the secret the local sealing key is derived from. The
	// stored session token is encrypted under it.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Adapter holds the backend endpoints used by the client.
type Adapter struct {
	// HTTPAddress is the base URL of the REST API (e.g. "https://api.example.com").
	// A missing scheme defaults to http.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// WSAddress is the URL of the metrics stream (e.g. "wss://api.example.com/ws").
	// Env: ADAPTER_WS_ADDRESS
	WSAddress string `env:"WS_ADDRESS"`

	// RequestTimeout bounds a single outbound HTTP request and the stream
	// handshake (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Stream holds the reconnect policy of the metrics stream.
type Stream struct {
	// BaseDelay is the delay before the first reconnect; attempt n waits
	// BaseDelay × 2^n.
	// Env: STREAM_BASE_DELAY
	BaseDelay time.Duration `env:"BASE_DELAY"`

	// MaxAttempts is the number of reconnects tried before giving up.
	// Env: STREAM_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`
}

// Poller holds job status polling settings.
type Poller struct {
	// Interval is the pause between two status fetches.
	// Env: POLLER_INTERVAL
	Interval time.Duration `env:"INTERVAL"`
}

// Storage groups the configuration for the local storage backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path or DSN ("orchestra.db",
	// "file:orchestra.db?_busy_timeout=5000"). ":memory:" selects the
	// non-persistent in-memory store.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Log holds logging settings.
type Log struct {
	// Level is one of trace, debug, info, warn, error.
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`

	// File is the log file path. Empty means orchestra.log next to the
	// executable.
	// Env: LOG_FILE
	File string `env:"FILE"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags from fs (only flags set explicitly)
//  4. JSON or YAML file (path resolved from sources 2 and 3)
//
// fs may be nil, in which case the flag layer is skipped.
func GetStructuredConfig(fs *pflag.FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(fs).
		withFile().
		build()
}
