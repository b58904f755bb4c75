package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// HashKey is the secret the local sealing key is derived from.
	HashKey string
	// Version is reported by the version command.
	Version string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the REST API base URL.
	HTTPAddress string
	// WSAddress is the metrics stream URL.
	WSAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientStream contains the reconnect policy of the stream client.
type ClientStream struct {
	BaseDelay   time.Duration
	MaxAttempts int
}

// ClientPoller contains job status polling settings.
type ClientPoller struct {
	Interval time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientLog contains logging settings.
type ClientLog struct {
	Level string
	File  string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Stream  ClientStream
	Poller  ClientPoller
	Storage ClientStorage
	Log     ClientLog
}

// GetClientConfig builds and validates the client config view from the
// merged structured configuration. fs is the parsed flag set carrying the
// flags registered by [RegisterFlags]; it may be nil.
func GetClientConfig(fs *pflag.FlagSet) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
			Version: cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			WSAddress:      cfg.Adapter.WSAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Stream: ClientStream{
			BaseDelay:   cfg.Stream.BaseDelay,
			MaxAttempts: cfg.Stream.MaxAttempts,
		},
		Poller: ClientPoller{Interval: cfg.Poller.Interval},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Log: ClientLog{
			Level: cfg.Log.Level,
			File:  cfg.Log.File,
		},
	}
}
