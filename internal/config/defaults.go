package config

import "time"

// Built-in defaults, the lowest-priority configuration layer.
const (
	DefaultHTTPAddress       = "http://localhost:8080"
	DefaultWSAddress         = "ws://localhost:8080/ws"
	DefaultRequestTimeout    = 15 * time.Second
	DefaultStreamBaseDelay   = time.Second
	DefaultStreamMaxAttempts = 5
	DefaultPollInterval      = 2 * time.Second
	DefaultDSN               = "orchestra.db"
	DefaultLogLevel          = "info"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    DefaultHTTPAddress,
			WSAddress:      DefaultWSAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Stream: Stream{
			BaseDelay:   DefaultStreamBaseDelay,
			MaxAttempts: DefaultStreamMaxAttempts,
		},
		Poller:  Poller{Interval: DefaultPollInterval},
		Storage: Storage{DB: DB{DSN: DefaultDSN}},
		Log:     Log{Level: DefaultLogLevel},
	}
}
