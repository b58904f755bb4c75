package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid backend endpoint settings
	// (for example, missing HTTP address, non-ws stream URL or zero timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing hash key with a persistent store).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStreamConfigs indicates an unusable reconnect policy.
	ErrInvalidStreamConfigs = errors.New("invalid stream configuration")
	// ErrInvalidPollerConfigs indicates a zero or negative poll interval.
	ErrInvalidPollerConfigs = errors.New("invalid poller configuration")
)
