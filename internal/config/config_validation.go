// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// MemoryDSN selects the non-persistent session store.
const MemoryDSN = ":memory:"

// validate checks source-independent invariants of the merged config.
// Negative durations and counts are rejected here; required fields are
// checked by the client view.
func (cfg *StructuredConfig) validate() error {
	if cfg.Adapter.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalidAdapterConfigs)
	}
	if cfg.Stream.BaseDelay < 0 || cfg.Stream.MaxAttempts < 0 {
		return fmt.Errorf("%w: negative reconnect policy", ErrInvalidStreamConfigs)
	}
	if cfg.Poller.Interval < 0 {
		return fmt.Errorf("%w: negative interval", ErrInvalidPollerConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if err := validateWSAddress(cfg.Adapter.WSAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAdapterConfigs, err)
	}

	if cfg.Stream.BaseDelay == 0 || cfg.Stream.MaxAttempts == 0 {
		return ErrInvalidStreamConfigs
	}

	if cfg.Poller.Interval == 0 {
		return ErrInvalidPollerConfigs
	}

	// the in-memory store keeps nothing on disk, so nothing needs sealing
	if cfg.App.HashKey == "" && cfg.Storage.DB.DSN != MemoryDSN {
		return ErrInvalidAppConfigs
	}

	return nil
}

func validateWSAddress(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("stream address must use ws or wss scheme, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("stream address must include host")
	}
	return nil
}
