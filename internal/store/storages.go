// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/orchestra/internal/config"
	"github.com/MKhiriev/orchestra/internal/crypto"
	"github.com/MKhiriev/orchestra/internal/logger"
)

// NewSessionStore initialises the client storage layer:
//  1. For the ":memory:" DSN it returns the in-process store.
//  2. Otherwise it opens the SQLite file at cfg.DB.DSN, creating it if
//     needed, and runs pending migrations via [DB.Migrate].
//
// sealer is required for the SQLite store.
func NewSessionStore(ctx context.Context, cfg config.ClientStorage, sealer crypto.Sealer, logger *logger.Logger) (SessionStore, error) {
	if cfg.DB.DSN == config.MemoryDSN {
		logger.Info().Msg("using in-memory session store")
		return NewMemorySessionStore(), nil
	}
	if sealer == nil {
		return nil, errors.New("sqlite session store requires a sealer")
	}

	logger.Info().Str("dsn", cfg.DB.DSN).Msg("opening session store...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewSQLiteSessionStore(db, sealer, logger), nil
}
