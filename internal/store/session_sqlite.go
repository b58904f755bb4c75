// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/orchestra/internal/crypto"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/models"
)

type sqliteSessionStore struct {
	*DB
	sealer crypto.Sealer
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteSessionStore returns a [SessionStore] backed by db. Tokens are
// sealed with sealer before they reach the database.
func NewSQLiteSessionStore(db *DB, sealer crypto.Sealer, logger *logger.Logger) SessionStore {
	return &sqliteSessionStore{
		DB:     db,
		sealer: sealer,
		logger: logger,
		now:    time.Now,
	}
}

func (s *sqliteSessionStore) SaveSession(ctx context.Context, session models.Session) error {
	sealed, err := s.sealer.Seal([]byte(session.Token))
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteSessionStore.SaveSession").Msg("failed to seal token")
		return fmt.Errorf("seal token: %w", err)
	}
	if session.SavedAt.IsZero() {
		session.SavedAt = s.now().UTC()
	}

	query, args, err := buildSaveSession(sealed, session)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "sqliteSessionStore.SaveSession").
			Str("user_id", session.User.ID).
			Msg("failed to save session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteSessionStore) LoadSession(ctx context.Context) (models.Session, error) {
	query, args, err := buildLoadSession()
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	sealed, session, err := scanSession(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteSessionStore.LoadSession").Msg("failed to scan session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	token, err := s.sealer.Open(sealed)
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "sqliteSessionStore.LoadSession").Msg("stored token cannot be opened")
		return models.Session{}, fmt.Errorf("%w: %w", ErrUnsealingToken, err)
	}
	session.Token = string(token)

	return session, nil
}

func (s *sqliteSessionStore) ClearSession(ctx context.Context) error {
	return s.clear(ctx, sessionTable)
}

func (s *sqliteSessionStore) AuthToken(ctx context.Context) (string, error) {
	session, err := s.LoadSession(ctx)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func (s *sqliteSessionStore) SaveTrackedJob(ctx context.Context, job models.TrackedJob) error {
	if job.StartedAt.IsZero() {
		job.StartedAt = s.now().UTC()
	}

	query, args, err := buildSaveTrackedJob(job)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "sqliteSessionStore.SaveTrackedJob").
			Str("job_id", job.JobID).
			Msg("failed to save tracked job")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteSessionStore) TrackedJob(ctx context.Context) (models.TrackedJob, error) {
	query, args, err := buildLoadTrackedJob()
	if err != nil {
		return models.TrackedJob{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var job models.TrackedJob
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&job.JobID, &job.Prompt, &job.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TrackedJob{}, ErrTrackedJobNotFound
	}
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteSessionStore.TrackedJob").Msg("failed to scan tracked job")
		return models.TrackedJob{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return job, nil
}

func (s *sqliteSessionStore) ClearTrackedJob(ctx context.Context) error {
	return s.clear(ctx, trackedJobTable)
}

func (s *sqliteSessionStore) clear(ctx context.Context, table string) error {
	query, args, err := buildClear(table)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteSessionStore.clear").Str("table", table).Msg("failed to clear table")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteSessionStore) Close() error {
	return s.DB.Close()
}
