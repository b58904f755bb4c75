// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/orchestra/models"
)

type memorySessionStore struct {
	mu      sync.RWMutex
	session *models.Session
	job     *models.TrackedJob
}

// NewMemorySessionStore returns a [SessionStore] that keeps everything in
// process memory. Nothing survives a restart.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{}
}

func (m *memorySessionStore) SaveSession(_ context.Context, session models.Session) error {
	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now().UTC()
	}

	m.mu.Lock()
	m.session = &session
	m.mu.Unlock()
	return nil
}

func (m *memorySessionStore) LoadSession(_ context.Context) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return models.Session{}, ErrSessionNotFound
	}
	return *m.session, nil
}

func (m *memorySessionStore) ClearSession(_ context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}

func (m *memorySessionStore) AuthToken(ctx context.Context) (string, error) {
	session, err := m.LoadSession(ctx)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func (m *memorySessionStore) SaveTrackedJob(_ context.Context, job models.TrackedJob) error {
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}

	m.mu.Lock()
	m.job = &job
	m.mu.Unlock()
	return nil
}

func (m *memorySessionStore) TrackedJob(_ context.Context) (models.TrackedJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.job == nil {
		return models.TrackedJob{}, ErrTrackedJobNotFound
	}
	return *m.job, nil
}

func (m *memorySessionStore) ClearTrackedJob(_ context.Context) error {
	m.mu.Lock()
	m.job = nil
	m.mu.Unlock()
	return nil
}

func (m *memorySessionStore) Close() error {
	return nil
}
