// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists the client's local state: the signed-in session and
// the generator job currently being tracked.
package store

import (
	"context"

	"github.com/MKhiriev/orchestra/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/session_store_mock.go -package=mock

// SessionStore хранит локальное состояние клиента между запусками.
// Токен сессии хранится только в зашифрованном виде.
type SessionStore interface {
	// SaveSession заменяет сохранённую сессию.
	SaveSession(ctx context.Context, session models.Session) error

	// LoadSession возвращает сохранённую сессию или ErrSessionNotFound.
	LoadSession(ctx context.Context) (models.Session, error)

	// ClearSession удаляет сессию. Отсутствие сессии ошибкой не считается.
	ClearSession(ctx context.Context) error

	// AuthToken возвращает токен сохранённой сессии или ErrSessionNotFound.
	AuthToken(ctx context.Context) (string, error)

	// SaveTrackedJob запоминает отслеживаемую задачу генерации.
	SaveTrackedJob(ctx context.Context, job models.TrackedJob) error

	// TrackedJob возвращает отслеживаемую задачу или ErrTrackedJobNotFound.
	TrackedJob(ctx context.Context) (models.TrackedJob, error)

	// ClearTrackedJob забывает отслеживаемую задачу.
	ClearTrackedJob(ctx context.Context) error

	// Close освобождает ресурсы хранилища.
	Close() error
}
