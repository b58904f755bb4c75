// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/orchestra/internal/service"
)

// ErrUserQuit is returned by the login flow when the user leaves it.
var ErrUserQuit = errors.New("user quit")

// humanizeError turns service errors into messages for the status line.
// Unknown errors are shown as is.
func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Неверный e-mail или пароль"
	case errors.Is(err, service.ErrEmailTaken):
		return "Этот e-mail уже зарегистрирован"
	case errors.Is(err, service.ErrSessionExpired):
		return "Сессия истекла, войдите снова"
	case errors.Is(err, service.ErrPaymentRequired):
		return "Нужна активная подписка"
	case errors.Is(err, service.ErrRateLimited):
		return "Лимит запросов исчерпан, попробуйте позже"
	case errors.Is(err, service.ErrEmptyPrompt):
		return "Пустой запрос"
	case errors.Is(err, service.ErrJobNotFound):
		return "Задача не найдена"
	case errors.Is(err, service.ErrServerUnavailable):
		return "Отсутствует сеть или Сервер недоступен"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Отсутствует сеть или Сервер недоступен"
	}

	return err.Error()
}
