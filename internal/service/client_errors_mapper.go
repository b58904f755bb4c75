// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/MKhiriev/orchestra/internal/validators"
)

// operation narrows the meaning of statuses that the backend reuses, e.g. a
// 401 on login is a wrong password while a 401 anywhere else is an expired
// session.
type operation int

const (
	opDefault operation = iota
	opLogin
	opRegister
	opSubscription
)

// mapAdapterError translates the adapter's transport error into a service business error
func mapAdapterError(err error, op operation) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		switch msg {
		case app.MsgWeakPassword:
			return ErrWeakPassword
		case app.MsgResetTokenInvalid:
			return ErrResetTokenInvalid
		case app.MsgUnknownOAuthProvider:
			return ErrUnknownProvider
		case app.MsgUnknownPlan:
			return ErrUnknownPlan
		}
		return fmt.Errorf("%w: %s", ErrInvalidDataProvided, msg)

	case errors.Is(err, adapter.ErrUnauthorized):
		if op == opLogin || msg == app.MsgInvalidCredentials {
			return ErrInvalidCredentials
		}
		return ErrSessionExpired

	case errors.Is(err, adapter.ErrPaymentRequired):
		return ErrPaymentRequired

	case errors.Is(err, adapter.ErrNotFound):
		switch {
		case msg == app.MsgJobNotFound:
			return ErrJobNotFound
		case msg == app.MsgNoSubscription, op == opSubscription:
			return ErrNoSubscription
		}

	case errors.Is(err, adapter.ErrConflict):
		if op == opRegister || msg == app.MsgEmailAlreadyRegistered {
			return ErrEmailTaken
		}

	case errors.Is(err, adapter.ErrTooManyRequests):
		return ErrRateLimited

	case errors.Is(err, adapter.ErrBadGateway), errors.Is(err, adapter.ErrServiceUnavailable):
		return ErrServerUnavailable

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}

// validate runs v and marks any failure as ErrInvalidDataProvided while
// keeping the validator sentinel reachable through errors.Is.
func validate(ctx context.Context, v validators.Validator, obj any, fields ...string) error {
	if err := v.Validate(ctx, obj, fields...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return nil
}
