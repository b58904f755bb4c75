// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the message strings the orchestration backend writes
// into error response bodies.
//
// The client matches on them to tell apart failures that share an HTTP status
// (e.g. a 401 for bad credentials versus a 401 for an expired token). The
// in-process fake backend used by tests writes the same strings.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidCredentials is returned when the e-mail/password pair does
	// not match an account.
	MsgInvalidCredentials = "invalid email or password"

	// MsgEmailAlreadyRegistered is returned on registration with an e-mail
	// that already has an account.
	MsgEmailAlreadyRegistered = "email already registered"

	// MsgWeakPassword is returned when the backend rejects a new password.
	MsgWeakPassword = "password is too weak"

	// MsgTokenIsExpired is returned when a bearer token is well-formed but
	// past its expiry.
	MsgTokenIsExpired = "token is expired"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token cannot be
	// verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgResetTokenInvalid is returned when a password reset link is used
	// twice or after it expired.
	MsgResetTokenInvalid = "reset token is invalid or expired"

	// MsgUnknownOAuthProvider is returned for providers the backend has no
	// client registered for.
	MsgUnknownOAuthProvider = "unknown oauth provider"

	// MsgSubscriptionRequired is returned with 402 when the operation needs
	// an active paid plan.
	MsgSubscriptionRequired = "active subscription required"

	// MsgNoSubscription is returned with 404 when the account never had a
	// subscription.
	MsgNoSubscription = "no subscription"

	// MsgUnknownPlan is returned when a checkout names a plan that does not
	// exist.
	MsgUnknownPlan = "unknown plan"

	// MsgQuotaExceeded is returned with 429 when the monthly token quota or
	// the request rate limit is exhausted.
	MsgQuotaExceeded = "quota exceeded"

	// MsgJobNotFound is returned when a generator job id is unknown.
	MsgJobNotFound = "job not found"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"
)
