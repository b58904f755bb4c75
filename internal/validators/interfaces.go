// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks outbound request models before they reach the
// backend.
//
// [Validator] is the generic interface; [RequestValidator] implements it for
// the auth, billing, agent and generator requests. Optional field names
// restrict validation to a subset of fields, e.g. validating only the e-mail
// of a login form while the user is still typing the password.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
