// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/orchestra/models"
	"github.com/asaskevich/govalidator"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNewPassword = "new_password"
	FieldPrompt      = "prompt"
	FieldPlanID      = "plan_id"
	FieldProvider    = "provider"
	FieldCode        = "code"
	FieldResetToken  = "reset_token"
	FieldRedirectURL = "redirect_url"
)

const (
	// MinPasswordLength applies to new passwords only. Existing passwords are
	// checked by the backend.
	MinPasswordLength = 8

	// MaxPromptLength is the longest prompt, in characters, the client sends.
	MaxPromptLength = 32_000
)

// OAuthProviders lists the identity providers the backend supports.
var OAuthProviders = []string{"github", "google"}

// RequestValidator implements [Validator] for the outbound request models:
// Credentials, RegisterRequest, PasswordResetRequest, PasswordResetConfirm,
// OAuthCallback, CheckoutRequest, PromptRequest and GenerateRequest.
//
// Both value and pointer forms are accepted. Optional field names restrict
// validation to that subset.
type RequestValidator struct {
}

// NewRequestValidator constructs a RequestValidator.
func NewRequestValidator() Validator {
	return &RequestValidator{}
}

// Validate dispatches on the dynamic type of obj. Returns ErrUnsupportedType
// for any other type.
func (v *RequestValidator) Validate(_ context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Credentials:
		return v.validateCredentials(value, fields...)
	case *models.Credentials:
		return v.validateCredentials(*value, fields...)

	case models.RegisterRequest:
		return v.validateRegister(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegister(*value, fields...)

	case models.PasswordResetRequest:
		return v.validateEmail(value.Email)
	case *models.PasswordResetRequest:
		return v.validateEmail(value.Email)

	case models.PasswordResetConfirm:
		return v.validateResetConfirm(value, fields...)
	case *models.PasswordResetConfirm:
		return v.validateResetConfirm(*value, fields...)

	case models.OAuthCallback:
		return v.validateOAuthCallback(value, fields...)
	case *models.OAuthCallback:
		return v.validateOAuthCallback(*value, fields...)

	case models.CheckoutRequest:
		return v.validateCheckout(value, fields...)
	case *models.CheckoutRequest:
		return v.validateCheckout(*value, fields...)

	case models.PromptRequest:
		return v.validatePrompt(value.Prompt)
	case *models.PromptRequest:
		return v.validatePrompt(value.Prompt)

	case models.GenerateRequest:
		return v.validatePrompt(value.Prompt)
	case *models.GenerateRequest:
		return v.validatePrompt(value.Prompt)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateCredentials(c models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := v.validateEmail(c.Email); err != nil {
				return err
			}
		case FieldPassword:
			if c.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateRegister(r models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldNewPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if err := v.validateEmail(r.Email); err != nil {
				return err
			}
		case FieldNewPassword:
			if err := validateNewPassword(r.Password); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateResetConfirm(r models.PasswordResetConfirm, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldResetToken, FieldNewPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldResetToken:
			if strings.TrimSpace(r.Token) == "" {
				return ErrEmptyResetToken
			}
		case FieldNewPassword:
			if err := validateNewPassword(r.Password); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateOAuthCallback(cb models.OAuthCallback, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldProvider, FieldCode, FieldRedirectURL}
	}

	for _, f := range fields {
		switch f {
		case FieldProvider:
			if err := ValidateProvider(cb.Provider); err != nil {
				return err
			}
		case FieldCode:
			if strings.TrimSpace(cb.Code) == "" {
				return ErrEmptyCode
			}
		case FieldRedirectURL:
			if cb.RedirectURI == "" {
				continue
			}
			if err := ValidateRedirectURL(cb.RedirectURI); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateCheckout(r models.CheckoutRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPlanID, FieldRedirectURL}
	}

	for _, f := range fields {
		switch f {
		case FieldPlanID:
			if strings.TrimSpace(r.PlanID) == "" {
				return ErrEmptyPlanID
			}
		case FieldRedirectURL:
			for _, u := range []string{r.SuccessURL, r.CancelURL} {
				if u == "" {
					continue
				}
				if err := ValidateRedirectURL(u); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateEmail(email string) error {
	if !govalidator.IsEmail(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

func (v *RequestValidator) validatePrompt(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyPrompt
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return ErrPromptTooLong
	}
	return nil
}

func validateNewPassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateProvider checks provider against [OAuthProviders].
func ValidateProvider(provider string) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return ErrEmptyProvider
	}
	if !slices.Contains(OAuthProviders, strings.ToLower(provider)) {
		return ErrUnknownProvider
	}
	return nil
}

// ValidateRedirectURL accepts absolute http(s) URLs.
func ValidateRedirectURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidRedirectURL
	}
	return nil
}
