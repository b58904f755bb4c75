package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmptyPassword      = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrEmptyPrompt        = errors.New("prompt is required")
	ErrPromptTooLong      = errors.New("prompt is too long")
	ErrEmptyPlanID        = errors.New("plan id is required")
	ErrEmptyProvider      = errors.New("oauth provider is required")
	ErrUnknownProvider    = errors.New("unknown oauth provider")
	ErrEmptyCode          = errors.New("oauth code is required")
	ErrEmptyResetToken    = errors.New("reset token is required")
	ErrInvalidRedirectURL = errors.New("invalid redirect url")
)
