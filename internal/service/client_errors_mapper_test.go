package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/stretchr/testify/assert"
)

func httpErr(sentinel error, body string) error {
	return fmt.Errorf("%w: %s", sentinel, body)
}

func TestMapAdapterError(t *testing.T) {
	other := errors.New("something else")

	tests := []struct {
		name string
		err  error
		op   operation
		want error
	}{
		{"nil", nil, opDefault, nil},
		{"401 on login", httpErr(adapter.ErrUnauthorized, "nope"), opLogin, ErrInvalidCredentials},
		{"401 invalid credentials message", httpErr(adapter.ErrUnauthorized, app.MsgInvalidCredentials), opDefault, ErrInvalidCredentials},
		{"401 elsewhere", httpErr(adapter.ErrUnauthorized, app.MsgTokenIsExpired), opDefault, ErrSessionExpired},
		{"402", httpErr(adapter.ErrPaymentRequired, app.MsgSubscriptionRequired), opDefault, ErrPaymentRequired},
		{"409 on register", httpErr(adapter.ErrConflict, ""), opRegister, ErrEmailTaken},
		{"409 email message", httpErr(adapter.ErrConflict, app.MsgEmailAlreadyRegistered), opDefault, ErrEmailTaken},
		{"404 job", httpErr(adapter.ErrNotFound, app.MsgJobNotFound), opDefault, ErrJobNotFound},
		{"404 subscription", httpErr(adapter.ErrNotFound, ""), opSubscription, ErrNoSubscription},
		{"404 other", httpErr(adapter.ErrNotFound, "route"), opDefault, adapter.ErrNotFound},
		{"400 weak password", httpErr(adapter.ErrBadRequest, app.MsgWeakPassword), opRegister, ErrWeakPassword},
		{"400 reset token", httpErr(adapter.ErrBadRequest, app.MsgResetTokenInvalid), opDefault, ErrResetTokenInvalid},
		{"400 provider", httpErr(adapter.ErrBadRequest, app.MsgUnknownOAuthProvider), opDefault, ErrUnknownProvider},
		{"400 plan", httpErr(adapter.ErrBadRequest, app.MsgUnknownPlan), opDefault, ErrUnknownPlan},
		{"400 generic", httpErr(adapter.ErrBadRequest, "prompt: required"), opDefault, ErrInvalidDataProvided},
		{"429", httpErr(adapter.ErrTooManyRequests, app.MsgQuotaExceeded), opDefault, ErrRateLimited},
		{"502", httpErr(adapter.ErrBadGateway, ""), opDefault, ErrServerUnavailable},
		{"503", httpErr(adapter.ErrServiceUnavailable, ""), opDefault, ErrServerUnavailable},
		{"network", fmt.Errorf("plans request: %w", &net.OpError{Op: "dial", Err: errors.New("connection refused")}), opDefault, ErrServerUnavailable},
		{"cancelled", fmt.Errorf("plans request: %w", context.Canceled), opDefault, context.Canceled},
		{"passthrough", other, opDefault, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapAdapterError(tt.err, tt.op)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapAdapterError_GenericBadRequestKeepsMessage(t *testing.T) {
	err := mapAdapterError(httpErr(adapter.ErrBadRequest, "prompt: required"), opDefault)

	assert.EqualError(t, err, "invalid data provided: prompt: required")
}

func TestExtractBody(t *testing.T) {
	assert.Equal(t, "token is expired", extractBody(errors.New("client unauthorized: token is expired")))
	assert.Equal(t, "plain", extractBody(errors.New("plain")))
}
