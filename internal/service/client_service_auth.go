package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/store"
	"github.com/MKhiriev/orchestra/internal/utils"
	"github.com/MKhiriev/orchestra/internal/validators"
	"github.com/MKhiriev/orchestra/models"
)

type clientAuthService struct {
	adapter   adapter.ServerAdapter
	sessions  store.SessionStore
	validator validators.Validator
	now       func() time.Time

	logger *logger.Logger
}

func NewClientAuthService(serverAdapter adapter.ServerAdapter, sessions store.SessionStore, validator validators.Validator, logger *logger.Logger) AuthService {
	return &clientAuthService{
		adapter:   serverAdapter,
		sessions:  sessions,
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

func (a *clientAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	if err := validate(ctx, a.validator, req); err != nil {
		return models.User{}, err
	}

	auth, err := a.adapter.Register(ctx, req)
	if err != nil {
		return models.User{}, mapAdapterError(err, opRegister)
	}

	return a.persist(ctx, auth)
}

func (a *clientAuthService) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	if err := validate(ctx, a.validator, creds); err != nil {
		return models.User{}, err
	}

	auth, err := a.adapter.Login(ctx, creds)
	if err != nil {
		return models.User{}, mapAdapterError(err, opLogin)
	}

	return a.persist(ctx, auth)
}

func (a *clientAuthService) Logout(ctx context.Context) error {
	remoteErr := a.adapter.Logout(ctx)
	if remoteErr != nil {
		a.logger.Warn().Err(remoteErr).Str("func", "clientAuthService.Logout").Msg("backend logout failed, clearing local session anyway")
	}

	localErr := errors.Join(a.sessions.ClearSession(ctx), a.sessions.ClearTrackedJob(ctx))
	if localErr != nil {
		return fmt.Errorf("clear local session: %w", localErr)
	}

	// an expired token is already as logged out as it gets
	if remoteErr != nil && !errors.Is(remoteErr, adapter.ErrUnauthorized) {
		return mapAdapterError(remoteErr, opDefault)
	}
	return nil
}

func (a *clientAuthService) StartOAuth(ctx context.Context, provider, redirectURI string) (models.OAuthURL, error) {
	if err := validators.ValidateProvider(provider); err != nil {
		return models.OAuthURL{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if redirectURI != "" {
		if err := validators.ValidateRedirectURL(redirectURI); err != nil {
			return models.OAuthURL{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
	}

	u, err := a.adapter.OAuthURL(ctx, provider, redirectURI)
	if err != nil {
		return models.OAuthURL{}, mapAdapterError(err, opDefault)
	}
	return u, nil
}

func (a *clientAuthService) CompleteOAuth(ctx context.Context, cb models.OAuthCallback) (models.User, error) {
	if err := validate(ctx, a.validator, cb); err != nil {
		return models.User{}, err
	}

	auth, err := a.adapter.OAuthCallback(ctx, cb)
	if err != nil {
		return models.User{}, mapAdapterError(err, opLogin)
	}

	return a.persist(ctx, auth)
}

func (a *clientAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	req := models.PasswordResetRequest{Email: email}
	if err := validate(ctx, a.validator, req); err != nil {
		return err
	}

	return mapAdapterError(a.adapter.RequestPasswordReset(ctx, req), opDefault)
}

func (a *clientAuthService) ResetPassword(ctx context.Context, token, password string) error {
	req := models.PasswordResetConfirm{Token: token, Password: password}
	if err := validate(ctx, a.validator, req); err != nil {
		return err
	}

	return mapAdapterError(a.adapter.ResetPassword(ctx, req), opDefault)
}

func (a *clientAuthService) RestoreSession(ctx context.Context) (models.Session, error) {
	session, err := a.sessions.LoadSession(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.Session{}, ErrNotSignedIn
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}

	if session.Expired(a.now()) {
		if clearErr := a.sessions.ClearSession(ctx); clearErr != nil {
			a.logger.Err(clearErr).Str("func", "clientAuthService.RestoreSession").Msg("error clearing expired session")
		}
		return models.Session{}, ErrSessionExpired
	}

	a.adapter.SetToken(session.Token)
	return session, nil
}

func (a *clientAuthService) CurrentUser(ctx context.Context) (models.User, error) {
	user, err := a.adapter.CurrentUser(ctx)
	if err != nil {
		return models.User{}, mapAdapterError(err, opDefault)
	}

	session, err := a.sessions.LoadSession(ctx)
	if err != nil {
		return user, nil
	}
	session.User = user
	if err = a.sessions.SaveSession(ctx, session); err != nil {
		a.logger.Err(err).Str("func", "clientAuthService.CurrentUser").Msg("error refreshing stored profile")
	}

	return user, nil
}

// persist stores the token the adapter now holds together with the profile.
// Opaque (non-JWT) tokens are stored without expiry.
func (a *clientAuthService) persist(ctx context.Context, auth models.AuthSession) (models.User, error) {
	token := a.adapter.Token()
	if token == "" {
		token = auth.Token
	}

	session := models.Session{Token: token, User: auth.User}
	if parsed, err := utils.ParseToken(token); err == nil {
		session.ExpiresAt = parsed.ExpiresAt
		if session.User.ID == "" {
			session.User.ID = parsed.Subject
		}
	} else {
		a.logger.Debug().Str("func", "clientAuthService.persist").Msg("token is not a JWT, storing without expiry")
	}

	if err := a.sessions.SaveSession(ctx, session); err != nil {
		return models.User{}, fmt.Errorf("save session: %w", err)
	}

	return session.User, nil
}
