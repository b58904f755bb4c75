package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/mock"
	"github.com/MKhiriev/orchestra/internal/store"
	"github.com/MKhiriev/orchestra/internal/validators"
	"github.com/MKhiriev/orchestra/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var authNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

// newTestAuthSvc: хелпер для создания clientAuthService с моками
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (*clientAuthService, *mock.MockServerAdapter, *mock.MockSessionStore) {
	t.Helper()
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockStore := mock.NewMockSessionStore(ctrl)

	svc := NewClientAuthService(mockAdapter, mockStore, validators.NewRequestValidator(), logger.Nop()).(*clientAuthService)
	svc.now = func() time.Time { return authNow }

	return svc, mockAdapter, mockStore
}

// signedToken выпускает JWT так же, как это делает бэкенд; клиент подпись не проверяет.
func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestClientAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	creds := models.Credentials{Email: "alice@example.com", Password: "pw"}
	expires := authNow.Add(24 * time.Hour).Truncate(time.Second)
	token := signedToken(t, "u-1", expires)

	gomock.InOrder(
		mockAdapter.EXPECT().Login(ctx, creds).Return(models.AuthSession{User: models.User{Email: creds.Email}}, nil),
		mockAdapter.EXPECT().Token().Return(token),
		mockStore.EXPECT().SaveSession(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, s models.Session) error {
				assert.Equal(t, token, s.Token)
				assert.True(t, expires.Equal(s.ExpiresAt), "срок жизни берётся из claim exp")
				// ID пользователя подставляется из sub, если бэкенд его не прислал
				assert.Equal(t, "u-1", s.User.ID)
				return nil
			},
		),
	)

	user, err := svc.Login(ctx, creds)

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, creds.Email, user.Email)
}

func TestClientAuthService_Login_OpaqueTokenHasNoExpiry(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(ctx, gomock.Any()).Return(models.AuthSession{User: models.User{ID: "u-2"}}, nil)
	mockAdapter.EXPECT().Token().Return("opaque-token")
	mockStore.EXPECT().SaveSession(ctx, models.Session{Token: "opaque-token", User: models.User{ID: "u-2"}}).Return(nil)

	_, err := svc.Login(ctx, models.Credentials{Email: "bob@example.com", Password: "pw"})
	assert.NoError(t, err)
}

func TestClientAuthService_Login_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Login(ctx, gomock.Any()).
		Return(models.AuthSession{}, fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgInvalidCredentials))

	_, err := svc.Login(ctx, models.Credentials{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestClientAuthService_Login_ValidationFailsBeforeNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	// адаптер не должен вызываться вообще: gomock упадёт на неожиданном вызове
	_, err := svc.Login(context.Background(), models.Credentials{Email: "nope", Password: "pw"})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrInvalidEmail)
}

func TestClientAuthService_Login_SaveSessionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	diskErr := errors.New("disk full")

	mockAdapter.EXPECT().Login(ctx, gomock.Any()).Return(models.AuthSession{}, nil)
	mockAdapter.EXPECT().Token().Return("opaque")
	mockStore.EXPECT().SaveSession(ctx, gomock.Any()).Return(diskErr)

	_, err := svc.Login(ctx, models.Credentials{Email: "alice@example.com", Password: "pw"})
	assert.ErrorIs(t, err, diskErr)
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestClientAuthService_Register_EmailTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().Register(ctx, gomock.Any()).
		Return(models.AuthSession{}, fmt.Errorf("%w: %s", adapter.ErrConflict, "duplicate"))

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "alice@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestClientAuthService_Register_ShortPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "alice@example.com", Password: "short"})
	assert.ErrorIs(t, err, validators.ErrPasswordTooShort)
}

func TestClientAuthService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	req := models.RegisterRequest{Email: "carol@example.com", Password: "longenough", Name: "Carol"}

	mockAdapter.EXPECT().Register(ctx, req).Return(models.AuthSession{User: models.User{ID: "u-3", Name: "Carol"}}, nil)
	mockAdapter.EXPECT().Token().Return("tok")
	mockStore.EXPECT().SaveSession(ctx, gomock.Any()).Return(nil)

	user, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Carol", user.Name)
}

// ── Logout ───────────────────────────────────────────────────────────────────

func TestClientAuthService_Logout(t *testing.T) {
	tests := []struct {
		name      string
		remoteErr error
		wantErr   error
	}{
		{name: "ok"},
		{name: "expired token is not an error", remoteErr: fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpired)},
		{name: "backend down", remoteErr: fmt.Errorf("%w: %s", adapter.ErrServiceUnavailable, ""), wantErr: ErrServerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
			ctx := context.Background()

			mockAdapter.EXPECT().Logout(ctx).Return(tt.remoteErr)
			// локальное состояние очищается в любом случае
			mockStore.EXPECT().ClearSession(ctx).Return(nil)
			mockStore.EXPECT().ClearTrackedJob(ctx).Return(nil)

			err := svc.Logout(ctx)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClientAuthService_Logout_LocalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	lockErr := errors.New("database is locked")

	mockAdapter.EXPECT().Logout(ctx).Return(nil)
	mockStore.EXPECT().ClearSession(ctx).Return(lockErr)
	mockStore.EXPECT().ClearTrackedJob(ctx).Return(nil)

	assert.ErrorIs(t, svc.Logout(ctx), lockErr)
}

// ── RestoreSession ───────────────────────────────────────────────────────────

func TestClientAuthService_RestoreSession_NotSignedIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().LoadSession(ctx).Return(models.Session{}, store.ErrSessionNotFound)

	_, err := svc.RestoreSession(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestClientAuthService_RestoreSession_Expired(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockStore.EXPECT().LoadSession(ctx).Return(models.Session{Token: "old", ExpiresAt: authNow.Add(-time.Minute)}, nil)
	mockStore.EXPECT().ClearSession(ctx).Return(nil)

	_, err := svc.RestoreSession(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestClientAuthService_RestoreSession_Valid(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	stored := models.Session{Token: "tok", User: models.User{ID: "u-1"}, ExpiresAt: authNow.Add(time.Hour)}

	mockStore.EXPECT().LoadSession(ctx).Return(stored, nil)
	mockAdapter.EXPECT().SetToken("tok")

	got, err := svc.RestoreSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

// ── CurrentUser ──────────────────────────────────────────────────────────────

func TestClientAuthService_CurrentUser_RefreshesStoredProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	fresh := models.User{ID: "u-1", Plan: "pro"}

	mockAdapter.EXPECT().CurrentUser(ctx).Return(fresh, nil)
	mockStore.EXPECT().LoadSession(ctx).Return(models.Session{Token: "tok", User: models.User{ID: "u-1", Plan: "free"}}, nil)
	mockStore.EXPECT().SaveSession(ctx, models.Session{Token: "tok", User: fresh}).Return(nil)

	user, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pro", user.Plan)
}

func TestClientAuthService_CurrentUser_Expired(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().CurrentUser(ctx).
		Return(models.User{}, fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpired))

	_, err := svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

// ── OAuth / password reset ───────────────────────────────────────────────────

func TestClientAuthService_StartOAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().OAuthURL(ctx, "github", "http://localhost:7777/cb").
		Return(models.OAuthURL{URL: "https://github.com/login/oauth", State: "s"}, nil)

	u, err := svc.StartOAuth(ctx, "github", "http://localhost:7777/cb")
	require.NoError(t, err)
	assert.Equal(t, "s", u.State)

	_, err = svc.StartOAuth(ctx, "myspace", "")
	assert.ErrorIs(t, err, validators.ErrUnknownProvider)
}

func TestClientAuthService_CompleteOAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, mockStore := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	cb := models.OAuthCallback{Provider: "google", Code: "code", State: "s"}

	mockAdapter.EXPECT().OAuthCallback(ctx, cb).Return(models.AuthSession{User: models.User{ID: "u-9"}}, nil)
	mockAdapter.EXPECT().Token().Return("tok")
	mockStore.EXPECT().SaveSession(ctx, gomock.Any()).Return(nil)

	user, err := svc.CompleteOAuth(ctx, cb)
	require.NoError(t, err)
	assert.Equal(t, "u-9", user.ID)
}

func TestClientAuthService_PasswordReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockAdapter, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockAdapter.EXPECT().RequestPasswordReset(ctx, models.PasswordResetRequest{Email: "alice@example.com"}).Return(nil)
	assert.NoError(t, svc.RequestPasswordReset(ctx, "alice@example.com"))

	mockAdapter.EXPECT().ResetPassword(ctx, models.PasswordResetConfirm{Token: "t", Password: "longenough"}).
		Return(fmt.Errorf("%w: %s", adapter.ErrBadRequest, app.MsgResetTokenInvalid))
	assert.ErrorIs(t, svc.ResetPassword(ctx, "t", "longenough"), ErrResetTokenInvalid)

	assert.ErrorIs(t, svc.ResetPassword(ctx, "", "longenough"), validators.ErrEmptyResetToken)
}
