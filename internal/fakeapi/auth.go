package fakeapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/utils"
	"github.com/MKhiriev/orchestra/models"
	"github.com/go-chi/chi/v5"
)

const minPasswordLength = 8

var oauthProviders = map[string]string{
	"github": "https://github.com/login/oauth/authorize",
	"google": "https://accounts.google.com/o/oauth2/v2/auth",
}

type authResponse struct {
	Token string      `json:"token,omitempty"`
	User  models.User `json:"user"`
}

// register answers with the token in the Authorization header only.
func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req models.RegisterRequest
	if !decode(r, &req) || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, app.MsgWeakPassword)
		return
	}

	b.mu.Lock()
	if _, exists := b.accounts[req.Email]; exists {
		b.mu.Unlock()
		writeError(w, http.StatusConflict, app.MsgEmailAlreadyRegistered)
		return
	}
	acc := b.createAccountLocked(req.Email, req.Name, req.Password)
	token, err := b.issueToken(req.Email)
	b.mu.Unlock()

	if err != nil {
		log.Err(err).Msg("creation of token failed")
		writeError(w, http.StatusInternalServerError, app.MsgInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	writeJSON(w, http.StatusCreated, authResponse{User: acc.user})
}

// login answers with the token in the body only.
func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var creds models.Credentials
	if !decode(r, &creds) {
		writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}

	b.mu.Lock()
	acc, ok := b.accounts[creds.Email]
	if !ok || !acc.password.matches(creds.Password) {
		b.mu.Unlock()
		writeError(w, http.StatusUnauthorized, app.MsgInvalidCredentials)
		return
	}
	token, err := b.issueToken(creds.Email)
	user := acc.user
	b.mu.Unlock()

	if err != nil {
		log.Err(err).Msg("creation of token failed")
		writeError(w, http.StatusInternalServerError, app.MsgInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	token, _ := utils.ParseBearerToken(r.Header.Get("Authorization"))
	b.revokeToken(token)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	user := b.accounts[accountEmail(r.Context())].user
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) oauthURL(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	authorizeURL, ok := oauthProviders[provider]
	if !ok {
		writeError(w, http.StatusBadRequest, app.MsgUnknownOAuthProvider)
		return
	}

	state := b.ids.Generate()
	b.mu.Lock()
	b.oauthStates[state] = provider
	b.mu.Unlock()

	q := url.Values{}
	q.Set("state", state)
	q.Set("client_id", "orchestra-dev")
	if redirect := r.URL.Query().Get("redirect_uri"); redirect != "" {
		q.Set("redirect_uri", redirect)
	}

	writeJSON(w, http.StatusOK, models.OAuthURL{URL: authorizeURL + "?" + q.Encode(), State: state})
}

// oauthCallback signs in (creating on first use) the account
// "<code>@<provider>.oauth". The code "denied" is rejected.
func (b *Backend) oauthCallback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	provider := chi.URLParam(r, "provider")
	if _, ok := oauthProviders[provider]; !ok {
		writeError(w, http.StatusBadRequest, app.MsgUnknownOAuthProvider)
		return
	}

	var cb models.OAuthCallback
	if !decode(r, &cb) || cb.Code == "" {
		writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}
	if cb.Code == "denied" {
		writeError(w, http.StatusUnauthorized, app.MsgInvalidCredentials)
		return
	}

	b.mu.Lock()
	if cb.State != "" {
		if issuedFor, ok := b.oauthStates[cb.State]; !ok || issuedFor != provider {
			b.mu.Unlock()
			writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
			return
		}
		delete(b.oauthStates, cb.State)
	}

	email := strings.ToLower(cb.Code) + "@" + provider + ".oauth"
	acc, ok := b.accounts[email]
	if !ok {
		acc = b.createAccountLocked(email, cb.Code, "")
		acc.user.EmailVerified = true
	}
	token, err := b.issueToken(email)
	user := acc.user
	b.mu.Unlock()

	if err != nil {
		log.Err(err).Msg("creation of token failed")
		writeError(w, http.StatusInternalServerError, app.MsgInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	writeJSON(w, http.StatusOK, authResponse{User: user})
}

// forgotPassword always answers 202 so that registered addresses cannot be
// probed.
func (b *Backend) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if !decode(r, &req) || req.Email == "" {
		writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}

	b.mu.Lock()
	if _, ok := b.accounts[req.Email]; ok {
		for token, owner := range b.resetTokens {
			if owner == req.Email {
				delete(b.resetTokens, token)
			}
		}
		b.resetTokens[b.ids.Generate()] = req.Email
	}
	b.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
}

func (b *Backend) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetConfirm
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, app.MsgWeakPassword)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	email, ok := b.resetTokens[req.Token]
	if !ok {
		writeError(w, http.StatusBadRequest, app.MsgResetTokenInvalid)
		return
	}
	delete(b.resetTokens, req.Token)
	b.accounts[email].password = hashPassword(req.Password)

	w.WriteHeader(http.StatusNoContent)
}

// createAccountLocked stores a new free account. Callers hold b.mu.
func (b *Backend) createAccountLocked(email, name, password string) *account {
	acc := &account{
		user: models.User{
			ID:        b.ids.Generate(),
			Email:     email,
			Name:      name,
			CreatedAt: b.now().UTC(),
		},
	}
	if password != "" {
		acc.password = hashPassword(password)
	}
	b.accounts[email] = acc
	return acc
}
