// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package fakeapi

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errTokenRevoked   = errors.New("token revoked")
	errUnknownAccount = errors.New("token subject has no account")
)

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// issueToken returns a signed token for email. Callers hold b.mu.
func (b *Backend) issueToken(email string) (string, error) {
	acc := b.accounts[email]
	now := b.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        b.ids.Generate(),
			Subject:   acc.user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(b.tokenTTL)),
		},
		Email: email,
	})

	signed, err := token.SignedString(b.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// verifyToken returns the e-mail of the account tokenString belongs to.
func (b *Backend) verifyToken(tokenString string) (string, error) {
	c := claims{}
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		return b.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(b.now),
	)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.revoked[c.ID]; ok {
		return "", errTokenRevoked
	}
	if _, ok := b.accounts[c.Email]; !ok {
		return "", errUnknownAccount
	}
	return c.Email, nil
}

// revokeToken invalidates tokenString. Unparseable tokens are ignored.
func (b *Backend) revokeToken(tokenString string) {
	c := claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &c); err != nil {
		return
	}

	b.mu.Lock()
	b.revoked[c.ID] = struct{}{}
	b.mu.Unlock()
}
