package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/orchestra/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidAuthorizationHeader is returned by [ParseBearerToken] for any
// value that is not "Bearer <token>".
var ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrInvalidAuthorizationHeader
	}
	return parts[1], nil
}

// ParseToken reads the subject and expiry claims of a backend-issued JWT
// without verifying its signature. The client holds no signing key; it reads
// the claims only to decide whether a stored session is still usable.
//
// Returns an error if tokenString is not a well-formed JWT.
func ParseToken(tokenString string) (models.Token, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return models.Token{}, fmt.Errorf("error parsing token: %w", err)
	}

	token := models.Token{Raw: tokenString, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}

	return token, nil
}
