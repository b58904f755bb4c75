package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lower-case scheme", "bearer tkn", "tkn", false},
		{"surrounding spaces", "  Bearer tkn  ", "tkn", false},
		{"empty", "", "", true},
		{"no token", "Bearer", "", true},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", true},
		{"too many parts", "Bearer a b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAuthorizationHeader) {
					t.Fatalf("expected ErrInvalidAuthorizationHeader, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseToken_Success(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signTestToken(t, jwt.RegisteredClaims{
		Subject:   "user-7",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	token, err := ParseToken(raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.Subject != "user-7" {
		t.Errorf("expected subject user-7, got %s", token.Subject)
	}
	if !token.ExpiresAt.Equal(exp) {
		t.Errorf("expected exp %v, got %v", exp, token.ExpiresAt)
	}
	if token.String() != raw {
		t.Error("expected String to return the raw token")
	}
}

// Подпись не проверяется, поэтому истёкший токен тоже разбирается.
func TestParseToken_ExpiredIsStillParsed(t *testing.T) {
	raw := signTestToken(t, jwt.RegisteredClaims{
		Subject:   "user-7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	token, err := ParseToken(raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !token.Expired(time.Now()) {
		t.Error("expected token to be expired")
	}
}

func TestParseToken_NoExpiry(t *testing.T) {
	token, err := ParseToken(signTestToken(t, jwt.RegisteredClaims{Subject: "u"}))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !token.ExpiresAt.IsZero() {
		t.Errorf("expected zero expiry, got %v", token.ExpiresAt)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	if _, err := ParseToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token, got nil")
	}
}
