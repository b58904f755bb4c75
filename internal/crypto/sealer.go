// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrEmptyKey is returned by [NewSealer] for an empty hash key.
	ErrEmptyKey = errors.New("empty sealing key")
	// ErrOpenFailed is returned by Open when the blob cannot be decrypted.
	ErrOpenFailed = errors.New("sealed data cannot be opened")
)

// sealSalt domain-separates the derived sealing key from any other use of
// the same hash key.
const sealSalt = "orchestra/local-session/v1"

// sealer is the AES-256-GCM implementation of [Sealer].
type sealer struct {
	gcm cipher.AEAD
}

// argon2id parameters recommended by OWASP (2024).
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32 // 256 bits
)

// NewSealer derives a 256-bit key from hashKey with Argon2id and returns a
// [Sealer] using it. The derivation is deterministic, so a session sealed by
// one process can be opened by the next one started with the same key.
func NewSealer(hashKey string) (Sealer, error) {
	if hashKey == "" {
		return nil, ErrEmptyKey
	}

	key := argon2.IDKey([]byte(hashKey), []byte(sealSalt), argonTime, argonMemory, argonThreads, argonKeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &sealer{gcm: gcm}, nil
}

// Seal implements [Sealer]. A random 12-byte nonce is prepended to the
// ciphertext: blob = nonce ‖ ciphertext.
func (s *sealer) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := s.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open implements [Sealer].
func (s *sealer) Open(sealed string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(blob) < nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrOpenFailed)
	}

	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	// an error here almost always means a different hash key
	plain, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	return plain, nil
}
