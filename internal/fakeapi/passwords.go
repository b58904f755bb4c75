package fakeapi

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Lighter than production values: every test account
// goes through them.
const (
	argonTime    = 1
	argonMemory  = 8 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	saltLen      = 16
)

// passwordHash is the stored form of an account password. The zero value
// (OAuth accounts) matches nothing.
type passwordHash struct {
	salt []byte
	key  []byte
}

func hashPassword(password string) passwordHash {
	salt := make([]byte, saltLen)
	_, _ = rand.Read(salt)
	return passwordHash{
		salt: salt,
		key:  argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen),
	}
}

func (h passwordHash) matches(password string) bool {
	if len(h.key) == 0 {
		return false
	}
	key := argon2.IDKey([]byte(password), h.salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(h.key, key) == 1
}
