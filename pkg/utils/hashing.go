package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	MinPasswordIterations     = 100_000
	DefaultPasswordIterations = 210_000

	saltLength = 32
	keyLength  = 32
)

// PasswordHasher derives PBKDF2-HMAC-SHA256 keys with a per-user salt.
type PasswordHasher struct {
	iterations int
	dummySalt  []byte
}

func NewPasswordHasher(iterations int) *PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultPasswordIterations
	}
	dummy, err := randomBytes(saltLength)
	if err != nil {
		dummy = make([]byte, saltLength)
	}
	return &PasswordHasher{iterations: iterations, dummySalt: dummy}
}

// HashPassword returns hex encoded hash and salt.
func (h *PasswordHasher) HashPassword(password string) (string, string, error) {
	salt, err := randomBytes(saltLength)
	if err != nil {
		return "", "", err
	}
	key := pbkdf2.Key([]byte(password), salt, h.iterations, keyLength, sha256.New)
	return hex.EncodeToString(key), hex.EncodeToString(salt), nil
}

func (h *PasswordHasher) ComparePasswords(hashedPassword, salt, plainPassword string) bool {
	want, err := hex.DecodeString(hashedPassword)
	if err != nil {
		return false
	}
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(plainPassword), rawSalt, h.iterations, keyLength, sha256.New)
	return subtle.ConstantTimeCompare(want, got) == 1
}

// BurnCycles runs one derivation against a throwaway salt so that unknown
// emails cost as much as wrong passwords.
func (h *PasswordHasher) BurnCycles(plainPassword string) {
	_ = pbkdf2.Key([]byte(plainPassword), h.dummySalt, h.iterations, keyLength, sha256.New)
}

func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}

	bytes, err := randomBytes(length)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
