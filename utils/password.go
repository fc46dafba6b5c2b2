package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"chronolens/apperr"
)

// argon2id parameters for password hashing. Stored hashes are
// "salt.hash" with both parts standard-base64 encoded.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("%s.%s",
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash)), nil
}

// ComparePassword checks password against a stored salt.hash value. Any
// mismatch, including an unparseable stored value, reads as a failed login
// rather than an internal error.
func ComparePassword(password, stored string) error {
	parts := strings.Split(stored, ".")
	if len(parts) != 2 {
		return apperr.New(apperr.Unauthenticated, "incorrect email or password")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return apperr.New(apperr.Unauthenticated, "incorrect email or password")
	}
	want, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return apperr.New(apperr.Unauthenticated, "incorrect email or password")
	}

	got := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	if subtle.ConstantTimeCompare(want, got) != 1 {
		return apperr.New(apperr.Unauthenticated, "incorrect email or password")
	}
	return nil
}
