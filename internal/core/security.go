// Gesco | 2026
// security.go

package core

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinBcryptRounds = 4
	MaxBcryptRounds = 18
)

// HashPassword derives a bcrypt verifier with the given work factor. The
// output is self-describing (salt and cost embedded), so VerifyPassword
// needs only the stored hash.
func HashPassword(password string, rounds int) (string, error) {
	if rounds < MinBcryptRounds || rounds > MaxBcryptRounds {
		return "", fmt.Errorf(
			"hash password: rounds %d out of [%d,%d]",
			rounds,
			MinBcryptRounds,
			MaxBcryptRounds,
		)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), rounds)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword checks a cleartext candidate against a stored bcrypt hash.
// Comparison is constant-time inside bcrypt; a malformed hash verifies as
// false rather than raising.
func VerifyPassword(password, encodedHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	return err == nil
}

// dummyHash is burned at init with the minimum cost so that verification
// against a missing user costs roughly the same as against a real one.
var dummyHash string

func init() {
	hash, err := bcrypt.GenerateFromPassword(
		[]byte("gesco_dummy_password_for_timing"),
		MinBcryptRounds,
	)
	if err != nil {
		panic(fmt.Sprintf("security: failed to generate dummy hash: %v", err))
	}
	dummyHash = string(hash)
}

// VerifyPasswordTimingSafe behaves like VerifyPassword but always performs
// a bcrypt comparison, substituting a dummy hash when no stored hash exists.
// Unknown logins therefore take as long as wrong passwords.
func VerifyPasswordTimingSafe(password string, encodedHash *string) bool {
	hashToVerify := dummyHash
	if encodedHash != nil && *encodedHash != "" {
		hashToVerify = *encodedHash
	}

	valid := VerifyPassword(password, hashToVerify)

	if encodedHash == nil || *encodedHash == "" {
		return false
	}

	return valid
}

// NeedsRehash reports whether a stored hash was produced with a different
// cost than the configured one, so logins can transparently upgrade it.
func NeedsRehash(encodedHash string, rounds int) bool {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return true
	}
	return cost != rounds
}

// IsBcryptHash reports whether the stored value parses as a bcrypt hash at
// all. Used by import paths that must reject foreign hash formats.
func IsBcryptHash(encodedHash string) bool {
	_, err := bcrypt.Cost([]byte(encodedHash))
	return !errors.Is(err, bcrypt.ErrHashTooShort) && err == nil
}
