// Package credentials owns password hashing and verification for every
// persistence backend.
package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is deliberately above bcrypt.DefaultCost so digests stay expensive
// to brute-force.
const HashCost = 12

// HashPassword returns the bcrypt digest of a plaintext password.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword checks a candidate against a stored digest. A mismatch is
// (false, nil); an error is only returned when the stored digest itself is
// malformed.
func VerifyPassword(digest, candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("stored password digest is malformed: %w", err)
}
