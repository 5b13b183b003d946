package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// saltCost is fixed; changing it only affects newly stored hashes because
// the cost travels inside each hash string.
const saltCost = 5

// Hash salts and hashes a plaintext password for storage. The salt is
// embedded in the returned string. Plaintext must never reach storage:
// every create and password-change path calls Hash first.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), saltCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify recomputes the hash using the salt embedded in storedHash and
// compares. A mismatch returns (false, nil); a non-nil error means the
// comparison itself failed (e.g. malformed stored hash) and is an
// internal fault, not a verification failure.
func Verify(plaintext, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("compare password: %w", err)
}
