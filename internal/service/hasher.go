package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-task-api/internal/model"
)

// PasswordHasher wraps bcrypt with a fixed cost. Hashing is salted per call,
// so two hashes of the same password never match byte for byte.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. A mismatch is not
// an error; a hash that bcrypt cannot parse is, since it means the stored
// record is corrupt rather than the caller being wrong.
func (h *PasswordHasher) Verify(plaintext string, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, model.ErrMalformedHash
}
