package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/aelexs/listshare-platform/internal/domain"
)

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword checks a plaintext password against a stored bcrypt hash.
// A mismatch returns domain.ErrUnauthorized; callers never learn whether
// the hash or the password was at fault.
func ComparePassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("compare password: %w", domain.ErrUnauthorized)
	}
	return nil
}
