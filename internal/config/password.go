package config

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Accepted bcrypt work factors.
const (
	MinBcryptCost = 10
	MaxBcryptCost = 14
)

// PasswordConfig hashes and checks account passwords. A non-empty Pepper is
// appended to every password, so changing it invalidates all stored hashes.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string
}

func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < MinBcryptCost || c.BcryptCost > MaxBcryptCost {
		return fmt.Errorf("bcrypt cost out of range: %d (must be %d-%d)", c.BcryptCost, MinBcryptCost, MaxBcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword returns the bcrypt hash stored for a new account.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("password with pepper exceeds 72 bytes: %w", err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash. Malformed hashes never
// match.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}
