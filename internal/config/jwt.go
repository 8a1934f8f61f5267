package config

import (
	"errors"
	"fmt"
	"time"
)

// MaxJWTExpirationHours caps session length at thirty days.
const MaxJWTExpirationHours = 30 * 24

// JWTConfig is the signing setup for session tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// TTL is how long a session token and its cookie stay valid.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return errors.New("JWT_SECRET cannot be empty")
	}
	switch {
	case c.ExpirationHours < 1:
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	case c.ExpirationHours > MaxJWTExpirationHours:
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at most %d hours, got: %d", MaxJWTExpirationHours, c.ExpirationHours)
	}
	return nil
}
