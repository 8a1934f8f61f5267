package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_JWT(t *testing.T) {
	tests := []struct {
		name        string
		secret      string
		hours       int
		wantErr     bool
		errContains string
	}{
		{name: "default expiration", secret: "s3cret", hours: DefaultJWTExpirationHours},
		{name: "one hour", secret: "s3cret", hours: 1},
		{name: "missing secret", secret: "", hours: 24, wantErr: true, errContains: "JWT_SECRET"},
		{name: "zero hours", secret: "s3cret", hours: 0, wantErr: true, errContains: "at least 1 hour"},
		{name: "negative hours", secret: "s3cret", hours: -5, wantErr: true, errContains: "at least 1 hour"},
		{name: "thirty days", secret: "s3cret", hours: MaxJWTExpirationHours},
		{name: "over thirty days", secret: "s3cret", hours: MaxJWTExpirationHours + 1, wantErr: true, errContains: "at most 720 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := (&Config{JWTSecret: tt.secret, JWTExpirationHours: tt.hours}).JWT()
			if tt.wantErr {
				if err == nil {
					t.Fatal("JWT() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("JWT() error = %v, want it to contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("JWT() unexpected error: %v", err)
			}
			if cfg.Secret != tt.secret || cfg.ExpirationHours != tt.hours {
				t.Errorf("JWT() = %+v", cfg)
			}
			if got, want := cfg.TTL(), time.Duration(tt.hours)*time.Hour; got != want {
				t.Errorf("TTL() = %v, want %v", got, want)
			}
		})
	}
}
