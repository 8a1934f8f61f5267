// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration. Values come from defaults, an
// optional YAML file, and environment variables, in increasing precedence.
// Environment variable names are the upper-cased keys, e.g. DATABASE_URL.
type Config struct {
	// HTTP
	Port          int    `mapstructure:"port"`
	PublicBaseURL string `mapstructure:"public_base_url"` // Origin used in canonical URLs

	// Storage
	DatabaseURL   string        `mapstructure:"database_url"`
	RedisAddr     string        `mapstructure:"redis_addr"` // Empty disables the careers page cache
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`

	// Auth
	JWTSecret                string `mapstructure:"jwt_secret"`
	JWTExpirationHours       int    `mapstructure:"jwt_expiration_hours"`
	AuthCookieName           string `mapstructure:"auth_cookie_name"`
	AuthCookieSecure         bool   `mapstructure:"auth_cookie_secure"`
	// AuthTrustIdentityHeaders honors x-user-id/x-user-role. Enable it only
	// behind a proxy that strips or overwrites those headers on every request.
	AuthTrustIdentityHeaders bool   `mapstructure:"auth_trust_identity_headers"`
	RecruiterCode            string `mapstructure:"recruiter_code"`
	BcryptCost               int    `mapstructure:"bcrypt_cost"`
	PasswordPepper           string `mapstructure:"password_pepper"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Rate limiting
	RateLimitEnabled       bool          `mapstructure:"rate_limit_enabled"`
	RateLimitDefaultLimit  int           `mapstructure:"rate_limit_default_limit"`
	RateLimitDefaultWindow time.Duration `mapstructure:"rate_limit_default_window"`
}

// Default values
const (
	DefaultPort               = 8080
	DefaultJWTExpirationHours = 168
	DefaultCookieName         = "token"
	DefaultBcryptCost         = 10
	DefaultCacheTTL           = 5 * time.Minute
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiration_hours", DefaultJWTExpirationHours)
	v.SetDefault("auth_cookie_name", DefaultCookieName)
	v.SetDefault("auth_cookie_secure", false)
	v.SetDefault("auth_trust_identity_headers", false)
	v.SetDefault("recruiter_code", "")
	v.SetDefault("bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("password_pepper", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_default_limit", 100)
	v.SetDefault("rate_limit_default_window", time.Minute)
}

// Load reads configuration. path names an optional YAML file; when empty,
// config.yaml is looked up in ./configs and the working directory and may be
// absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	var problems []string

	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT out of range: %d", c.Port))
	}
	if c.CacheTTL < 0 {
		problems = append(problems, "CACHE_TTL must be non-negative")
	}
	if c.AuthCookieName == "" {
		problems = append(problems, "AUTH_COOKIE_NAME cannot be empty")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	if c.RateLimitEnabled && (c.RateLimitDefaultLimit < 1 || c.RateLimitDefaultWindow <= 0) {
		problems = append(problems, "RATE_LIMIT_DEFAULT_LIMIT and RATE_LIMIT_DEFAULT_WINDOW must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config error: %s", strings.Join(problems, "; "))
	}
	return nil
}

// JWT derives the token configuration.
func (c *Config) JWT() (*JWTConfig, error) {
	jc := &JWTConfig{
		Secret:          c.JWTSecret,
		ExpirationHours: c.JWTExpirationHours,
	}
	if err := jc.normalize(); err != nil {
		return nil, err
	}
	return jc, nil
}

// Password derives the password hashing configuration.
func (c *Config) Password() (*PasswordConfig, error) {
	pc := &PasswordConfig{
		BcryptCost: c.BcryptCost,
		Pepper:     c.PasswordPepper,
	}
	if err := pc.normalize(); err != nil {
		return nil, err
	}
	return pc, nil
}
