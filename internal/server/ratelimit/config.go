package ratelimit

import (
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, glob ("/api/jobs/*/apply") or prefix ending in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig builds a configuration with the default endpoint tiers.
func NewConfig(enabled bool, defaultLimit int, defaultWindow time.Duration) *Config {
	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: credential checks
		{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},

		// Tier 2: applications
		{Path: "/api/jobs/*/apply", Method: "POST", Limit: 30, Window: time.Hour, Burst: 10},

		// Tier 3: writes
		{Path: "/api/company", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/companies", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/company/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/company/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/company/", Method: "PATCH", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/company/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/applications/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},

		// Reads use the default limit; /health and /metrics are unlimited.
	}
}
