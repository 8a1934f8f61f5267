package ratelimit

import (
	"path"
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact paths win over globs, and globs over prefixes ending in "/".
func MatchEndpoint(p string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && (p == "/health" || p == "/metrics") {
		return &EndpointConfig{}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && c.Path == p {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.Contains(c.Path, "*") {
			continue
		}
		if ok, err := path.Match(c.Path, p); err == nil && ok {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(p, c.Path) {
			return c
		}
	}

	return nil
}
