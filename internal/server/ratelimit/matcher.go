package ratelimit

import "strings"

// MatchEndpoint resolves a request path and method to an endpoint
// configuration, or nil when only the default applies. Patterns ending in
// "/" match by prefix, so "/api/sessions/" covers "/api/sessions/{id}/...".
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Limit: 0}
	}

	for i := range configs {
		c := &configs[i]
		if c.Path == path && c.Method == method {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
