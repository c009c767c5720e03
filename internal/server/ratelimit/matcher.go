package ratelimit

import (
	"strings"
)

// unlimited is returned for health and metrics probes.
var unlimited = EndpointConfig{Limit: 0}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact patterns win over prefix patterns; "*" in a pattern matches a single
// path segment such as an id.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Special case: probes are unlimited
	if method == "GET" && (path == "/health" || path == "/metrics") {
		cfg := unlimited
		return &cfg
	}

	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && !strings.HasSuffix(config.Path, "/") && segmentsMatch(config.Path, path) {
			return config
		}
	}

	// Prefix patterns end with "/" and need at least one more segment
	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}

func segmentsMatch(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(segs) {
		return false
	}
	for i := range ps {
		if ps[i] != "*" && ps[i] != segs[i] {
			return false
		}
	}
	return true
}
