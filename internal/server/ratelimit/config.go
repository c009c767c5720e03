package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Tier names the class of an endpoint configuration.
type Tier string

// Rate limit tiers
const (
	// TierAI covers routes that call a generative AI model on every request.
	TierAI Tier = "ai"
	// TierWrite covers plain create, update and delete routes.
	TierWrite Tier = "write"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Path pattern: "*" matches one segment, a trailing "/" matches any suffix
	Method string        // HTTP method (GET, POST, etc.)
	Tier   Tier          // Tier the limits were taken from
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// TierLimits holds the limits applied to every endpoint of a tier.
type TierLimits struct {
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	defaultLimit := getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000)
	defaultWindow := getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute)
	cleanupInterval := getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute)

	whitelist := parseIPList(getEnvString("RATE_LIMIT_WHITELIST", ""))
	blacklist := parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", ""))

	ai := TierLimits{
		Limit:  getEnvInt("RATE_LIMIT_AI_LIMIT", 30),
		Window: getEnvDuration("RATE_LIMIT_AI_WINDOW", time.Hour),
		Burst:  getEnvInt("RATE_LIMIT_AI_BURST", 5),
	}
	write := TierLimits{
		Limit:  getEnvInt("RATE_LIMIT_WRITE_LIMIT", 100),
		Window: getEnvDuration("RATE_LIMIT_WRITE_WINDOW", time.Minute),
		Burst:  getEnvInt("RATE_LIMIT_WRITE_BURST", 10),
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: cleanupInterval,
		Whitelist:       whitelist,
		Blacklist:       blacklist,
		EndpointConfigs: EndpointConfigs(ai, write),
	}
}

// DefaultEndpointConfigs returns the endpoint configurations with the default tier limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return EndpointConfigs(
		TierLimits{Limit: 30, Window: time.Hour, Burst: 5},
		TierLimits{Limit: 100, Window: time.Minute, Burst: 10},
	)
}

// EndpointConfigs builds the per-route configurations from tier limits.
func EndpointConfigs(ai, write TierLimits) []EndpointConfig {
	route := func(tier Tier, l TierLimits, method, path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Tier: tier, Limit: l.Limit, Window: l.Window, Burst: l.Burst}
	}
	return []EndpointConfig{
		// Tier 1: AI-backed operations (strictest limits)
		route(TierAI, ai, "POST", "/interviews/*/start"),
		route(TierAI, ai, "POST", "/interviews/*/messages"),
		route(TierAI, ai, "POST", "/interviews/*/messages/stream"),
		route(TierAI, ai, "POST", "/challenges/*/submissions"),
		route(TierAI, ai, "POST", "/critiques"),
		route(TierAI, ai, "POST", "/companies/*/questions/import"),

		// Tier 2: Write operations (moderate limits)
		route(TierWrite, write, "POST", "/interviews"),
		route(TierWrite, write, "DELETE", "/interviews/"),
		route(TierWrite, write, "POST", "/questions"),
		route(TierWrite, write, "PUT", "/questions/"),
		route(TierWrite, write, "DELETE", "/questions/"),

		// Tier 3: Read operations (more lenient) - handled by default limit
		// Tier 4: Health and metrics (unlimited) - handled by special case in matcher
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
