package ratelimit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window; zero means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment
// variables. Values that fail to parse fall back to zero.
func LoadConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("rate_limit")
	v.AutomaticEnv()
	v.SetDefault("enabled", true)
	v.SetDefault("default_limit", 1000)
	v.SetDefault("default_window", time.Minute)
	v.SetDefault("cleanup_interval", 5*time.Minute)
	v.SetDefault("idle_ttl", time.Hour)

	if !v.GetBool("enabled") {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    v.GetInt("default_limit"),
		DefaultWindow:   v.GetDuration("default_window"),
		CleanupInterval: v.GetDuration("cleanup_interval"),
		IdleTTL:         v.GetDuration("idle_ttl"),
		Whitelist:       parseIPList(v.GetString("whitelist")),
		Blacklist:       parseIPList(v.GetString("blacklist")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations,
// tiered by how many model calls or writes a request costs.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: two model calls per request
		{Path: "/api/analyze-and-improve", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/api/analyze-and-improve/stream", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},

		// Tier 2: one model call per request
		{Path: "/api/review-copy", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/improve", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		// Tier 3: database writes
		{Path: "/api/track-usage", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	ips := strings.Split(list, ",")
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}

