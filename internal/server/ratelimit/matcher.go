package ratelimit

import "strings"

// unlimitedEndpoints are never rate limited, whatever the configured table holds
var unlimitedEndpoints = []EndpointConfig{
	{Path: "/health", Method: "GET"},
	{Path: "/metrics", Method: "GET"},
}

// MatchEndpoint returns the config governing a request, or nil when neither
// the unlimited table nor configs covers it. An exact path wins; otherwise the
// longest configured prefix ending in "/" applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if ec := match(path, method, unlimitedEndpoints); ec != nil {
		return ec
	}
	return match(path, method, configs)
}

func match(path, method string, configs []EndpointConfig) *EndpointConfig {
	var best *EndpointConfig
	for i := range configs {
		ec := &configs[i]
		if ec.Method != method {
			continue
		}
		if ec.Path == path {
			return ec
		}
		if strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) &&
			(best == nil || len(ec.Path) > len(best.Path)) {
			best = ec
		}
	}
	return best
}
