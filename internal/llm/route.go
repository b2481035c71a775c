package llm

import "strings"

// TransportKind names one of the closed set of transports
type TransportKind string

// Transport kinds
const (
	TransportNative TransportKind = "native"
	TransportHTTP   TransportKind = "http"
	TransportGemini TransportKind = "gemini"
)

// Route selects the transport for a call. A namespaced model id such as
// "openai/gpt-4o" always goes over the HTTP transport.
func Route(model string, provider Provider) TransportKind {
	if strings.Contains(model, "/") || provider == ProviderOpenRouter {
		return TransportHTTP
	}
	if provider == ProviderGemini {
		return TransportGemini
	}
	return TransportNative
}
