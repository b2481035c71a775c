// Package llm provides the provider adapter used to reach the language model.
// A pure routing function picks one of a closed set of transports per call.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider is the configured default backend
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderAnthropic uses the native Anthropic Messages API
	ProviderAnthropic Provider = "anthropic"
	// ProviderOpenRouter uses the OpenRouter chat-completions endpoint
	ProviderOpenRouter Provider = "openrouter"
	// ProviderGemini uses Google Gemini
	ProviderGemini Provider = "gemini"
)

// ParseProvider maps a setting value to a Provider. "claude" is accepted as
// an alias for anthropic and an empty value selects anthropic.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "claude", string(ProviderAnthropic):
		return ProviderAnthropic, nil
	case string(ProviderOpenRouter):
		return ProviderOpenRouter, nil
	case string(ProviderGemini):
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown AI provider %q", s)
	}
}

// Operation identifies which prompt family a call belongs to
type Operation string

// Operations
const (
	OperationReview  Operation = "review"
	OperationImprove Operation = "improve"
)

// Prefill fragments seeded into the assistant turn
const (
	ReviewPrefill  = "{\n    \"overallScore\":"
	ImprovePrefill = "{\n    \"improvedSubject\":\""
)

// MaxTokens is the completion limit for every operation
const MaxTokens = 3000

// DefaultTimeout bounds a single provider call
const DefaultTimeout = 60 * time.Second

// Default models per transport
const (
	DefaultAnthropicModel  = "claude-sonnet-4-5-20250929"
	DefaultOpenRouterModel = "anthropic/claude-sonnet-4-5:beta"
	DefaultGeminiModel     = "gemini-2.5-flash"
)

// DefaultOpenRouterURL is the base URL of the OpenRouter API
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// Settings are the fixed per-operation sampling parameters
type Settings struct {
	Temperature float64
	MaxTokens   int
	Prefill     string
}

// SettingsFor returns the settings of an operation. Review samples cooler
// than improve; neither is caller-configurable.
func SettingsFor(op Operation) Settings {
	switch op {
	case OperationImprove:
		return Settings{Temperature: 0.8, MaxTokens: MaxTokens, Prefill: ImprovePrefill}
	default:
		return Settings{Temperature: 0.7, MaxTokens: MaxTokens, Prefill: ReviewPrefill}
	}
}

// Config holds provider selection and credentials
type Config struct {
	Provider Provider
	// Model overrides the transport default when a request names no model
	Model string

	AnthropicAPIKey   string
	AnthropicBaseURL  string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	GeminiAPIKey      string

	Timeout time.Duration
}

// DefaultConfig returns the default configuration (native Anthropic, 60s timeout)
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderAnthropic,
		OpenRouterBaseURL: DefaultOpenRouterURL,
		Timeout:           DefaultTimeout,
	}
}

// DefaultModel returns the model used by a transport when none was requested
func DefaultModel(kind TransportKind) string {
	switch kind {
	case TransportHTTP:
		return DefaultOpenRouterModel
	case TransportGemini:
		return DefaultGeminiModel
	default:
		return DefaultAnthropicModel
	}
}
