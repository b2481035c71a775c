// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/copy-reviewer/internal/llm"
)

// Config is the service configuration. Values come from environment
// variables, optionally layered over a JSON or YAML config file.
type Config struct {
	Provider          string        `mapstructure:"ai_provider"`
	Model             string        `mapstructure:"ai_model"`
	AnthropicAPIKey   string        `mapstructure:"anthropic_api_key"`
	AnthropicBaseURL  string        `mapstructure:"anthropic_base_url"`
	OpenRouterAPIKey  string        `mapstructure:"openrouter_api_key"`
	OpenRouterBaseURL string        `mapstructure:"openrouter_base_url"`
	GeminiAPIKey      string        `mapstructure:"gemini_api_key"`
	DatabaseURL       string        `mapstructure:"database_url"`
	SessionLogDir     string        `mapstructure:"session_log_dir"`
	Port              int           `mapstructure:"port"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
}

// keys lists every setting; each is bound to its upper-case environment variable
var keys = []string{
	"ai_provider",
	"ai_model",
	"anthropic_api_key",
	"anthropic_base_url",
	"openrouter_api_key",
	"openrouter_base_url",
	"gemini_api_key",
	"database_url",
	"session_log_dir",
	"port",
	"request_timeout",
}

// Default values
const (
	DefaultPort          = 3000
	DefaultSessionLogDir = "logs"
)

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	return Config{
		Provider:          string(llm.ProviderAnthropic),
		OpenRouterBaseURL: llm.DefaultOpenRouterURL,
		SessionLogDir:     DefaultSessionLogDir,
		Port:              DefaultPort,
		RequestTimeout:    llm.DefaultTimeout,
	}
}

// LoadConfig reads the environment and, when path is non-empty, a config
// file. Environment variables take precedence over the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("ai_provider", defaults.Provider)
	v.SetDefault("openrouter_base_url", defaults.OpenRouterBaseURL)
	v.SetDefault("session_log_dir", defaults.SessionLogDir)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("request_timeout", defaults.RequestTimeout)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound *os.PathError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values. Credentials are
// not required here; a missing key surfaces as an auth error when a call is
// routed to that transport.
func (c *Config) Validate() error {
	if _, err := llm.ParseProvider(c.Provider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config error: 'request_timeout' must be non-negative")
	}
	for name, raw := range map[string]string{
		"anthropic_base_url":  c.AnthropicBaseURL,
		"openrouter_base_url": c.OpenRouterBaseURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: '%s' is not an absolute URL: %q", name, raw)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Command-line flags use it to layer their values over the loaded config.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	for _, pair := range []struct {
		dst *string
		src string
	}{
		{&result.Provider, defaults.Provider},
		{&result.Model, defaults.Model},
		{&result.AnthropicAPIKey, defaults.AnthropicAPIKey},
		{&result.AnthropicBaseURL, defaults.AnthropicBaseURL},
		{&result.OpenRouterAPIKey, defaults.OpenRouterAPIKey},
		{&result.OpenRouterBaseURL, defaults.OpenRouterBaseURL},
		{&result.GeminiAPIKey, defaults.GeminiAPIKey},
		{&result.DatabaseURL, defaults.DatabaseURL},
		{&result.SessionLogDir, defaults.SessionLogDir},
	} {
		if *pair.dst == "" {
			*pair.dst = pair.src
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}

	return result
}

// LLMConfig converts the settings into the provider adapter configuration
func (c *Config) LLMConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return nil, err
	}
	cfg := llm.DefaultConfig()
	cfg.Provider = provider
	cfg.Model = c.Model
	cfg.AnthropicAPIKey = c.AnthropicAPIKey
	cfg.AnthropicBaseURL = c.AnthropicBaseURL
	cfg.OpenRouterAPIKey = c.OpenRouterAPIKey
	if c.OpenRouterBaseURL != "" {
		cfg.OpenRouterBaseURL = c.OpenRouterBaseURL
	}
	cfg.GeminiAPIKey = c.GeminiAPIKey
	if c.RequestTimeout > 0 {
		cfg.Timeout = c.RequestTimeout
	}
	return cfg, nil
}
