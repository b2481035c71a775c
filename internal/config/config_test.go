package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/copy-reviewer/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(strings.ToUpper(key), "")
		require.NoError(t, os.Unsetenv(strings.ToUpper(key)))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, llm.DefaultOpenRouterURL, cfg.OpenRouterBaseURL)
	assert.Equal(t, DefaultSessionLogDir, cfg.SessionLogDir)
	assert.Empty(t, cfg.AnthropicAPIKey)
}

func TestLoadConfig_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("AI_MODEL", "openai/gpt-4o")
	t.Setenv("PORT", "8080")
	t.Setenv("REQUEST_TIMEOUT", "45s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "openrouter", cfg.Provider)
	assert.Equal(t, "or-key", cfg.OpenRouterAPIKey)
	assert.Equal(t, "openai/gpt-4o", cfg.Model)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	content := "ai_provider: gemini\ngemini_api_key: file-key\nport: 9000\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "file-key", cfg.GeminiAPIKey)
	assert.Equal(t, 9100, cfg.Port)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"anthropic_api_key": "sk-file", "session_log_dir": "/tmp/sessions"}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.AnthropicAPIKey)
	assert.Equal(t, "/tmp/sessions", cfg.SessionLogDir)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{ invalid json }`), 0o644))

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"claude alias", func(c *Config) { c.Provider = "claude" }, ""},
		{"unknown provider", func(c *Config) { c.Provider = "openai" }, "unknown AI provider"},
		{"negative port", func(c *Config) { c.Port = -1 }, "'port'"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "'port'"},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, "'request_timeout'"},
		{"relative base url", func(c *Config) { c.AnthropicBaseURL = "localhost" }, "'anthropic_base_url'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	flags := Config{Model: "openai/gpt-4o", Port: 4000}
	merged := flags.MergeWithDefaults(Config{
		Model:           "ignored",
		AnthropicAPIKey: "sk-env",
		Port:            3000,
		RequestTimeout:  time.Minute,
	})

	assert.Equal(t, "openai/gpt-4o", merged.Model)
	assert.Equal(t, "sk-env", merged.AnthropicAPIKey)
	assert.Equal(t, 4000, merged.Port)
	assert.Equal(t, time.Minute, merged.RequestTimeout)
	assert.Equal(t, "", flags.AnthropicAPIKey, "receiver must not be modified")
}

func TestLLMConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Provider = "claude"
	cfg.AnthropicAPIKey = "sk"
	cfg.RequestTimeout = 30 * time.Second

	lc, err := cfg.LLMConfig()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, lc.Provider)
	assert.Equal(t, "sk", lc.AnthropicAPIKey)
	assert.Equal(t, 30*time.Second, lc.Timeout)

	cfg.Provider = "bogus"
	_, err = cfg.LLMConfig()
	assert.Error(t, err)
}
