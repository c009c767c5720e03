package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-prep/internal/llm"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"port": 9090,
		"database_url": "postgres://localhost/prep",
		"llm_provider": "openai",
		"session_ttl": "45m",
		"import_concurrency": 8,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/prep", cfg.DatabaseURL)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL.Std())
	assert.Equal(t, 8, cfg.ImportConcurrency)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	for _, ext := range []string{"config.yaml", "config.yml"} {
		t.Run(ext, func(t *testing.T) {
			path := writeConfig(t, ext, `
port: 7070
llm_provider: anthropic
anthropic_api_key: sk-ant-test
session_ttl: 90m
use_browser: true
`)
			cfg, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, 7070, cfg.Port)
			assert.Equal(t, "anthropic", cfg.LLMProvider)
			assert.Equal(t, "sk-ant-test", cfg.AnthropicAPIKey)
			assert.Equal(t, 90*time.Minute, cfg.SessionTTL.Std())
			assert.True(t, cfg.UseBrowser)
		})
	}
}

func TestLoadConfig_DurationSeconds(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.json", `{"session_ttl": 600}`))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL.Std())

	cfg, err = LoadConfig(writeConfig(t, "config.yaml", "session_ttl: 600\n"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL.Std())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.json", `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.yaml", "port: [unclosed\n"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "config.json", `{"session_ttl": "soon"}`))
	assert.ErrorContains(t, err, "invalid duration")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":               "3000",
		"DATABASE_URL":       "postgres://env/db",
		"LLM_PROVIDER":       "gemini",
		"GEMINI_API_KEY":     "gm-key",
		"SESSION_TTL":        "15m",
		"IMPORT_CONCURRENCY": "2",
		"VERBOSE":            "true",
	}
	cfg := &Config{Port: 9090, DatabaseURL: "postgres://file/db", OpenAIAPIKey: "kept"}

	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "gm-key", cfg.GeminiAPIKey)
	assert.Equal(t, "kept", cfg.OpenAIAPIKey, "unset env leaves file value")
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL.Std())
	assert.Equal(t, 2, cfg.ImportConcurrency)
	assert.True(t, cfg.Verbose)
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "eighty"},
		{"IMPORT_CONCURRENCY", "many"},
		{"SESSION_TTL", "forever"},
		{"VERBOSE", "loud"},
		{"USE_BROWSER", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.ApplyEnv(func(k string) string {
				if k == tt.key {
					return tt.value
				}
				return ""
			})
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{Port: 8080, LLMProvider: "openai"}},
		{name: "empty provider defaults", cfg: Config{}},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "port"},
		{name: "negative concurrency", cfg: Config{ImportConcurrency: -1}, wantErr: "import_concurrency"},
		{name: "negative ttl", cfg: Config{SessionTTL: Duration(-time.Second)}, wantErr: "session_ttl"},
		{name: "unknown provider", cfg: Config{LLMProvider: "llama"}, wantErr: "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	partial := Config{Port: 9000}
	merged := partial.WithDefaults()

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, DefaultSessionTTL, merged.SessionTTL.Std())
	assert.Equal(t, DefaultImportConcurrency, merged.ImportConcurrency)
	assert.Equal(t, 0, partial.ImportConcurrency, "receiver is not modified")
}

func TestAPIKey(t *testing.T) {
	cfg := Config{GeminiAPIKey: "g", OpenAIAPIKey: "o", AnthropicAPIKey: "a"}

	assert.Equal(t, llm.ProviderGemini, cfg.Provider())
	assert.Equal(t, "g", cfg.APIKey())

	cfg.LLMProvider = "OpenAI"
	assert.Equal(t, llm.ProviderOpenAI, cfg.Provider())
	assert.Equal(t, "o", cfg.APIKey())

	cfg.LLMProvider = "anthropic"
	assert.Equal(t, "a", cfg.APIKey())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", "port: 9090\nllm_provider: openai\n")
	t.Setenv("PORT", "9191")
	t.Setenv("LLM_PROVIDER", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, DefaultImportConcurrency, cfg.ImportConcurrency)
}
