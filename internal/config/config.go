// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/interview-prep/internal/llm"
)

// Defaults applied by WithDefaults.
const (
	DefaultPort              = 8080
	DefaultSessionTTL        = 2 * time.Hour
	DefaultImportConcurrency = 4
)

// Config represents the service configuration that can be loaded from a JSON
// or YAML file. All fields are optional; environment variables override file
// values and missing values use defaults.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL

	// AI
	LLMProvider     string `json:"llm_provider,omitempty" yaml:"llm_provider,omitempty"` // gemini, openai or anthropic
	GeminiAPIKey    string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`
	OpenAIAPIKey    string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"`

	// Behavior
	SessionTTL        Duration `json:"session_ttl,omitempty" yaml:"session_ttl,omitempty"`               // Idle interview session lifetime, e.g. "90m"
	ImportConcurrency int      `json:"import_concurrency,omitempty" yaml:"import_concurrency,omitempty"` // Parallel page fetches per import
	UseBrowser        bool     `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`               // Use headless browser for SPA sites
	Verbose           bool     `json:"verbose,omitempty" yaml:"verbose,omitempty"`                       // Debug logging
}

// Duration is a time.Duration written as a string ("30m") in config files.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return d.parse(s)
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// UnmarshalYAML accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var secs float64
	if err := node.Decode(&secs); err == nil {
		*d = Duration(time.Duration(secs * float64(time.Second)))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration at line %d: %w", node.Line, err)
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
// (.yaml and .yml are YAML, anything else is JSON).
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load reads the optional config file at path, applies environment overrides
// and fills defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	result := cfg.WithDefaults()
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.LLMProvider, "LLM_PROVIDER")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := getenv("IMPORT_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid IMPORT_CONCURRENCY: %v", err)
		}
		c.ImportConcurrency = n
	}
	if v := getenv("SESSION_TTL"); v != "" {
		if err := c.SessionTTL.parse(v); err != nil {
			return fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
	}
	if v := getenv("USE_BROWSER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid USE_BROWSER: %v", err)
		}
		c.UseBrowser = b
	}
	if v := getenv("VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid VERBOSE: %v", err)
		}
		c.Verbose = b
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since each command checks the
// ones it needs.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ImportConcurrency < 0 {
		return fmt.Errorf("config error: 'import_concurrency' must be non-negative")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("config error: 'session_ttl' must be non-negative")
	}
	if _, err := llm.ParseProvider(c.LLMProvider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c *Config) WithDefaults() Config {
	result := *c
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.SessionTTL == 0 {
		result.SessionTTL = Duration(DefaultSessionTTL)
	}
	if result.ImportConcurrency == 0 {
		result.ImportConcurrency = DefaultImportConcurrency
	}
	return result
}

// Provider returns the configured LLM provider.
func (c *Config) Provider() llm.Provider {
	p, err := llm.ParseProvider(c.LLMProvider)
	if err != nil {
		return llm.ProviderGemini
	}
	return p
}

// APIKey returns the API key for the configured provider.
func (c *Config) APIKey() string {
	switch c.Provider() {
	case llm.ProviderOpenAI:
		return c.OpenAIAPIKey
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}
