// Package llm provides centralized LLM configuration and client abstractions.
// Gemini, OpenAI and Anthropic are supported behind the same Client interface.
package llm

import (
	"fmt"
	"strings"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: greetings, short follow-up questions
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: interview turns, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: resume critique, code review
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// DefaultTemperature is used when a Config leaves Temperature at zero.
const DefaultTemperature = 0.7

// defaultMaxTokens bounds replies from providers that require a limit.
const defaultMaxTokens = 2048

// ParseProvider maps a configuration string to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ProviderGemini, nil
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return p, nil
	default:
		return "", fmt.Errorf("unknown LLM provider %q", s)
	}
}

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float64
	MaxTokens   int
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultConfigFor returns the default configuration for a provider.
func DefaultConfigFor(p Provider) *Config {
	switch p {
	case ProviderOpenAI:
		return DefaultOpenAIConfig()
	case ProviderAnthropic:
		return DefaultAnthropicConfig()
	default:
		return DefaultGeminiConfig()
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4.1-mini",
			TierStandard: "gpt-4.1",
			TierAdvanced: "gpt-5",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-sonnet-4-0",
			TierAdvanced: "claude-opus-4-0",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string),
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// temperature returns the configured temperature or the default.
func (c *Config) temperature() float64 {
	if c.Temperature <= 0 {
		return DefaultTemperature
	}
	return c.Temperature
}

// maxTokens returns the configured output limit or the default.
func (c *Config) maxTokens() int64 {
	if c.MaxTokens <= 0 {
		return defaultMaxTokens
	}
	return int64(c.MaxTokens)
}
