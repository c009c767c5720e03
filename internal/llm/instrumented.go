package llm

import (
	"context"
	"time"
)

// Recorder receives per-call LLM metrics. observability.Metrics satisfies it.
type Recorder interface {
	ObserveLLMRequest(provider, tier string, success bool, d time.Duration)
}

// InstrumentedClient decorates a Client with request metrics.
type InstrumentedClient struct {
	Client
	provider Provider
	recorder Recorder
}

// Instrument wraps c so every generation call is recorded. A nil recorder returns c unchanged.
func Instrument(c Client, provider Provider, recorder Recorder) Client {
	if recorder == nil {
		return c
	}
	return &InstrumentedClient{Client: c, provider: provider, recorder: recorder}
}

// GenerateContent implements Client.
func (c *InstrumentedClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	start := time.Now()
	text, err := c.Client.GenerateContent(ctx, prompt, tier)
	c.recorder.ObserveLLMRequest(string(c.provider), string(tier), err == nil, time.Since(start))
	return text, err
}

// GenerateJSON implements Client.
func (c *InstrumentedClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	start := time.Now()
	text, err := c.Client.GenerateJSON(ctx, prompt, tier)
	c.recorder.ObserveLLMRequest(string(c.provider), string(tier), err == nil, time.Since(start))
	return text, err
}
