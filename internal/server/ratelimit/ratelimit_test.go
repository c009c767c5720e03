package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock returns a clock fixed at a base time that tests advance by hand.
func fakeClock(l *Limiter) func(time.Duration) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	l.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	return func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}
}

func TestLimiter_Refill(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: 10 * time.Second})
	defer limiter.Stop()
	advance := fakeClock(limiter)

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/questions", "GET")
		require.True(t, allowed)
	}
	allowed, info := limiter.Allow("127.0.0.1", "/questions", "GET")
	require.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, time.Second, info.RetryAfter)
	assert.Equal(t, limiter.now().Add(10*time.Second), info.ResetTime)

	advance(time.Second)
	allowed, _ = limiter.Allow("127.0.0.1", "/questions", "GET")
	assert.True(t, allowed, "one token refilled")
	allowed, _ = limiter.Allow("127.0.0.1", "/questions", "GET")
	assert.False(t, allowed)

	advance(time.Minute)
	allowed, info = limiter.Allow("127.0.0.1", "/questions", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 9, info.Remaining, "refill is capped at the burst")
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/questions", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/questions", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/questions", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("192.168.1.1", "/questions", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/critiques", "POST")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_AITierSharedAcrossIDs(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	// The burst of 5 is shared by every interview of the same client
	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("10.0.0.1", fmt.Sprintf("/interviews/%d/messages", i), "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, TierAI, info.Tier)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, _ := limiter.Allow("10.0.0.1", "/interviews/99/messages", "POST")
	assert.False(t, allowed, "AI burst exhausted")

	// Reading messages is not AI-backed and falls back to the default limit
	allowed, info := limiter.Allow("10.0.0.1", "/interviews/99/messages", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	// Another client has its own budget
	allowed, _ = limiter.Allow("10.0.0.2", "/interviews/1/messages", "POST")
	assert.True(t, allowed)
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/critiques", Method: "POST", Tier: TierAI, Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/critiques", "POST")
		require.True(t, allowed)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/critiques", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 5, info.Limit)

	allowed, info = limiter.Allow("127.0.0.1", "/critiques", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/questions", "GET"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    10,
		DefaultWindow:   time.Minute,
		CleanupInterval: 20 * time.Millisecond,
		IdleTTL:         50 * time.Millisecond,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/questions", "GET")
		require.True(t, allowed)
	}
	assert.Equal(t, 10, limiter.Len())

	assert.Eventually(t, func() bool { return limiter.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestLimiter_Burst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/questions", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/questions", "POST")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/questions", "POST")
	assert.False(t, allowed, "burst exhausted with no refill yet")
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/questions", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()
	tests := []struct {
		method, path string
		wantPath     string
		wantTier     Tier
		unlimited    bool
	}{
		{method: "GET", path: "/health", unlimited: true},
		{method: "GET", path: "/metrics", unlimited: true},
		{method: "POST", path: "/interviews/abc/start", wantPath: "/interviews/*/start", wantTier: TierAI},
		{method: "POST", path: "/interviews/abc/messages/stream", wantPath: "/interviews/*/messages/stream", wantTier: TierAI},
		{method: "POST", path: "/interviews/abc/messages/", wantPath: "/interviews/*/messages", wantTier: TierAI},
		{method: "POST", path: "/companies/abc/questions/import", wantPath: "/companies/*/questions/import", wantTier: TierAI},
		{method: "POST", path: "/critiques", wantPath: "/critiques", wantTier: TierAI},
		{method: "POST", path: "/interviews", wantPath: "/interviews", wantTier: TierWrite},
		{method: "DELETE", path: "/interviews/abc", wantPath: "/interviews/", wantTier: TierWrite},
		{method: "PUT", path: "/questions/abc", wantPath: "/questions/", wantTier: TierWrite},
		{method: "GET", path: "/questions"},
		{method: "DELETE", path: "/interviews"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			switch {
			case tt.unlimited:
				require.NotNil(t, got)
				assert.Equal(t, 0, got.Limit)
			case tt.wantPath == "":
				assert.Nil(t, got)
			default:
				require.NotNil(t, got)
				assert.Equal(t, tt.wantPath, got.Path)
				assert.Equal(t, tt.wantTier, got.Tier)
			}
		})
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_AI_LIMIT", "3")
	t.Setenv("RATE_LIMIT_AI_BURST", "1")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Whitelist["10.0.0.2"])

	critiques := MatchEndpoint("/critiques", "POST", cfg.EndpointConfigs)
	require.NotNil(t, critiques)
	assert.Equal(t, 3, critiques.Limit)
	assert.Equal(t, 1, critiques.Burst)
	assert.Equal(t, time.Hour, critiques.Window)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
