package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_LEEWAY_SECONDS", "")
	t.Setenv("JWT_ISSUER", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Empty(t, cfg.Issuer)
	assert.Equal(t, 30*time.Second, cfg.Leeway, "should use default leeway of 30 seconds")
}

func TestNewJWTConfig_Leeway(t *testing.T) {
	tests := []struct {
		name    string
		leeway  string
		want    time.Duration
		wantErr bool
	}{
		{name: "zero", leeway: "0", want: 0},
		{name: "two minutes", leeway: "120", want: 2 * time.Minute},
		{name: "non-numeric", leeway: "invalid", wantErr: true},
		{name: "negative", leeway: "-1", wantErr: true},
		{name: "float", leeway: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret-key")
			t.Setenv("JWT_LEEWAY_SECONDS", tt.leeway)

			cfg, err := NewJWTConfig()
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, cfg)
				assert.Contains(t, err.Error(), "JWT_LEEWAY_SECONDS")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Leeway)
		})
	}
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := NewJWTConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewJWTConfig_Issuer(t *testing.T) {
	t.Setenv("JWT_SECRET", "my-secret-key-123")
	t.Setenv("JWT_ISSUER", "https://auth.example.com")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "my-secret-key-123", cfg.Secret)
	assert.Equal(t, "https://auth.example.com", cfg.Issuer)
}
