package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FEED_ENDPOINT", "https://feed.example.com/v1/latest")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "$0.01", cfg.PricePerCall)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 60*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FEED_ENDPOINT", "https://feed.example.com/v1/latest")
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.RateLimitMax)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_RequiresFeedEndpoint(t *testing.T) {
	t.Setenv("FEED_ENDPOINT", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("FEED_ENDPOINT", "http://insecure.example.com/feed")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadOriginPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "origins.yaml")
	require.NoError(t, os.WriteFile(path, []byte("payment_gateways:\n  - https://gw.example.com\n"), 0o644))

	policy, err := LoadOriginPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://gw.example.com"}, policy.PaymentGateways)
}

func TestLoadOriginPolicy_MissingFileUsesDefaults(t *testing.T) {
	policy, err := LoadOriginPolicy("does/not/exist.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, policy.PaymentGateways)
}
