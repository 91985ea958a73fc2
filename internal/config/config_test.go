package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8111", cfg.Port)
	assert.NotEmpty(t, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.MarketCacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com, https://other.example.com ,")
	t.Setenv("MARKET_CACHE_TTL", "30s")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://example.com", "https://other.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.MarketCacheTTL)
}

func TestLoadIgnoresBadTTL(t *testing.T) {
	t.Setenv("MARKET_CACHE_TTL", "not-a-duration")
	cfg := Load()
	assert.Equal(t, 5*time.Minute, cfg.MarketCacheTTL)
}
