// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// AllowedOrigins for CORS, comma-separated in the environment.
	AllowedOrigins []string
	// MarketCacheTTL bounds how long fetched prices and rates are reused.
	MarketCacheTTL time.Duration
	// Pretty enables human-readable console logging.
	Pretty bool
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "8111"),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:1234,http://127.0.0.1:1234")),
		MarketCacheTTL: 5 * time.Minute,
		Pretty:         os.Getenv("LOG_PRETTY") == "true",
	}
	if raw := os.Getenv("MARKET_CACHE_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil && ttl > 0 {
			cfg.MarketCacheTTL = ttl
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
