package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP settings
	Port         string
	MaxBodyBytes int64

	// Paid entrypoint settings
	PricePerCall string // opaque price signal advertised to the payment collaborator

	// Feed settings
	FeedEndpoint  string
	FeedAuthToken string
	FetchTimeout  time.Duration

	// Gemini settings
	GeminiAPIKey    string
	GenerateTimeout time.Duration

	// Origin policy
	AllowedOrigins   []string // explicit allow-list; empty means "any https origin"
	OriginPolicyPath string

	// Rate limiting
	RateLimitMax    int
	RateLimitWindow time.Duration
	RateLimitGC     int // record count that triggers opportunistic GC

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		Port:             "8080",
		MaxBodyBytes:     1 << 20, // 1 MiB
		PricePerCall:     "$0.01",
		FetchTimeout:     30 * time.Second,
		GenerateTimeout:  60 * time.Second,
		OriginPolicyPath: "configs/origins.yaml",
		RateLimitMax:     100,
		RateLimitWindow:  60 * time.Second,
		RateLimitGC:      10000,
	}

	// Load from environment
	cfg.FeedEndpoint = os.Getenv("FEED_ENDPOINT")
	cfg.FeedAuthToken = os.Getenv("FEED_AUTH_TOKEN")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.PricePerCall = getEnvOrDefault("PRICE_PER_CALL", cfg.PricePerCall)
	cfg.OriginPolicyPath = getEnvOrDefault("ORIGIN_POLICY_PATH", cfg.OriginPolicyPath)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if v := getEnvIntOrDefault("MAX_BODY_BYTES", 0); v > 0 {
		cfg.MaxBodyBytes = int64(v)
	}
	if v := getEnvIntOrDefault("RATE_LIMIT_MAX", 0); v > 0 {
		cfg.RateLimitMax = v
	}
	if v := getEnvIntOrDefault("RATE_LIMIT_WINDOW_SECONDS", 0); v > 0 {
		cfg.RateLimitWindow = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("RATE_LIMIT_GC_THRESHOLD", 0); v > 0 {
		cfg.RateLimitGC = v
	}
	if v := getEnvIntOrDefault("FETCH_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.FetchTimeout = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("GENERATE_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.GenerateTimeout = time.Duration(v) * time.Second
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.FeedEndpoint == "" {
		return fmt.Errorf("FEED_ENDPOINT is required")
	}
	if !strings.HasPrefix(c.FeedEndpoint, "https://") {
		return fmt.Errorf("FEED_ENDPOINT must use https")
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	// GEMINI_API_KEY is deliberately optional: without it the summarizer
	// runs its deterministic fallback path.
	return nil
}
