package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// HarvestConfig bounds the per-site contact harvesting pass.
type HarvestConfig struct {
	RequestTimeout  time.Duration
	SiteBudget      time.Duration
	MaxContactPages int
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL          string
	JWTSecret            string
	Port                 string
	SerpAPIKey           string
	GoogleCSEKey         string
	GoogleCSECX          string
	HunterAPIKey         string
	DefaultPhoneRegion   string
	DefaultSearchRegion  string
	OperatorEmail        string
	OperatorPasswordHash string
	RateLimitSearch      RateLimitConfig
	Harvest              HarvestConfig
	TokenTTL             time.Duration
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret"),
		Port:                 getEnv("PORT", "8080"),
		SerpAPIKey:           os.Getenv("SERPAPI_API_KEY"),
		GoogleCSEKey:         os.Getenv("GOOGLE_CSE_KEY"),
		GoogleCSECX:          os.Getenv("GOOGLE_CSE_CX"),
		HunterAPIKey:         os.Getenv("HUNTER_API_KEY"),
		DefaultPhoneRegion:   getEnv("DEFAULT_PHONE_REGION", "IN"),
		DefaultSearchRegion:  getEnv("DEFAULT_SEARCH_REGION", "India"),
		OperatorEmail:        os.Getenv("OPERATOR_EMAIL"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		TokenTTL:             parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		Harvest: HarvestConfig{
			RequestTimeout:  parseDuration(getEnv("HARVEST_REQUEST_TIMEOUT", "12s"), 12*time.Second),
			SiteBudget:      parseDuration(getEnv("HARVEST_SITE_BUDGET", "25s"), 25*time.Second),
			MaxContactPages: parseInt(getEnv("HARVEST_MAX_CONTACT_PAGES", "3"), 3),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEARCH", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEARCH value: %w", err)
	}
	cfg.RateLimitSearch = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(input)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
