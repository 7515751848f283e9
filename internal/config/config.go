package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret     string
	JWTTTLMinutes int

	RateLimitGlobal   time.Duration
	RateLimitQuestion time.Duration
	RateLimitComment  time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
	}

	ttl := 60
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		parsed, err := strconv.Atoi(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
		}
		ttl = parsed
	}
	cfg.JWTTTLMinutes = ttl

	var err error
	cfg.RateLimitGlobal, err = time.ParseDuration(getEnv("RATE_LIMIT_GLOBAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_GLOBAL: %w", err)
	}
	cfg.RateLimitQuestion, err = time.ParseDuration(getEnv("RATE_LIMIT_QUESTION", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_QUESTION: %w", err)
	}
	cfg.RateLimitComment, err = time.ParseDuration(getEnv("RATE_LIMIT_COMMENT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_COMMENT: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
