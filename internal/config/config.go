package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Config holds application configuration
type Config struct {
	DatabaseURL  string `validate:"required"`
	RedisURL     string `validate:"required"`
	ServerPort   string `validate:"required"`
	WebHost      string `validate:"required"`
	FrontendURL  string `validate:"required,url"`
	JWTSecret    string `validate:"required,min=32"`
	JWTDomain    string `validate:"required"`
	RedditID     string `validate:"required"`
	RedditSecret string `validate:"required"`
	RateLimit    string
	DevMode      bool
	OTELEnabled  bool
	OTELEndpoint string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		WebHost:      getEnv("WEB_HOST", "localhost:8080"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTDomain:    getEnv("JWT_DOMAIN", ""),
		RedditID:     getEnv("REDDIT_ID", ""),
		RedditSecret: getEnv("REDDIT_SECRET", ""),
		RateLimit:    getEnv("RATE_LIMIT", "10-M"),
		DevMode:      getEnvBool("DEV_MODE", false),
		OTELEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if err := validator.New().Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return nil, fmt.Errorf("invalid configuration: %s failed on %q", errs[0].Field(), errs[0].Tag())
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
