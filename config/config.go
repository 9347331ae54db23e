package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port          string
	DatabaseURL   string
	AdminToken    string
	AllowedOrigin string
}

// Load reads configuration from the environment. main loads .env first
// via godotenv, so plain env vars and .env files both work.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "4000"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		AdminToken:    getEnv("ADMIN_TOKEN", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AdminToken == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
