package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	// APIKey guards the registration endpoint. Empty disables the check.
	APIKey       string
	APIKeyHeader string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "4000"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		DatabaseURL:  databaseURL(),
		APIKey:       os.Getenv("API_KEY"),
		APIKeyHeader: getEnv("API_KEY_HEADER", "x-api-key"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "restocked"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
