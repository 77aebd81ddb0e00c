// Package config reads server settings from the environment, with an optional
// .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Port the HTTP server listens on.
	Port string
	// DatabaseURL is a postgres DSN; empty disables persistence.
	DatabaseURL string
	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string
}

func Load() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
