// Package config loads portal configuration from the environment.
// File: config/config.go
package config

import (
	"os"

	"github.com/joho/godotenv"

	"hackathon-portal/logger"
)

// Config holds everything the portal needs to run. All values come from
// environment variables, with sensible defaults for local development.
type Config struct {
	Port           string // listen port, e.g. "8080"
	Env            string // "development", "staging" or "production"
	APIBaseURL     string // base URL of the remote portal API
	SessionSecret  string // cookie session authentication key
	ApplicationURL string // public URL of this portal, embedded in QR codes
}

// Load reads a .env file if present, then builds the Config from the
// environment. A missing .env is not an error; deployed environments set
// the variables directly.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug.Println("Load: no .env file found, using environment as-is")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		APIBaseURL:     getEnv("PORTAL_API_URL", "http://localhost:5000/api"),
		SessionSecret:  getEnv("SESSION_SECRET", "dev-session-secret"),
		ApplicationURL: getEnv("APPLICATION_URL", "http://localhost:8080"),
	}

	if cfg.Env == "production" && cfg.SessionSecret == "dev-session-secret" {
		logger.Warn.Println("Load: SESSION_SECRET not set in production")
	}

	logger.Info.Printf("Load: configuration loaded (env=%s, api=%s)", cfg.Env, cfg.APIBaseURL)
	return cfg
}

// getEnv returns the value of the environment variable or the default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
