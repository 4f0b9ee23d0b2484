package config

import (
	"os"
	"runtime"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port int
	Env  string

	// Extraction
	Workers int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnvInt("PYEXTRACT_PORT", 8080),
		Env:      getEnv("PYEXTRACT_ENV", "development"),
		Workers:  getEnvInt("PYEXTRACT_WORKERS", runtime.NumCPU()),
		LogLevel: getEnv("PYEXTRACT_LOG_LEVEL", "info"),
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
