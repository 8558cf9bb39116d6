package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// APIConfig describes the upstream TripWise REST API.
type APIConfig struct {
	BaseURL         string
	Timeout         time.Duration
	GenerateTimeout time.Duration
}

// SessionConfig controls visitor sessions and their state stores.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type Config struct {
	ServerPort   string
	MetricsPort  string
	PprofPort    string
	PublicURL    string
	API          APIConfig
	Session      SessionConfig
	GenerateRate float64
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", ":9092"),
		PprofPort:   getEnvOrDefault("PPROF_PORT", ":6060"),
		PublicURL:   getEnvOrDefault("PUBLIC_URL", "http://localhost:8080"),
		API: APIConfig{
			BaseURL:         getEnvOrDefault("API_BASE_URL", "http://localhost:5000/api/v1"),
			Timeout:         getDurationOrDefault("API_TIMEOUT", 15*time.Second),
			GenerateTimeout: getDurationOrDefault("API_GENERATE_TIMEOUT", 90*time.Second),
		},
		Session: SessionConfig{
			Secret: getEnvOrDefault("SESSION_SECRET", ""),
			TTL:    getDurationOrDefault("SESSION_TTL", 2*time.Hour),
		},
		// Generations per second per visitor, one every 30s by default.
		GenerateRate: getFloatOrDefault("GENERATE_RATE", 1.0/30.0),
	}

	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}
