package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

const defaultClientSecret = "dev-secret-change-in-production"

type Config struct {
	Port          string
	Env           string
	APIURL        string
	ClientSecret  string
	ClientTTL     time.Duration
	SessionTTL    time.Duration
	StorageDriver string
	RedisURL      string
	DatabaseDSN   string
}

func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		APIURL:        strings.TrimRight(getEnv("API_URL", "http://localhost:4000"), "/"),
		ClientSecret:  getEnv("CLIENT_SECRET", defaultClientSecret),
		ClientTTL:     getDuration("CLIENT_TTL", 365*24*time.Hour),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "memory")),
		RedisURL:      getEnv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/insights?parseTime=true"),
	}

	if cfg.IsProduction() && cfg.ClientSecret == defaultClientSecret {
		slog.Error("CLIENT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// IsProduction reports whether cookies must be marked Secure.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
