package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment after an
// optional .env pass.
type Config struct {
	Addr           string
	DatabaseURL    string
	AllowedOrigins []string
	IdleTimeout    time.Duration
}

// Load reads configuration. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        envOr("VIRUS_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		IdleTimeout: 60 * time.Second,
	}

	if raw := os.Getenv("VIRUS_ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	if raw := os.Getenv("VIRUS_IDLE_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.IdleTimeout = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
