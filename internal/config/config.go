// Package config loads lifedeck configuration from the environment.
// A .env file in the working directory is honored via godotenv autoload.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// DefaultAPIBaseURL is the production Life Manager API host, used when
// LIFEDECK_API_URL is not set.
const DefaultAPIBaseURL = "https://life-manager.duckdns.org/api"

// Config holds all lifedeck client configuration.
type Config struct {
	// Remote API
	APIBaseURL     string
	RequestTimeout time.Duration

	// Listing defaults
	PageSize int

	// Local state
	ConfigDir   string // session file and logs live here
	SessionPath string
	LogPath     string
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	dir := os.Getenv("LIFEDECK_CONFIG_DIR")
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "lifedeck")
	}

	cfg := &Config{
		APIBaseURL:     getEnv("LIFEDECK_API_URL", DefaultAPIBaseURL),
		RequestTimeout: getEnvDuration("LIFEDECK_TIMEOUT", 15*time.Second),
		PageSize:       getEnvInt("LIFEDECK_PAGE_SIZE", 10),
		ConfigDir:      dir,
		SessionPath:    filepath.Join(dir, "session.json"),
		LogPath:        filepath.Join(dir, "lifedeck.log"),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
