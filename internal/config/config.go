package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// DatabasePath is the sqlite file holding user credentials.
	DatabasePath string

	// HTTPTimeout bounds outbound provider calls.
	HTTPTimeout time.Duration

	// SessionTTL bounds both login sessions and pending signups; a pending
	// registration never outlives its session.
	SessionTTL time.Duration

	// GeocoderAPIKey enables the Google geocoding fallback when set.
	GeocoderAPIKey string

	// Report cache retention.
	CacheMaxEntries int
	CacheMaxAge     time.Duration

	// WarmCities are refreshed in the background every RefreshInterval.
	WarmCities      []string
	RefreshInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DatabasePath = getenvDefault("DATABASE_PATH", "skycast.db")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	timeout, err := parseDurationEnv("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	sessionTTL, err := parseDurationEnv("SESSION_TTL", "24h")
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = sessionTTL

	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 128)

	cacheAge, err := parseDurationEnv("CACHE_MAX_AGE", "10m")
	if err != nil {
		return nil, err
	}
	cfg.CacheMaxAge = cacheAge

	refresh, err := parseDurationEnv("REFRESH_INTERVAL", "30m")
	if err != nil {
		return nil, err
	}
	cfg.RefreshInterval = refresh

	if raw := os.Getenv("WARM_CITIES"); raw != "" {
		for _, city := range strings.Split(raw, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cfg.WarmCities = append(cfg.WarmCities, city)
			}
		}
	}

	return cfg, nil
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
