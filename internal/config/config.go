package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Weather provider credentials. A provider without a key is skipped.
	OpenWeatherAPIKey string
	WeatherAPIKey     string

	// Google geocoding key; enables the Open-Meteo provider for
	// city-name lookups.
	GeocoderAPIKey string

	// Favorites backend collection URL, e.g.
	// http://localhost:8082/api/favorites
	FavoritesBackendURL string

	// Outbound HTTP timeout for provider and backend calls.
	HTTPTimeout time.Duration

	// How often the favorites snapshot map is refreshed between list
	// changes, and how long one snapshot batch may take.
	SnapshotInterval time.Duration
	SnapshotTimeout  time.Duration

	// Current-weather cache TTL (0 disables).
	CacheTTL time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.FavoritesBackendURL = getenvDefault("FAVORITES_BACKEND_URL", "http://localhost:8082/api/favorites")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.SnapshotInterval, err = getenvDuration("SNAPSHOT_INTERVAL", "10m"); err != nil {
		return nil, err
	}
	if cfg.SnapshotTimeout, err = getenvDuration("SNAPSHOT_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", "60s"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
