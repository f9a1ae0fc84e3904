package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/FAYAZKLU/WeatherApp/internal/api/http"
	"github.com/FAYAZKLU/WeatherApp/internal/config"
	"github.com/FAYAZKLU/WeatherApp/internal/favorites"
	"github.com/FAYAZKLU/WeatherApp/internal/scheduler"
	"github.com/FAYAZKLU/WeatherApp/internal/snapshot"
	"github.com/FAYAZKLU/WeatherApp/internal/weather"
	"github.com/FAYAZKLU/WeatherApp/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider and backend calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Weather providers, tried in order. Providers without credentials
	// are skipped.
	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	if cfg.GeocoderAPIKey != "" {
		// Open-Meteo needs no weather key, but city-name lookups go
		// through Google geocoding.
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient, cfg.GeocoderAPIKey))
	}
	if len(provs) == 0 {
		log.Fatalf("no weather providers configured; set OPENWEATHER_API_KEY, WEATHERAPI_API_KEY or GEOCODER_API_KEY")
	}

	svc := weather.NewService(provs, weather.NewCache(cfg.CacheTTL))

	// Favorites live in the external CRUD backend; the store mirrors it.
	backend := favorites.NewClient(httpClient, cfg.FavoritesBackendURL)
	store := favorites.NewStore(backend)

	// Per-favorite weather snapshots, rebuilt on every list change.
	refresher := snapshot.NewRefresher(svc, cfg.SnapshotTimeout)
	store.SetOnChange(refresher.Refresh)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	if err := store.Load(loadCtx); err != nil {
		// Not fatal: the store stays empty and the UI surfaces the error
		// on its next mutation.
		log.Printf("initial favorites load failed: %v", err)
	}
	cancelLoad()

	// Keep snapshots live between list changes.
	sched := scheduler.New(store, refresher, cfg.SnapshotInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weatherapp",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherapp",
		})
	})

	httpapi.RegisterRoutes(app, svc, store, refresher)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
