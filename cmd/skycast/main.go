package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "modernc.org/sqlite"

	httpapi "github.com/avelichka/skycast/internal/api/http"
	"github.com/avelichka/skycast/internal/auth"
	"github.com/avelichka/skycast/internal/config"
	"github.com/avelichka/skycast/internal/scheduler"
	"github.com/avelichka/skycast/internal/session"
	"github.com/avelichka/skycast/internal/store"
	"github.com/avelichka/skycast/internal/weather"
	"github.com/avelichka/skycast/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Credential store.
	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	users := store.NewUserStore(db)
	if err := users.Migrate(context.Background()); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Geocoder chain: Open-Meteo first, Google fallback when a key is set.
	geocoders := []weather.Geocoder{providers.NewOpenMeteoGeocoder(httpClient)}
	if cfg.GeocoderAPIKey != "" {
		geocoders = append(geocoders, providers.NewGoogleGeocoder(cfg.GeocoderAPIKey))
	}

	cache := store.NewReportCache(cfg.CacheMaxEntries, cfg.CacheMaxAge)
	weatherSvc := weather.NewService(geocoders, providers.NewOpenMeteoForecast(httpClient), cache)

	authSvc := auth.NewService(users, auth.LogCodeSender{})
	sessions := session.NewManager(cfg.SessionTTL)

	// Background cache warm/prune job.
	sched := scheduler.New(cfg.WarmCities, cfg.RefreshInterval, weatherSvc, cache)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "skycast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skycast",
		})
	})

	httpapi.RegisterRoutes(app, authSvc, sessions, weatherSvc)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
