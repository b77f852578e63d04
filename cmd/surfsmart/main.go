package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/Dowline1/SurfSmart-AI/internal/api/http"
	"github.com/Dowline1/SurfSmart-AI/internal/config"
	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
	"github.com/Dowline1/SurfSmart-AI/internal/genai"
	"github.com/Dowline1/SurfSmart-AI/internal/geo"
	"github.com/Dowline1/SurfSmart-AI/internal/logger"
	"github.com/Dowline1/SurfSmart-AI/internal/scheduler"
	"github.com/Dowline1/SurfSmart-AI/internal/sources"
	"github.com/Dowline1/SurfSmart-AI/internal/store"
	"github.com/Dowline1/SurfSmart-AI/internal/webcam"
)

func main() {
	log := logger.Get()
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not configured; forecast synthesis will fail until it is set")
	}
	if cfg.GenAITrace {
		log.Infow("genai tracing enabled",
			"model", cfg.GeminiModel,
			"api_key", logger.MaskKey(cfg.GeminiAPIKey),
		)
	}

	// Shared HTTP client for outbound provider and image calls.
	httpClient := &http.Client{
		Timeout: cfg.ProviderTimeout,
	}

	// Data source adapters. Unconfigured providers degrade to simulated
	// readings inside their adapters.
	waveAdapter := sources.NewWaveAdapter(httpClient, cfg.StormglassAPIKey, cfg.WorldTidesAPIKey, log)
	weatherAdapter := sources.NewWeatherAdapter(httpClient, log)
	safetyAdapter := sources.NewSafetyAdapter()
	amenitiesAdapter := sources.NewAmenitiesAdapter()

	// Multi-modal completion collaborator for the synthesis stage.
	completer := genai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenAITrace, log)

	engine := forecast.NewEngine(waveAdapter, weatherAdapter, safetyAdapter, amenitiesAdapter, completer, log)

	supplier := webcam.NewSupplier(httpClient, cfg.SampleImageDir, log)
	geocoder := geo.NewResolver(cfg.GeocoderAPIKey)

	// Condition history with configured retention, kept warm by the
	// scheduler.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	sched := scheduler.New(cfg.Spots, cfg.RefreshInterval, engine, memStore, log)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "surfsmart",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * time.Minute, // forecast runs include a model call
		BodyLimit:             12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
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

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "surfsmart",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Runner:     engine,
		Images:     supplier,
		Conditions: memStore,
		Geocoder:   geocoder,
		Spots:      cfg.Spots,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("error during shutdown: %v", err)
	}
}
