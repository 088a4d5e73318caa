package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/analytics/internal/config"
	"github.com/soltixdb/analytics/internal/handlers"
	"github.com/soltixdb/analytics/internal/logging"
	"github.com/soltixdb/analytics/internal/metrics"
	"github.com/soltixdb/analytics/internal/middleware"
	"github.com/soltixdb/analytics/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, m *metrics.Manager, cfg config.Config) *handlers.Handler {
	analyticsService := services.NewAnalyticsService(m, cfg.Engine.IQRMultiplier)
	h := handlers.New(analyticsService, cfg.Service)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: cfg.CORS.AllowMethods,
		AllowHeaders: cfg.CORS.AllowHeaders,
	}))
	if cfg.Server.Compress {
		app.Use(compress.New())
	}
	app.Use(logging.FiberMiddlewareWithConfig(logger, logging.MiddlewareConfig{
		SkipPaths: []string{cfg.Metrics.Path},
	}))

	if m.Enabled() {
		app.Use(m.Middleware())
		app.Get(cfg.Metrics.Path, m.Handler())
	}

	// Health check
	app.Get("/", h.Health)
	app.Get("/health", h.Health)

	// Analytics routes
	guarded := func(handler fiber.Handler) []fiber.Handler {
		return append(middleware.Computation(), handler)
	}
	app.Post("/predict", guarded(h.Predict)...)
	app.Post("/predict-future-values", guarded(h.PredictFutureValues)...)
	app.Post("/average-by-attribute", guarded(h.AverageByAttribute)...)
	app.Post("/median-by-attribute", guarded(h.MedianByAttribute)...)
	app.Post("/min-max-by-attribute", guarded(h.MinMaxByAttribute)...)
	app.Post("/highest-value", guarded(h.HighestValue)...)
	app.Post("/lowest-value", guarded(h.LowestValue)...)
	app.Post("/median-value", guarded(h.MedianValue)...)
	app.Post("/outliers", guarded(h.Outliers)...)
	app.Post("/count-by-time", guarded(h.CountByTime)...)
	app.Post("/value-growth", guarded(h.ValueGrowth)...)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, m *metrics.Manager, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:                  cfg.Service.Name,
		DisableStartupMessage:    true,
		ErrorHandler:             middleware.ErrorHandler(logger),
		BodyLimit:                cfg.Server.BodyLimit,
		ReadTimeout:              cfg.Server.ReadTimeout,
		WriteTimeout:             cfg.Server.WriteTimeout,
		EnableSplittingOnParsers: true,
	})

	Setup(app, logger, m, cfg)

	return app
}
