// Package app assembles the HTTP application from its dependencies.
package app

import (
	"context"
	"log/slog"

	"dailydiet/internal/config"
	"dailydiet/internal/handlers"
	"dailydiet/internal/repositories"
	"dailydiet/internal/services"
	"dailydiet/internal/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Deps are the runtime collaborators of the application. Publisher and
// Cache are optional.
type Deps struct {
	DB        *gorm.DB
	Publisher services.EventPublisher
	Cache     services.MetricsCache
	Logger    *slog.Logger
	// Checks are extra health probes, keyed by dependency name.
	Checks map[string]handlers.HealthCheck
	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// New builds the fiber application serving the diet API.
func New(cfg config.Config, deps Deps) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	mealRepo := repositories.NewGORMMealRepository(deps.DB)

	// --- Services ---
	sessionService := services.NewSessionService(userRepo, cfg.SessionSecret, cfg.SessionMaxAge)
	metricsService := services.NewMetricsService(userRepo, mealRepo, deps.Cache, log)
	userService := services.NewUserService(userRepo, sessionService, deps.Publisher, log)
	mealService := services.NewMealService(mealRepo, sessionService, metricsService, deps.Publisher, log)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, metricsService, sessionService, log)
	mealHandler := handlers.NewMealHandler(mealService, sessionService, log)

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	for name, check := range deps.Checks {
		checks[name] = check
	}
	healthHandler := handlers.NewHealthHandler(checks)

	app := fiber.New(fiber.Config{
		AppName:               "dailydiet",
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}
	app.Use(telemetry.Middleware())

	// --- Routes ---
	healthHandler.RegisterRoutes(app)
	app.Get("/metrics", telemetry.Handler())
	userHandler.RegisterRoutes(app)
	mealHandler.RegisterRoutes(app)

	return app
}
