package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dailydiet/internal/app"
	"dailydiet/internal/cache"
	"dailydiet/internal/config"
	"dailydiet/internal/database"
	"dailydiet/internal/handlers"
	"dailydiet/internal/migrations"
	"dailydiet/internal/services"
	"dailydiet/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:          "dailydiet",
		Short:        "Daily diet tracking API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
	root.PersistentFlags().String("port", ":8080", "listen address (APP_PORT)")
	_ = v.BindPFlag("APP_PORT", root.PersistentFlags().Lookup("port"))

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), v)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context(), v, cmd.OutOrStdout())
			},
		},
	)
	return root
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func openDatabase(ctx context.Context, cfg config.Config, logger *slog.Logger, migrate bool) (*gorm.DB, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if !migrate {
		return db, nil
	}
	sqlDB, err := db.DB()
	if err == nil {
		err = migrations.Up(ctx, sqlDB, database.Dialect(cfg.DBDriver), logger)
	}
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}

func runMigrate(ctx context.Context, v *viper.Viper, out io.Writer) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	db, err := openDatabase(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer database.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	version, err := migrations.Version(ctx, sqlDB, database.Dialect(cfg.DBDriver))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "database at version %d\n", version)
	return nil
}

func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := openDatabase(ctx, cfg, logger, cfg.AutoMigrate)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db)

	deps := app.Deps{
		DB:        db,
		Logger:    logger,
		AccessLog: true,
		Checks:    map[string]handlers.HealthCheck{},
	}

	// --- Metrics cache (optional) ---
	if cfg.RedisURL != "" {
		metricsCache, err := cache.New(ctx, cfg.RedisURL, cfg.MetricsCacheTTL)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics cache: %w", err)
		}
		defer metricsCache.Close()
		deps.Cache = metricsCache
		deps.Checks["redis"] = metricsCache.Ping
		logger.Info("metrics cache enabled", "ttl", cfg.MetricsCacheTTL)
	}

	// --- Event bus (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Logger: logger})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		deps.Publisher = mqClient

		if err := mqClient.ConsumeEvents(ctx, logEvent(logger)); err != nil {
			logger.Warn("failed to start event consumer", "error", err)
		}
	}

	application := app.New(cfg, deps)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.AppPort)
		errCh <- application.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := application.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}

// logEvent returns the consumer handler recording each diet event.
func logEvent(logger *slog.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event services.Event
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("malformed event %q: %w", msg.RoutingKey, err)
		}
		logger.Info("diet event",
			"routing_key", msg.RoutingKey,
			"event", event.Type,
			"meal_id", event.MealID,
			"user_id", event.UserID,
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}
