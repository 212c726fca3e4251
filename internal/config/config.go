package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the runtime configuration of the daily diet API.
type Config struct {
	AppPort     string
	DBDriver    string
	DatabaseDSN string
	AutoMigrate bool

	SessionMaxAge time.Duration
	SessionSecret string // empty keeps the cookie a bare token

	RabbitMQURL     string
	RedisURL        string
	MetricsCacheTTL time.Duration

	LogLevel  string
	LogFormat string
}

// SetDefaults registers every key with its default value and enables
// environment overrides.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "dailydiet.db")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("SESSION_MAX_AGE", 7*24*time.Hour)
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("METRICS_CACHE_TTL", time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.AutomaticEnv()
}

// Load reads the configuration out of v (after SetDefaults) and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		AutoMigrate:     v.GetBool("AUTO_MIGRATE"),
		SessionMaxAge:   v.GetDuration("SESSION_MAX_AGE"),
		SessionSecret:   v.GetString("SESSION_SECRET"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RedisURL:        v.GetString("REDIS_URL"),
		MetricsCacheTTL: v.GetDuration("METRICS_CACHE_TTL"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", cfg.DBDriver, DriverSQLite, DriverPostgres)
	}
	if cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.SessionMaxAge <= 0 {
		return Config{}, fmt.Errorf("SESSION_MAX_AGE must be positive, got %s", cfg.SessionMaxAge)
	}
	if cfg.MetricsCacheTTL <= 0 {
		return Config{}, fmt.Errorf("METRICS_CACHE_TTL must be positive, got %s", cfg.MetricsCacheTTL)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unsupported LOG_LEVEL %q", c.LogLevel)
}
