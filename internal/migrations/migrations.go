// Package migrations owns the relational schema of the daily diet store and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Up applies every pending migration to db. dialect is a goose dialect
// name ("sqlite3" or "postgres").
func Up(ctx context.Context, db *sql.DB, dialect string, logger *slog.Logger) error {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	if logger == nil {
		return nil
	}
	for _, r := range results {
		logger.Info("applied migration",
			"component", "migrations",
			"version", r.Source.Version,
			"file", r.Source.Path,
			"duration", r.Duration,
		)
	}
	return nil
}

// Version reports the schema version currently applied to db.
func Version(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return 0, err
	}
	v, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return v, nil
}

func newProvider(db *sql.DB, dialect string) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.Dialect(dialect), db, FS)
	if err != nil {
		return nil, fmt.Errorf("goose provider %s: %w", dialect, err)
	}
	return provider, nil
}
