package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const defaultMigrationTable = "schema_migrations"

// MigrateOption configures Migrate.
type MigrateOption func(*migrateConfig)

type migrateConfig struct {
	logger *slog.Logger
	table  string
}

// WithMigrationLogger routes goose output to l.
func WithMigrationLogger(l *slog.Logger) MigrateOption {
	return func(c *migrateConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMigrationTable sets the goose version table. Default: "schema_migrations"
func WithMigrationTable(name string) MigrateOption {
	return func(c *migrateConfig) {
		if name != "" {
			c.table = name
		}
	}
}

// Migrate applies all pending migrations found in dir of fsys.
// goose keeps package-level state, so concurrent calls are not supported.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string, opts ...MigrateOption) error {
	cfg := &migrateConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		table:  defaultMigrationTable,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// The wrapper shares the pool's connections; closing it would close them too.
	sqlDB := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(fsys)
	goose.SetLogger(&gooseLogger{cfg.logger})
	goose.SetTableName(cfg.table)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf logs only; goose returns the error to Migrate afterwards.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
