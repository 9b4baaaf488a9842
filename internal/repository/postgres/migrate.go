package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/pressly/goose/v3"
)

// Migrator applies the embedded goose migrations.
type Migrator struct {
	db      *sql.DB
	dialect string
}

// NewMigrator configures goose for the driver and migration files.
func NewMigrator(db *sql.DB, driver string, files fs.FS, log *logger.Logger) (*Migrator, error) {
	dialect := "postgres"
	if driver == "sqlite" {
		dialect = "sqlite3"
	}

	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(dialect); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}

	return &Migrator{db: db, dialect: dialect}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Status logs the applied state of every migration.
func (m *Migrator) Status(ctx context.Context) error {
	if err := goose.StatusContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// RunMigrations applies all pending migrations from files.
func RunMigrations(ctx context.Context, db *sql.DB, driver string, files fs.FS, log *logger.Logger) error {
	m, err := NewMigrator(db, driver, files, log)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}

// gooseLogger routes goose output through the application logger. goose's
// Fatalf is downgraded to an error so the caller decides whether to exit.
type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Component("migrate").Infof(format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Component("migrate").Errorf(format, v...)
}
