// Command migrate manages the database schema.
//
// Usage: migrate [up|down|status|version]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/flowvera/flowvera/internal/config"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/repository/postgres"
	"github.com/flowvera/flowvera/migrations"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := run(context.Background(), command); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: "console"})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := postgres.NewMigrator(db, cfg.Database.Driver, migrations.Files, log)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		if err := m.Up(ctx); err != nil {
			return err
		}
	case "down":
		if err := m.Down(ctx); err != nil {
			return err
		}
	case "status":
		return m.Status(ctx)
	case "version":
	default:
		return fmt.Errorf("unknown command %q (want up, down, status or version)", command)
	}

	v, err := m.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Schema version: %d (%s)\n", v, cfg.Database.Driver)
	return nil
}
