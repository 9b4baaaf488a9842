package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied.
// The database is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	goose.SetBaseFS(migrations.Files)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("Failed to set goose dialect: %v", err)
	}
	if err := goose.UpContext(context.Background(), db, "."); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() { CleanupDB(db) })
	return db
}

// CleanupDB closes the test database
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}

// NewTestLogger returns a logger that only emits errors.
func NewTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
