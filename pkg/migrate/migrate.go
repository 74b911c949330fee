package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

const (
	// DefaultDir is the goose migrations directory relative to the repo root.
	DefaultDir = "migrations"

	dialect = "postgres"
)

// Run executes a goose command (up, down, status, ...) against the
// provided database handle.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("migrate: nil database handle")
	}
	if dir == "" {
		dir = DefaultDir
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
