package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where new migrations are written during development.
const DefaultDir = "pkg/migrate/migrations"

const embeddedDir = "migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// prepare points goose at dir, or at the migrations compiled into the binary
// when dir is empty.
func prepare(dir string) (string, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	if dir == "" {
		goose.SetBaseFS(embedded)
		return embeddedDir, nil
	}
	goose.SetBaseFS(nil)
	return dir, nil
}

// Run executes a goose command such as up, down or status.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	source, err := prepare(dir)
	if err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, source, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down until it sits at targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	source, err := prepare(dir)
	if err != nil {
		return err
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current < target:
		err = goose.UpToContext(ctx, db, source, target)
	case current > target:
		err = goose.DownToContext(ctx, db, source, target)
	}
	if err != nil {
		return fmt.Errorf("goose migrate to %d: %w", target, err)
	}
	return nil
}
