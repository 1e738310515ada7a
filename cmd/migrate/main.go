package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

// dbCommands run against a live postgres connection.
var dbCommands = map[string]func(ctx context.Context, sqlDB *sql.DB, o options) error{
	"up":     func(ctx context.Context, sqlDB *sql.DB, o options) error { return migrate.Run(ctx, sqlDB, o.dir, "up") },
	"down":   func(ctx context.Context, sqlDB *sql.DB, o options) error { return migrate.Run(ctx, sqlDB, o.dir, "down") },
	"status": func(ctx context.Context, sqlDB *sql.DB, o options) error { return migrate.Run(ctx, sqlDB, o.dir, "status") },
	"version": func(ctx context.Context, sqlDB *sql.DB, o options) error {
		if o.version == "" {
			return errors.New("missing -version for version command")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, o.dir, o.version)
	},
}

func main() {
	_ = godotenv.Load()

	var o options
	flag.StringVar(&o.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&o.dir, "dir", "", "migrations directory; empty uses the set built into the binary")
	flag.StringVar(&o.name, "name", "", "migration name (for create)")
	flag.StringVar(&o.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", o.cmd, err)
		os.Exit(1)
	}
}

func run(o options) error {
	// create and validate only touch files.
	switch o.cmd {
	case "create":
		if o.name == "" {
			return errors.New("missing -name for create")
		}
		dir := o.dir
		if dir == "" {
			dir = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(dir, o.name)
		if err != nil {
			return err
		}
		fmt.Println("created migration:", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(o.dir); err != nil {
			return err
		}
		fmt.Println("migration validation passed")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "cmd": o.cmd, "dir": o.dir})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbClient.Close()

	// goose migrations are postgres only; sqlite gets the mirrored schema.
	if cfg.DB.IsSQLite() {
		if o.cmd != "up" {
			return fmt.Errorf("-cmd=%s is not supported on sqlite", o.cmd)
		}
		if err := migrate.ApplySQLiteSchema(dbClient.DB()); err != nil {
			return err
		}
		logg.Info(ctx, "sqlite schema applied")
		return nil
	}

	command, ok := dbCommands[o.cmd]
	if !ok {
		return fmt.Errorf("unknown -cmd value %q", o.cmd)
	}
	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}
	if err := command(ctx, sqlDB, o); err != nil {
		return err
	}
	logg.Info(ctx, "migrate finished")
	return nil
}
