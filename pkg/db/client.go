package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// Client owns the shared GORM connection pool. Services depend on it through
// small interfaces (WithTx, Ping) rather than the concrete type.
type Client struct {
	conn *gorm.DB
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New opens postgres, or sqlite when PETCARE_DB_DRIVER=sqlite, and applies
// the pool settings from cfg.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database DSN is required")
	}

	conn, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger:                 newQueryLogger(logg, cfg.SlowQuery),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", driverName(cfg), err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "db_driver", driverName(cfg)), "database connection established")
	}
	return &Client{conn: conn}, nil
}

// NewFromGorm wraps an existing connection, mainly for tests and tooling.
func NewFromGorm(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

func dialector(cfg config.DBConfig) gorm.Dialector {
	if cfg.IsSQLite() {
		return sqlite.Open(cfg.DSN)
	}
	// Simple protocol keeps pgbouncer in transaction mode happy.
	return postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true})
}

func driverName(cfg config.DBConfig) string {
	if cfg.IsSQLite() {
		return config.DriverSQLite
	}
	return config.DriverPostgres
}

func (c *Client) DB() *gorm.DB {
	return c.conn
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in a transaction. Returning an error or panicking rolls it
// back; a panic is re-raised after the rollback.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}
