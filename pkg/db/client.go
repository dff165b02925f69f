// Package db owns the GORM connection. Postgres is the production engine;
// sqlite serves local scratch runs and keeps the repository tests hermetic.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stocksentryhq/stocksentry-backend/pkg/config"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

// Supported driver names for config.DBConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Client is the shared handle every repository runs queries through.
type Client struct {
	orm *gorm.DB
}

// Pinger is what health checks need from a datasource.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New opens the configured datasource and tunes its connection pool.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// GORM's own query log is noise next to the structured logger.
	silent := gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent})

	orm, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", displayDriver(cfg.Driver), err)
	}

	pool, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	tunePool(pool, cfg)

	if logg != nil {
		logg.Info(ctx, "database connection established")
	}
	return &Client{orm: orm}, nil
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	switch cfg.Driver {
	case DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	case DriverPostgres, "":
		return postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func displayDriver(driver string) string {
	if driver == "" {
		return DriverPostgres
	}
	return driver
}

// tunePool applies the pool knobs that are set; zero means keep the
// database/sql default.
func tunePool(pool *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// DB returns the underlying GORM handle.
func (c *Client) DB() *gorm.DB {
	return c.orm
}

// SQLDB returns the database/sql pool beneath GORM, for tools like goose
// that speak plain SQL.
func (c *Client) SQLDB() (*sql.DB, error) {
	return c.orm.DB()
}

// Ping reports whether the datasource answers.
func (c *Client) Ping(ctx context.Context) error {
	pool, err := c.SQLDB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

// Close drains the connection pool.
func (c *Client) Close() error {
	pool, err := c.SQLDB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// WithTx executes fn inside a transaction. Errors and panics roll back;
// anything else commits.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.orm.WithContext(ctx).Transaction(fn)
}
