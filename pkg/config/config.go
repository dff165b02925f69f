// Package config loads all runtime settings from STOCKSENTRY_-prefixed
// environment variables. Every knob has a default except the handful that
// genuinely differ per deployment (app env, port, database, redis).
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Ingest       IngestConfig
	Prediction   PredictionConfig
	Sweep        SweepConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOCKSENTRY_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKSENTRY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKSENTRY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKSENTRY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ServiceConfig tags log lines and metrics with which binary is running.
type ServiceConfig struct {
	Kind string `envconfig:"STOCKSENTRY_SERVICE_KIND" default:"api"`
}

// DBConfig accepts either a full DSN or the discrete STOCKSENTRY_DB_* vars
// older deployments export; ensureDSN folds the latter into the former.
type DBConfig struct {
	DSN    string `envconfig:"STOCKSENTRY_DB_DSN"`
	Driver string `envconfig:"STOCKSENTRY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOCKSENTRY_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKSENTRY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKSENTRY_DB_USER"`
	LegacyPassword string `envconfig:"STOCKSENTRY_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKSENTRY_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKSENTRY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKSENTRY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKSENTRY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKSENTRY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKSENTRY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKSENTRY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOCKSENTRY_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKSENTRY_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKSENTRY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKSENTRY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKSENTRY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKSENTRY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKSENTRY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKSENTRY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	// AutoMigrate applies pending migrations at process start. Dev only;
	// prod deployments run the migrate binary as a release step.
	AutoMigrate bool `envconfig:"STOCKSENTRY_AUTO_MIGRATE" default:"false"`
}

type IngestConfig struct {
	MaxUploadMB int `envconfig:"STOCKSENTRY_MAX_UPLOAD_MB" default:"16"`
}

// MaxUploadBytes returns the multipart upload cap in bytes.
func (i IngestConfig) MaxUploadBytes() int64 {
	if i.MaxUploadMB <= 0 {
		return 16 << 20
	}
	return int64(i.MaxUploadMB) << 20
}

type PredictionConfig struct {
	LookbackDays int `envconfig:"STOCKSENTRY_PREDICTION_LOOKBACK_DAYS" default:"90"`
}

type SweepConfig struct {
	Interval time.Duration `envconfig:"STOCKSENTRY_SWEEP_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"STOCKSENTRY_SWEEP_LOCK_TTL" default:"30m"`
}

// ensureDSN assembles DSN from the discrete vars when no full DSN was set.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	var missing []string
	for _, v := range []struct{ key, val string }{
		{EnvDBHost, db.LegacyHost},
		{EnvDBUser, db.LegacyUser},
		{EnvDBName, db.LegacyName},
	} {
		if v.val == "" {
			missing = append(missing, v.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("database config incomplete: set %s or %s", EnvDBDSN, strings.Join(missing, ", "))
	}

	auth := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		auth = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}
	u := url.URL{
		Scheme: "postgres",
		User:   auth,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {db.LegacySSLMode}}.Encode()
	}

	db.DSN = u.String()
	return nil
}
