package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stocksentryhq/stocksentry-backend/internal/alerts"
	"github.com/stocksentryhq/stocksentry-backend/internal/cron"
	"github.com/stocksentryhq/stocksentry-backend/internal/inventory"
	"github.com/stocksentryhq/stocksentry-backend/pkg/config"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db"
	"github.com/stocksentryhq/stocksentry-backend/pkg/instance"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
	"github.com/stocksentryhq/stocksentry-backend/pkg/metrics"
	"github.com/stocksentryhq/stocksentry-backend/pkg/migrate"
	"github.com/stocksentryhq/stocksentry-backend/pkg/redis"
)

func main() {
	logg, cfg := boot("alerts-worker")
	cfg.Service.Kind = "alerts-worker"

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		fatal(logg, "database bootstrap failed", err)
	}
	defer closeResource(logg, "database", dbClient)

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		fatal(logg, "dev auto-migration failed", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		fatal(logg, "redis bootstrap failed", err)
	}
	defer closeResource(logg, "redis", redisClient)

	alertsService, err := alerts.NewService(
		dbClient,
		alerts.NewRepository(dbClient.DB()),
		inventory.NewRepository(dbClient.DB()),
	)
	if err != nil {
		fatal(logg, "alerts service init failed", err)
	}

	sweepJob, err := cron.NewLowStockJob(cron.LowStockJobParams{
		Logger: logg,
		Alerts: alertsService,
	})
	if err != nil {
		fatal(logg, "low stock job init failed", err)
	}

	lockEnv := cfg.App.Env
	if lockEnv == "" {
		lockEnv = "local"
	}
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("alerts-worker", lockEnv), cfg.Sweep.LockTTL)
	if err != nil {
		fatal(logg, "sweep lock init failed", err)
	}

	runner, err := cron.NewRunner(cron.RunnerParams{
		Logger:   logg,
		Registry: cron.NewRegistry(sweepJob),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Sweep.Interval,
	})
	if err != nil {
		fatal(logg, "cron runner init failed", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.ID(),
	})
	logg.Info(ctx, "alerts worker running")

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "alerts worker exited", err)
		os.Exit(1)
	}

	logg.Info(ctx, "alerts worker shut down cleanly")
}

// boot wires the two-stage logger: a default one so config problems are
// visible, then the real one tuned by the loaded config.
func boot(service string) (*logger.Logger, *config.Config) {
	logg := logger.New(logger.Options{ServiceName: service})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), "no .env file; reading process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(logg, "config load failed", err)
	}

	return logger.New(logger.Options{
		ServiceName: service,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	}), cfg
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}

// closeResource is deferred for clients that outlive the whole process;
// a failed close at exit is only worth a log line.
func closeResource(logg *logger.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logg.Error(context.Background(), "close "+name, err)
	}
}
