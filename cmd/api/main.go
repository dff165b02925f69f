package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stocksentryhq/stocksentry-backend/api/routes"
	"github.com/stocksentryhq/stocksentry-backend/internal/alerts"
	"github.com/stocksentryhq/stocksentry-backend/internal/catalog"
	"github.com/stocksentryhq/stocksentry-backend/internal/dashboard"
	"github.com/stocksentryhq/stocksentry-backend/internal/export"
	"github.com/stocksentryhq/stocksentry-backend/internal/ingest"
	"github.com/stocksentryhq/stocksentry-backend/internal/inventory"
	"github.com/stocksentryhq/stocksentry-backend/internal/prediction"
	"github.com/stocksentryhq/stocksentry-backend/pkg/config"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db"
	"github.com/stocksentryhq/stocksentry-backend/pkg/env"
	"github.com/stocksentryhq/stocksentry-backend/pkg/instance"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
	"github.com/stocksentryhq/stocksentry-backend/pkg/metrics"
	"github.com/stocksentryhq/stocksentry-backend/pkg/migrate"
	"github.com/stocksentryhq/stocksentry-backend/pkg/redis"
)

func main() {
	logg, cfg := boot("api")
	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fatal(logg, "database bootstrap failed", err)
	}
	defer closeResource(logg, "database", dbClient)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		fatal(logg, "dev auto-migration failed", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		fatal(logg, "redis bootstrap failed", err)
	}
	defer closeResource(logg, "redis", redisClient)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	predictionRepo := prediction.NewRepository(dbClient.DB())
	alertsRepo := alerts.NewRepository(dbClient.DB())

	ingestService, err := ingest.NewService(dbClient, catalogRepo, inventoryRepo, metrics.NewIngestMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		fatal(logg, "ingest service init failed", err)
	}

	featureBuilder, err := prediction.NewBuilder(inventoryRepo, nil)
	if err != nil {
		fatal(logg, "prediction feature builder init failed", err)
	}
	predictionService, err := prediction.NewService(featureBuilder, predictionRepo, cfg.Prediction.LookbackDays, nil)
	if err != nil {
		fatal(logg, "prediction service init failed", err)
	}

	alertsService, err := alerts.NewService(dbClient, alertsRepo, inventoryRepo)
	if err != nil {
		fatal(logg, "alerts service init failed", err)
	}

	dashboardService, err := dashboard.NewService(catalogRepo, alertsRepo, predictionRepo)
	if err != nil {
		fatal(logg, "dashboard service init failed", err)
	}

	exportService, err := export.NewService(export.NewRepository(dbClient.DB()), nil)
	if err != nil {
		fatal(logg, "export service init failed", err)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
	})
	logg.Info(ctx, "api listening")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Catalog:    catalogRepo,
			Inventory:  inventoryRepo,
			Ingest:     ingestService,
			Prediction: predictionService,
			Alerts:     alertsService,
			Dashboard:  dashboardService,
			Export:     exportService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server exited", err)
		os.Exit(1)
	}
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
