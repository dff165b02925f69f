package migrate

import (
	"context"
	"fmt"

	"github.com/stocksentryhq/stocksentry-backend/pkg/config"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. SQLite datasources use the GORM schema builder instead of
// goose; the SQL migrations target Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.DB.Driver == db.DriverSQLite {
		ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})
		logg.Info(ctx, "running GORM auto-migration (sqlite dev datasource)")
		if err := client.DB().WithContext(ctx).AutoMigrate(
			&models.Facility{},
			&models.Commodity{},
			&models.StockMovement{},
			&models.StockBalance{},
			&models.ServiceVolume{},
			&models.LeadTime{},
			&models.Prediction{},
			&models.Alert{},
		); err != nil {
			return fmt.Errorf("gorm auto-migrate: %w", err)
		}
		logg.Info(ctx, "GORM auto-migration completed")
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
