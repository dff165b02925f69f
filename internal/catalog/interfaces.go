package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
)

// Repository defines persistence over the facility and commodity master lists.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindFacilityByCode(ctx context.Context, code string) (*models.Facility, error)
	FindCommodityByCode(ctx context.Context, code string) (*models.Commodity, error)
	FindFacilityByID(ctx context.Context, id uint) (*models.Facility, error)
	FindCommodityByID(ctx context.Context, id uint) (*models.Commodity, error)
	UpsertFacility(ctx context.Context, facility *models.Facility) (*models.Facility, error)
	UpsertCommodity(ctx context.Context, commodity *models.Commodity) (*models.Commodity, error)
	ListFacilities(ctx context.Context) ([]models.Facility, error)
	ListCommodities(ctx context.Context) ([]models.Commodity, error)
	CountFacilities(ctx context.Context) (int64, error)
	CountCommodities(ctx context.Context) (int64, error)
}
