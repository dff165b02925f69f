package inventory

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
)

// Repository defines persistence over movements, balances, service volumes,
// and lead times.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMovement(ctx context.Context, movement *models.StockMovement) (*models.StockMovement, error)
	MovementsInWindow(ctx context.Context, facilityID, commodityID uint, from, to time.Time) ([]models.StockMovement, error)
	FindBalance(ctx context.Context, facilityID, commodityID uint) (*models.StockBalance, error)
	UpsertBalance(ctx context.Context, balance *models.StockBalance) (*models.StockBalance, error)
	ListBalances(ctx context.Context) ([]BalanceRow, error)
	AllBalances(ctx context.Context) ([]models.StockBalance, error)
	CreateServiceVolume(ctx context.Context, volume *models.ServiceVolume) (*models.ServiceVolume, error)
	ServiceVolumesSince(ctx context.Context, facilityID uint, from time.Time) ([]models.ServiceVolume, error)
	FindLeadTime(ctx context.Context, facilityID, commodityID uint, supplier string) (*models.LeadTime, error)
	UpsertLeadTime(ctx context.Context, leadTime *models.LeadTime) (*models.LeadTime, error)
	LatestLeadTime(ctx context.Context, facilityID, commodityID uint) (*models.LeadTime, error)
}
