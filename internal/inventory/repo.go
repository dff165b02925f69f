package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
)

// BalanceRow is a stock balance joined with its master-list names.
type BalanceRow struct {
	FacilityID    uint
	FacilityCode  string
	FacilityName  string
	CommodityID   uint
	CommodityCode string
	CommodityName string
	CurrentStock  decimal.Decimal
	ReorderLevel  decimal.Decimal
	MaximumStock  decimal.Decimal
	LastUpdated   time.Time
}

const balanceRowsQuery = `
SELECT sb.facility_id,
       f.facility_code,
       f.facility_name,
       sb.commodity_id,
       c.commodity_code,
       c.commodity_name,
       sb.current_stock,
       sb.reorder_level,
       sb.maximum_stock,
       sb.last_updated
FROM stock_balances sb
JOIN facilities f ON f.id = sb.facility_id
JOIN commodities c ON c.id = sb.commodity_id
ORDER BY f.facility_name ASC, c.commodity_name ASC
`

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// CreateMovement appends one stock movement event.
func (r *repository) CreateMovement(ctx context.Context, movement *models.StockMovement) (*models.StockMovement, error) {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return nil, err
	}
	return movement, nil
}

// MovementsInWindow returns the pair's movements with movement_date inside
// [from, to], oldest first.
func (r *repository) MovementsInWindow(ctx context.Context, facilityID, commodityID uint, from, to time.Time) ([]models.StockMovement, error) {
	var rows []models.StockMovement
	err := r.db.WithContext(ctx).
		Where("facility_id = ? AND commodity_id = ? AND movement_date >= ? AND movement_date <= ?", facilityID, commodityID, from, to).
		Order("movement_date ASC, id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindBalance loads the balance snapshot for a facility/commodity pair.
func (r *repository) FindBalance(ctx context.Context, facilityID, commodityID uint) (*models.StockBalance, error) {
	var balance models.StockBalance
	if err := r.db.WithContext(ctx).First(&balance, "facility_id = ? AND commodity_id = ?", facilityID, commodityID).Error; err != nil {
		return nil, err
	}
	return &balance, nil
}

// UpsertBalance inserts the pair's balance or refreshes the stock columns of
// the existing snapshot.
func (r *repository) UpsertBalance(ctx context.Context, balance *models.StockBalance) (*models.StockBalance, error) {
	tx := r.db.WithContext(ctx)

	var existing models.StockBalance
	err := tx.First(&existing, "facility_id = ? AND commodity_id = ?", balance.FacilityID, balance.CommodityID).Error
	switch {
	case err == nil:
		existing.CurrentStock = balance.CurrentStock
		existing.ReorderLevel = balance.ReorderLevel
		existing.MaximumStock = balance.MaximumStock
		if err := tx.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(balance).Error; err != nil {
			return nil, err
		}
		return balance, nil
	default:
		return nil, err
	}
}

// ListBalances returns every balance joined with facility and commodity names.
func (r *repository) ListBalances(ctx context.Context) ([]BalanceRow, error) {
	var rows []BalanceRow
	if err := r.db.WithContext(ctx).Raw(balanceRowsQuery).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AllBalances returns the raw balance rows without joins.
func (r *repository) AllBalances(ctx context.Context) ([]models.StockBalance, error) {
	var rows []models.StockBalance
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

// CreateServiceVolume appends one reported service volume.
func (r *repository) CreateServiceVolume(ctx context.Context, volume *models.ServiceVolume) (*models.ServiceVolume, error) {
	if err := r.db.WithContext(ctx).Create(volume).Error; err != nil {
		return nil, err
	}
	return volume, nil
}

// ServiceVolumesSince returns the facility's volumes reported on or after from,
// oldest first.
func (r *repository) ServiceVolumesSince(ctx context.Context, facilityID uint, from time.Time) ([]models.ServiceVolume, error) {
	var rows []models.ServiceVolume
	err := r.db.WithContext(ctx).
		Where("facility_id = ? AND reporting_period >= ?", facilityID, from).
		Order("reporting_period ASC, id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindLeadTime loads the lead time registered for a pair and supplier.
func (r *repository) FindLeadTime(ctx context.Context, facilityID, commodityID uint, supplier string) (*models.LeadTime, error) {
	var leadTime models.LeadTime
	if err := r.db.WithContext(ctx).First(&leadTime, "facility_id = ? AND commodity_id = ? AND supplier = ?", facilityID, commodityID, supplier).Error; err != nil {
		return nil, err
	}
	return &leadTime, nil
}

// UpsertLeadTime inserts the supplier's lead time or refreshes the day count of
// the existing row.
func (r *repository) UpsertLeadTime(ctx context.Context, leadTime *models.LeadTime) (*models.LeadTime, error) {
	tx := r.db.WithContext(ctx)

	var existing models.LeadTime
	err := tx.First(&existing, "facility_id = ? AND commodity_id = ? AND supplier = ?", leadTime.FacilityID, leadTime.CommodityID, leadTime.Supplier).Error
	switch {
	case err == nil:
		existing.AverageLeadTimeDays = leadTime.AverageLeadTimeDays
		if err := tx.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(leadTime).Error; err != nil {
			return nil, err
		}
		return leadTime, nil
	default:
		return nil, err
	}
}

// LatestLeadTime returns the pair's most recently updated lead time across
// suppliers.
func (r *repository) LatestLeadTime(ctx context.Context, facilityID, commodityID uint) (*models.LeadTime, error) {
	var leadTime models.LeadTime
	err := r.db.WithContext(ctx).
		Where("facility_id = ? AND commodity_id = ?", facilityID, commodityID).
		Order("last_updated DESC, id DESC").
		First(&leadTime).
		Error
	if err != nil {
		return nil, err
	}
	return &leadTime, nil
}
