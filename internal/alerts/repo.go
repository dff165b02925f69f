package alerts

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

// Repository exposes persistence helpers for stock alerts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, alert *models.Alert) error
	UnresolvedExists(ctx context.Context, facilityID, commodityID uint, alertType enums.AlertType) (bool, error)
	ListUnresolved(ctx context.Context) ([]models.Alert, error)
	List(ctx context.Context) ([]AlertRow, error)
	CountUnresolved(ctx context.Context) (int64, error)
}

// AlertRow is an alert joined with its facility and commodity names.
type AlertRow struct {
	ID            uint             `json:"id"`
	FacilityID    uint             `json:"facility_id"`
	FacilityName  string           `json:"facility_name"`
	CommodityID   uint             `json:"commodity_id"`
	CommodityName string           `json:"commodity_name"`
	AlertType     enums.AlertType  `json:"alert_type"`
	AlertLevel    enums.AlertLevel `json:"alert_level"`
	Message       string           `json:"message"`
	IsResolved    bool             `json:"is_resolved"`
	CreatedAt     time.Time        `json:"created_at"`
	ResolvedAt    *time.Time       `json:"resolved_at,omitempty"`
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an alerts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *repositoryImpl) UnresolvedExists(ctx context.Context, facilityID, commodityID uint, alertType enums.AlertType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("facility_id = ? AND commodity_id = ? AND alert_type = ? AND is_resolved = ?", facilityID, commodityID, alertType, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) ListUnresolved(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.WithContext(ctx).
		Where("is_resolved = ?", false).
		Order("created_at DESC, id DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

const alertRowSelect = `a.id,
a.facility_id,
f.facility_name,
a.commodity_id,
c.commodity_name,
a.alert_type,
a.alert_level,
a.message,
a.is_resolved,
a.created_at,
a.resolved_at`

func (r *repositoryImpl) List(ctx context.Context) ([]AlertRow, error) {
	var rows []AlertRow
	err := r.db.WithContext(ctx).
		Table("alerts a").
		Select(alertRowSelect).
		Joins("JOIN facilities f ON f.id = a.facility_id").
		Joins("JOIN commodities c ON c.id = a.commodity_id").
		Order("a.created_at DESC, a.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) CountUnresolved(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("is_resolved = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
