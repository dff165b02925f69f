package export

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

// Repository reads the joined row sets behind each downloadable report.
type Repository interface {
	Predictions(ctx context.Context) ([]PredictionExport, error)
	Alerts(ctx context.Context) ([]AlertExport, error)
	StockBalances(ctx context.Context) ([]BalanceExport, error)
}

// PredictionExport is one row of the predictions report.
type PredictionExport struct {
	FacilityCode          string
	FacilityName          string
	CommodityCode         string
	CommodityName         string
	PredictionDate        time.Time
	PredictedStockOutDate *time.Time
	ConfidenceScore       decimal.Decimal
	RiskLevel             enums.RiskLevel
	ModelUsed             string
	CreatedAt             time.Time
}

// AlertExport is one row of the alerts report.
type AlertExport struct {
	FacilityCode  string
	FacilityName  string
	CommodityCode string
	CommodityName string
	AlertType     enums.AlertType
	AlertLevel    enums.AlertLevel
	Message       string
	IsResolved    bool
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// BalanceExport is one row of the stock balances report.
type BalanceExport struct {
	FacilityCode  string
	FacilityName  string
	CommodityCode string
	CommodityName string
	CurrentStock  decimal.Decimal
	ReorderLevel  decimal.Decimal
	MaximumStock  decimal.Decimal
	LastUpdated   time.Time
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an export repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

const predictionExportSelect = `f.facility_code,
f.facility_name,
c.commodity_code,
c.commodity_name,
p.prediction_date,
p.predicted_stock_out_date,
p.confidence_score,
p.risk_level,
p.model_used,
p.created_at`

func (r *repositoryImpl) Predictions(ctx context.Context) ([]PredictionExport, error) {
	var rows []PredictionExport
	err := r.db.WithContext(ctx).
		Table("predictions p").
		Select(predictionExportSelect).
		Joins("JOIN facilities f ON f.id = p.facility_id").
		Joins("JOIN commodities c ON c.id = p.commodity_id").
		Order("p.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

const alertExportSelect = `f.facility_code,
f.facility_name,
c.commodity_code,
c.commodity_name,
a.alert_type,
a.alert_level,
a.message,
a.is_resolved,
a.created_at,
a.resolved_at`

func (r *repositoryImpl) Alerts(ctx context.Context) ([]AlertExport, error) {
	var rows []AlertExport
	err := r.db.WithContext(ctx).
		Table("alerts a").
		Select(alertExportSelect).
		Joins("JOIN facilities f ON f.id = a.facility_id").
		Joins("JOIN commodities c ON c.id = a.commodity_id").
		Order("a.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

const balanceExportSelect = `f.facility_code,
f.facility_name,
c.commodity_code,
c.commodity_name,
b.current_stock,
b.reorder_level,
b.maximum_stock,
b.last_updated`

func (r *repositoryImpl) StockBalances(ctx context.Context) ([]BalanceExport, error) {
	var rows []BalanceExport
	err := r.db.WithContext(ctx).
		Table("stock_balances b").
		Select(balanceExportSelect).
		Joins("JOIN facilities f ON f.id = b.facility_id").
		Joins("JOIN commodities c ON c.id = b.commodity_id").
		Order("f.facility_code ASC, c.commodity_code ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
