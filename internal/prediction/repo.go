package prediction

import (
	"context"

	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
)

const (
	defaultListLimit   = 100
	defaultRecentLimit = 10
)

const predictionRowSelect = `p.id,
p.facility_id,
f.facility_name,
p.commodity_id,
c.commodity_name,
p.prediction_date,
p.predicted_stock_out_date,
p.confidence_score,
p.risk_level,
p.model_used,
p.created_at`

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

// Create inserts a prediction row.
func (r *repository) Create(ctx context.Context, prediction *models.Prediction) (*models.Prediction, error) {
	if err := r.db.WithContext(ctx).Create(prediction).Error; err != nil {
		return nil, err
	}
	return prediction, nil
}

// List returns stored predictions joined with names, newest first. The limit
// is capped at 100.
func (r *repository) List(ctx context.Context, filters ListFilters) ([]PredictionRow, error) {
	limit := filters.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	q := r.db.WithContext(ctx).
		Table("predictions p").
		Select(predictionRowSelect).
		Joins("JOIN facilities f ON f.id = p.facility_id").
		Joins("JOIN commodities c ON c.id = p.commodity_id").
		Order("p.created_at DESC, p.id DESC").
		Limit(limit)
	if filters.FacilityID != nil {
		q = q.Where("p.facility_id = ?", *filters.FacilityID)
	}
	if filters.CommodityID != nil {
		q = q.Where("p.commodity_id = ?", *filters.CommodityID)
	}

	var rows []PredictionRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Recent returns the newest predictions joined with names.
func (r *repository) Recent(ctx context.Context, limit int) ([]PredictionRow, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return r.List(ctx, ListFilters{Limit: limit})
}
