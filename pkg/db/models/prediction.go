package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

// Prediction is one persisted stock-out estimate for a facility/commodity pair.
type Prediction struct {
	ID                    uint            `gorm:"column:id;primaryKey"`
	FacilityID            uint            `gorm:"column:facility_id;not null;index"`
	CommodityID           uint            `gorm:"column:commodity_id;not null;index"`
	PredictionDate        time.Time       `gorm:"column:prediction_date;type:date;not null"`
	PredictedStockOutDate *time.Time      `gorm:"column:predicted_stock_out_date;type:date"`
	ConfidenceScore       decimal.Decimal `gorm:"column:confidence_score;type:numeric(5,2);not null;default:0"`
	RiskLevel             enums.RiskLevel `gorm:"column:risk_level;not null"`
	ModelUsed             string          `gorm:"column:model_used;not null"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
}
