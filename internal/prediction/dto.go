package prediction

import (
	"time"

	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the prediction list.
type ListFilters struct {
	FacilityID  *uint
	CommodityID *uint
	Limit       int
}

// Pair names one facility/commodity combination to project. Unknown pairs are
// not rejected up front; they come back as UNKNOWN results.
type Pair struct {
	FacilityID  uint `json:"facility_id"`
	CommodityID uint `json:"commodity_id"`
}

// PredictionRow is a stored prediction joined with its master-list names.
type PredictionRow struct {
	ID                    uint            `json:"id"`
	FacilityID            uint            `json:"facility_id"`
	FacilityName          string          `json:"facility_name"`
	CommodityID           uint            `json:"commodity_id"`
	CommodityName         string          `json:"commodity_name"`
	PredictionDate        time.Time       `json:"prediction_date"`
	PredictedStockOutDate *time.Time      `json:"predicted_stock_out_date"`
	ConfidenceScore       float64         `json:"confidence_score"`
	RiskLevel             enums.RiskLevel `json:"risk_level"`
	ModelUsed             string          `json:"model_used"`
	CreatedAt             time.Time       `json:"created_at"`
}
