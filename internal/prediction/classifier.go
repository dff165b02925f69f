package prediction

import (
	"time"

	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

const (
	modelRuleBased = "rule_based"
	modelNone      = "none"
)

const insufficientDataMessage = "Insufficient data for prediction"

// Result is one stock-out projection for a facility/commodity pair.
type Result struct {
	FacilityID          uint            `json:"facility_id,omitempty"`
	CommodityID         uint            `json:"commodity_id,omitempty"`
	PredictedDate       *time.Time      `json:"predicted_date"`
	Confidence          float64         `json:"confidence"`
	RiskLevel           enums.RiskLevel `json:"risk_level"`
	Model               string          `json:"model"`
	DaysUntilStockout   *int            `json:"days_until_stockout,omitempty"`
	CurrentStock        float64         `json:"current_stock"`
	AvgDailyConsumption float64         `json:"avg_daily_consumption"`
	AvgLeadTime         float64         `json:"avg_lead_time"`
	Message             string          `json:"message,omitempty"`
}

// classify grades a feature vector into a projection. nil features is the
// insufficient-data outcome and maps to the UNKNOWN result.
func classify(now time.Time, features *Features) *Result {
	if features == nil {
		return &Result{
			RiskLevel: enums.RiskLevelUnknown,
			Model:     modelNone,
			Message:   insufficientDataMessage,
		}
	}

	riskLevel, confidence := classifyRisk(features.DaysUntilStockout, features.AvgLeadTime)

	days := int(features.DaysUntilStockout)
	predicted := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)

	return &Result{
		PredictedDate:       &predicted,
		Confidence:          confidence,
		RiskLevel:           riskLevel,
		Model:               modelRuleBased,
		DaysUntilStockout:   &days,
		CurrentStock:        features.CurrentStock,
		AvgDailyConsumption: features.AvgDailyConsumption,
		AvgLeadTime:         features.AvgLeadTime,
	}
}

// classifyRisk grades the projected stock-out horizon against the pair's
// replenishment lead time.
func classifyRisk(daysUntilStockout, avgLeadTime float64) (enums.RiskLevel, float64) {
	switch {
	case daysUntilStockout <= avgLeadTime:
		return enums.RiskLevelCritical, 0.9
	case daysUntilStockout <= avgLeadTime*1.5:
		return enums.RiskLevelHigh, 0.8
	case daysUntilStockout <= avgLeadTime*2:
		return enums.RiskLevelMedium, 0.7
	default:
		return enums.RiskLevelLow, 0.6
	}
}
