package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/stocksentryhq/stocksentry-backend/internal/prediction"
	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
)

const recentPredictionLimit = 10

type catalogCounter interface {
	CountFacilities(ctx context.Context) (int64, error)
	CountCommodities(ctx context.Context) (int64, error)
}

type alertCounter interface {
	CountUnresolved(ctx context.Context) (int64, error)
}

type predictionReader interface {
	Recent(ctx context.Context, limit int) ([]prediction.PredictionRow, error)
}

// Stats is the landing page summary.
type Stats struct {
	TotalFacilities   int64              `json:"total_facilities"`
	TotalCommodities  int64              `json:"total_commodities"`
	ActiveAlerts      int64              `json:"active_alerts"`
	RecentPredictions []RecentPrediction `json:"recent_predictions"`
}

// RecentPrediction is one row of the dashboard's latest-predictions panel.
type RecentPrediction struct {
	FacilityName  string          `json:"facility_name"`
	CommodityName string          `json:"commodity_name"`
	PredictedDate *time.Time      `json:"predicted_date"`
	RiskLevel     enums.RiskLevel `json:"risk_level"`
	Confidence    float64         `json:"confidence"`
}

// Service aggregates headline numbers for the dashboard.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	catalog     catalogCounter
	alerts      alertCounter
	predictions predictionReader
}

// NewService builds the dashboard service.
func NewService(catalog catalogCounter, alerts alertCounter, predictions predictionReader) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog counter required")
	}
	if alerts == nil {
		return nil, fmt.Errorf("alert counter required")
	}
	if predictions == nil {
		return nil, fmt.Errorf("prediction reader required")
	}
	return &service{
		catalog:     catalog,
		alerts:      alerts,
		predictions: predictions,
	}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	facilities, err := s.catalog.CountFacilities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count facilities")
	}
	commodities, err := s.catalog.CountCommodities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count commodities")
	}
	activeAlerts, err := s.alerts.CountUnresolved(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active alerts")
	}
	rows, err := s.predictions.Recent(ctx, recentPredictionLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent predictions")
	}

	recent := make([]RecentPrediction, 0, len(rows))
	for _, row := range rows {
		recent = append(recent, RecentPrediction{
			FacilityName:  row.FacilityName,
			CommodityName: row.CommodityName,
			PredictedDate: row.PredictedStockOutDate,
			RiskLevel:     row.RiskLevel,
			Confidence:    row.ConfidenceScore,
		})
	}

	return &Stats{
		TotalFacilities:   facilities,
		TotalCommodities:  commodities,
		ActiveAlerts:      activeAlerts,
		RecentPredictions: recent,
	}, nil
}
