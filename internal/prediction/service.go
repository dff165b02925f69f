package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
)

const modelError = "error"

type featureSource interface {
	Build(ctx context.Context, facilityID, commodityID uint, lookbackDays int) (*Features, error)
}

// Service projects stock-out dates for facility/commodity pairs.
type Service interface {
	Predict(ctx context.Context, facilityID, commodityID uint) (*Result, error)
	BatchPredict(ctx context.Context, pairs []Pair) []Result
	List(ctx context.Context, filters ListFilters) ([]PredictionRow, error)
}

type service struct {
	features     featureSource
	repo         Repository
	lookbackDays int
	now          func() time.Time
}

// NewService builds the prediction service. now may be nil to use wall time.
func NewService(features featureSource, repo Repository, lookbackDays int, now func() time.Time) (Service, error) {
	if features == nil {
		return nil, fmt.Errorf("feature builder required")
	}
	if repo == nil {
		return nil, fmt.Errorf("prediction repository required")
	}
	if lookbackDays <= 0 {
		lookbackDays = defaultLookbackDays
	}
	if now == nil {
		now = time.Now
	}
	return &service{features: features, repo: repo, lookbackDays: lookbackDays, now: now}, nil
}

// Predict projects the pair's stock-out and persists the projection, UNKNOWN
// outcomes included.
func (s *service) Predict(ctx context.Context, facilityID, commodityID uint) (*Result, error) {
	if facilityID == 0 || commodityID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "facility_id and commodity_id are required")
	}

	features, err := s.features.Build(ctx, facilityID, commodityID, s.lookbackDays)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prepare features")
	}

	now := s.now()
	result := classify(now, features)

	record := &models.Prediction{
		FacilityID:            facilityID,
		CommodityID:           commodityID,
		PredictionDate:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		PredictedStockOutDate: result.PredictedDate,
		ConfidenceScore:       decimal.NewFromFloat(result.Confidence),
		RiskLevel:             result.RiskLevel,
		ModelUsed:             result.Model,
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist prediction")
	}

	return result, nil
}

// BatchPredict computes projections for each pair independently. Nothing is
// persisted; one pair's failure or insufficiency never affects another.
func (s *service) BatchPredict(ctx context.Context, pairs []Pair) []Result {
	results := make([]Result, 0, len(pairs))
	for _, pair := range pairs {
		result := s.compute(ctx, pair.FacilityID, pair.CommodityID)
		result.FacilityID = pair.FacilityID
		result.CommodityID = pair.CommodityID
		results = append(results, *result)
	}
	return results
}

// List returns stored predictions, newest first.
func (s *service) List(ctx context.Context, filters ListFilters) ([]PredictionRow, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list predictions")
	}
	return rows, nil
}

func (s *service) compute(ctx context.Context, facilityID, commodityID uint) *Result {
	features, err := s.features.Build(ctx, facilityID, commodityID, s.lookbackDays)
	if err != nil {
		return &Result{
			RiskLevel: enums.RiskLevelUnknown,
			Model:     modelError,
			Message:   err.Error(),
		}
	}
	return classify(s.now(), features)
}
