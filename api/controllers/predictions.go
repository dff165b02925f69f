package controllers

import (
	"net/http"

	"github.com/stocksentryhq/stocksentry-backend/api/responses"
	"github.com/stocksentryhq/stocksentry-backend/api/validators"
	"github.com/stocksentryhq/stocksentry-backend/internal/prediction"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

// ListPredictions returns stored predictions, optionally filtered by facility
// and commodity.
func ListPredictions(svc prediction.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prediction service unavailable"))
			return
		}

		filters, err := buildPredictionFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type predictRequest struct {
	FacilityID  uint `json:"facility_id"`
	CommodityID uint `json:"commodity_id"`
}

// Predict runs one stock-out projection and stores the outcome.
func Predict(svc prediction.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prediction service unavailable"))
			return
		}

		var payload predictRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Predict(r.Context(), payload.FacilityID, payload.CommodityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type batchPredictRequest struct {
	// Capped so one request cannot queue unbounded projection work.
	Pairs []prediction.Pair `json:"pairs" validate:"max=500"`
}

// BatchPredict projects every submitted pair without persisting anything.
// Pairs are independent; an unknown pair yields an UNKNOWN entry.
func BatchPredict(svc prediction.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prediction service unavailable"))
			return
		}

		var payload batchPredictRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results := svc.BatchPredict(r.Context(), payload.Pairs)
		responses.WriteSuccess(w, results)
	}
}

func buildPredictionFilters(r *http.Request) (prediction.ListFilters, error) {
	facilityID, err := validators.ParseQueryID(r, "facility_id")
	if err != nil {
		return prediction.ListFilters{}, err
	}
	commodityID, err := validators.ParseQueryID(r, "commodity_id")
	if err != nil {
		return prediction.ListFilters{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
	if err != nil {
		return prediction.ListFilters{}, err
	}
	return prediction.ListFilters{
		FacilityID:  facilityID,
		CommodityID: commodityID,
		Limit:       limit,
	}, nil
}
