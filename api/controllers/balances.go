package controllers

import (
	"net/http"
	"time"

	"github.com/stocksentryhq/stocksentry-backend/api/responses"
	"github.com/stocksentryhq/stocksentry-backend/internal/inventory"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

const (
	stockStatusLow = "LOW"
	stockStatusOK  = "OK"
)

type stockBalanceResponse struct {
	FacilityID    uint      `json:"facility_id"`
	FacilityCode  string    `json:"facility_code"`
	FacilityName  string    `json:"facility_name"`
	CommodityID   uint      `json:"commodity_id"`
	CommodityCode string    `json:"commodity_code"`
	CommodityName string    `json:"commodity_name"`
	CurrentStock  float64   `json:"current_stock"`
	ReorderLevel  float64   `json:"reorder_level"`
	MaximumStock  float64   `json:"maximum_stock"`
	LastUpdated   time.Time `json:"last_updated"`
	StockStatus   string    `json:"stock_status"`
}

func newStockBalanceResponse(row inventory.BalanceRow) stockBalanceResponse {
	status := stockStatusOK
	if row.CurrentStock.Cmp(row.ReorderLevel) <= 0 {
		status = stockStatusLow
	}
	return stockBalanceResponse{
		FacilityID:    row.FacilityID,
		FacilityCode:  row.FacilityCode,
		FacilityName:  row.FacilityName,
		CommodityID:   row.CommodityID,
		CommodityCode: row.CommodityCode,
		CommodityName: row.CommodityName,
		CurrentStock:  row.CurrentStock.InexactFloat64(),
		ReorderLevel:  row.ReorderLevel.InexactFloat64(),
		MaximumStock:  row.MaximumStock.InexactFloat64(),
		LastUpdated:   row.LastUpdated,
		StockStatus:   status,
	}
}

// ListStockBalances returns every balance snapshot with a LOW/OK flag.
func ListStockBalances(repo inventory.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory repository unavailable"))
			return
		}

		rows, err := repo.ListBalances(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock balances"))
			return
		}

		payload := make([]stockBalanceResponse, len(rows))
		for i, row := range rows {
			payload[i] = newStockBalanceResponse(row)
		}
		responses.WriteSuccess(w, payload)
	}
}
