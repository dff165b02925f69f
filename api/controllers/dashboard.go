package controllers

import (
	"net/http"

	"github.com/stocksentryhq/stocksentry-backend/api/responses"
	"github.com/stocksentryhq/stocksentry-backend/internal/dashboard"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

// DashboardStats returns the landing page summary numbers.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
