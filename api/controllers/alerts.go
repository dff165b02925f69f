package controllers

import (
	"net/http"

	"github.com/stocksentryhq/stocksentry-backend/api/responses"
	"github.com/stocksentryhq/stocksentry-backend/internal/alerts"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

// ListAlerts returns every alert, newest first.
func ListAlerts(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alerts service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GenerateAlerts runs the low stock sweep on demand.
func GenerateAlerts(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alerts service unavailable"))
			return
		}

		result, err := svc.Generate(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
