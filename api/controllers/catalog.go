package controllers

import (
	"net/http"

	"github.com/stocksentryhq/stocksentry-backend/api/responses"
	"github.com/stocksentryhq/stocksentry-backend/internal/catalog"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

// ListFacilities returns the facility master list ordered by name.
func ListFacilities(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository unavailable"))
			return
		}

		facilities, err := repo.ListFacilities(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list facilities"))
			return
		}
		responses.WriteSuccess(w, catalog.NewFacilityDTOs(facilities))
	}
}

// ListCommodities returns the commodity master list ordered by name.
func ListCommodities(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository unavailable"))
			return
		}

		commodities, err := repo.ListCommodities(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list commodities"))
			return
		}
		responses.WriteSuccess(w, catalog.NewCommodityDTOs(commodities))
	}
}
