package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stocksentryhq/stocksentry-backend/api/responses"
	"github.com/stocksentryhq/stocksentry-backend/internal/export"
	"github.com/stocksentryhq/stocksentry-backend/internal/ingest"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

// ExportCSV downloads one of the reports as a CSV attachment.
func ExportCSV(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export service unavailable"))
			return
		}

		kind, err := export.ParseKind(chi.URLParam(r, "type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var buf bytes.Buffer
		filename, err := svc.Export(r.Context(), kind, &buf)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCSVAttachment(r.Context(), logg, w, filename, &buf)
	}
}

// SampleData downloads the upload template for a file kind.
func SampleData(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export service unavailable"))
			return
		}

		kind := ingest.FileKind(chi.URLParam(r, "type"))

		var buf bytes.Buffer
		filename, err := svc.Sample(kind, &buf)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCSVAttachment(r.Context(), logg, w, filename, &buf)
	}
}

func writeCSVAttachment(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil && logg != nil {
		logg.Error(ctx, "failed to stream csv attachment", err)
	}
}
