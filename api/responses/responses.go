// Package responses renders the JSON envelopes every handler speaks. Success
// bodies are {"data": ...}; failures go through WriteError so the status,
// public message, and log fields stay consistent across the API.
package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
	"github.com/stocksentryhq/stocksentry-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteError renders err as the error envelope. Client-caused codes pass
// their message through; everything else gets the generic public message so
// internals never leak to callers.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	apiErr := pkgerrors.As(err)
	if apiErr == nil {
		apiErr = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(apiErr.Code())

	var details any
	if meta.DetailsAllowed {
		details = apiErr.Details()
	}
	envelope := types.NewErrorEnvelope(string(apiErr.Code()), publicMessage(apiErr, meta), details)

	if logg != nil {
		ctx = logg.WithFields(ctx, pkgerrors.Diagnose(err).Fields())
		logg.Error(ctx, "request.error", err)
	}
	writeJSON(w, meta.HTTPStatus, envelope)
}

func publicMessage(apiErr *pkgerrors.Error, meta pkgerrors.Metadata) string {
	switch apiErr.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict:
		if m := apiErr.Message(); m != "" {
			return m
		}
	}
	return meta.PublicMessage
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already gone; all that is left is to note the failure.
		log.Printf(`{"level":"error","msg":"encode response","err":"%v"}`, err)
	}
}
