package validators

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter and enforces the
// inclusive [lo, hi] range. Absent parameters yield fallback.
func ParseQueryInt(r *http.Request, key string, fallback, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be a whole number", key).
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	if value < lo || value > hi {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be between %d and %d", key, lo, hi).
			WithDetails(map[string]any{"field": key, "min": lo, "max": hi})
	}
	return value, nil
}

// ParseQueryID reads an optional numeric id parameter. Absent or zero yields
// nil so callers can treat the filter as unset.
func ParseQueryID(r *http.Request, key string) (*uint, error) {
	value, err := ParseQueryInt(r, key, 0, 0, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	if value == 0 {
		return nil, nil
	}
	id := uint(value)
	return &id, nil
}
