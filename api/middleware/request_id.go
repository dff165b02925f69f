package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with a correlation id and reflects it back in
// the response headers.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := incomingRequestID(r)
			w.Header().Set(requestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// incomingRequestID honors a caller-supplied id only when it parses as a
// UUID; anything else is replaced so log correlation stays trustworthy.
func incomingRequestID(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get(requestIDHeader))
	if _, err := uuid.Parse(raw); err == nil {
		return raw
	}
	return uuid.NewString()
}
