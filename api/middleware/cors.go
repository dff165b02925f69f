package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/stocksentryhq/stocksentry-backend/pkg/config"
)

var dashboardOrigins = []string{
	"https://dashboard.stocksentry.io",
}

// Frontend dev servers. Never allowed in prod.
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// CORS applies the allowed-origin policy. Production accepts the hosted
// dashboard only; every other environment also accepts local dev servers.
func CORS(app config.AppConfig) func(http.Handler) http.Handler {
	origins := dashboardOrigins
	if !app.IsProd() {
		origins = append(append([]string{}, dashboardOrigins...), devOrigins...)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
