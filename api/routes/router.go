package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stocksentryhq/stocksentry-backend/api/controllers"
	"github.com/stocksentryhq/stocksentry-backend/api/middleware"
	"github.com/stocksentryhq/stocksentry-backend/internal/alerts"
	"github.com/stocksentryhq/stocksentry-backend/internal/catalog"
	"github.com/stocksentryhq/stocksentry-backend/internal/dashboard"
	"github.com/stocksentryhq/stocksentry-backend/internal/export"
	"github.com/stocksentryhq/stocksentry-backend/internal/ingest"
	"github.com/stocksentryhq/stocksentry-backend/internal/inventory"
	"github.com/stocksentryhq/stocksentry-backend/internal/prediction"
	"github.com/stocksentryhq/stocksentry-backend/pkg/config"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
	"github.com/stocksentryhq/stocksentry-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. main wires it once;
// tests swap in fakes field by field.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      *redis.Client
	Catalog    catalog.Repository
	Inventory  inventory.Repository
	Ingest     ingest.Service
	Prediction prediction.Service
	Alerts     alerts.Service
	Dashboard  dashboard.Service
	Export     export.Service
}

// NewRouter mounts health, metrics and the versioned API. Write routes go
// through the idempotency middleware; everything shares request ids, panic
// recovery and access logging.
func NewRouter(d Deps) http.Handler {
	// Idempotency takes an interface; a nil *redis.Client has to stay a nil
	// interface for the middleware's store check to see it.
	var dedupe redis.IdempotencyStore
	if d.Redis != nil {
		dedupe = d.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.CORS(d.Config.App),
		middleware.Idempotency(dedupe, d.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.DB, d.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard/stats", controllers.DashboardStats(d.Dashboard, d.Logger))

		r.Get("/facilities", controllers.ListFacilities(d.Catalog, d.Logger))
		r.Get("/commodities", controllers.ListCommodities(d.Catalog, d.Logger))
		r.Get("/stock-balances", controllers.ListStockBalances(d.Inventory, d.Logger))

		r.Post("/upload", controllers.Upload(d.Ingest, d.Config.Ingest.MaxUploadBytes(), d.Logger))

		r.Route("/predictions", func(r chi.Router) {
			r.Get("/", controllers.ListPredictions(d.Prediction, d.Logger))
			r.Post("/", controllers.Predict(d.Prediction, d.Logger))
			r.Post("/batch", controllers.BatchPredict(d.Prediction, d.Logger))
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.ListAlerts(d.Alerts, d.Logger))
			r.Post("/generate", controllers.GenerateAlerts(d.Alerts, d.Logger))
		})

		r.Get("/export/{type}", controllers.ExportCSV(d.Export, d.Logger))
		r.Get("/sample-data/{type}", controllers.SampleData(d.Export, d.Logger))
	})

	return r
}
