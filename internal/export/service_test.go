package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/internal/ingest"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:export_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Facility{},
		&models.Commodity{},
		&models.StockBalance{},
		&models.Prediction{},
		&models.Alert{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db), fixedNow)
	require.NoError(t, err)
	return svc
}

func seedPair(t *testing.T, db *gorm.DB) (*models.Facility, *models.Commodity) {
	t.Helper()

	facility := &models.Facility{FacilityCode: "HC001", FacilityName: "Kampala Central Health Center"}
	require.NoError(t, db.Create(facility).Error)
	commodity := &models.Commodity{CommodityCode: "ARV001", CommodityName: "Tenofovir/Lamivudine/Dolutegravir (TLD)"}
	require.NoError(t, db.Create(commodity).Error)
	return facility, commodity
}

func readCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExport_Predictions(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	facility, commodity := seedPair(t, db)

	predicted := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	rows := []models.Prediction{
		{
			FacilityID:            facility.ID,
			CommodityID:           commodity.ID,
			PredictionDate:        created,
			PredictedStockOutDate: &predicted,
			ConfidenceScore:       decimal.NewFromFloat(0.9),
			RiskLevel:             enums.RiskLevelCritical,
			ModelUsed:             "rule_based",
			CreatedAt:             created,
		},
		{
			FacilityID:     facility.ID,
			CommodityID:    commodity.ID,
			PredictionDate: created,
			RiskLevel:      enums.RiskLevelUnknown,
			ModelUsed:      "none",
			CreatedAt:      created,
		},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	var buf bytes.Buffer
	filename, err := svc.Export(context.Background(), KindPredictions, &buf)
	require.NoError(t, err)
	assert.Equal(t, "predictions_20240315_103000.csv", filename)

	records := readCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, predictionHeader, records[0])
	assert.Equal(t, []string{
		"HC001", "Kampala Central Health Center",
		"ARV001", "Tenofovir/Lamivudine/Dolutegravir (TLD)",
		"2024-03-10", "2024-03-20", "0.9", "CRITICAL", "rule_based",
		"2024-03-10 09:00:00",
	}, records[1])
	// Missing stock-out date renders as an empty cell.
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "UNKNOWN", records[2][7])
}

func TestExport_Alerts(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	facility, commodity := seedPair(t, db)

	created := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)
	resolvedAt := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)
	alertRows := []models.Alert{
		{
			FacilityID:  facility.ID,
			CommodityID: commodity.ID,
			AlertType:   enums.AlertTypeLowStock,
			AlertLevel:  enums.AlertLevelWarning,
			Message:     "Stock level (30) is below reorder level (50)",
			CreatedAt:   created,
		},
		{
			FacilityID:  facility.ID,
			CommodityID: commodity.ID,
			AlertType:   enums.AlertTypeLowStock,
			AlertLevel:  enums.AlertLevelCritical,
			Message:     "Stock level (0) is below reorder level (50)",
			IsResolved:  true,
			CreatedAt:   created,
			ResolvedAt:  &resolvedAt,
		},
	}
	for i := range alertRows {
		require.NoError(t, db.Create(&alertRows[i]).Error)
	}

	var buf bytes.Buffer
	filename, err := svc.Export(context.Background(), KindAlerts, &buf)
	require.NoError(t, err)
	assert.Equal(t, "alerts_20240315_103000.csv", filename)

	records := readCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, alertHeader, records[0])

	open := records[1]
	assert.Equal(t, "LOW_STOCK", open[4])
	assert.Equal(t, "WARNING", open[5])
	assert.Equal(t, "Stock level (30) is below reorder level (50)", open[6])
	assert.Equal(t, "false", open[7])
	assert.Equal(t, "", open[9])

	closed := records[2]
	assert.Equal(t, "true", closed[7])
	assert.Equal(t, "2024-03-13 08:00:00", closed[9])
}

func TestExport_StockBalancesOrderedByCode(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	facility, commodity := seedPair(t, db)

	second := &models.Commodity{CommodityCode: "VAC001", CommodityName: "BCG Vaccine"}
	require.NoError(t, db.Create(second).Error)

	updated := time.Date(2024, 3, 14, 7, 0, 0, 0, time.UTC)
	balances := []models.StockBalance{
		{FacilityID: facility.ID, CommodityID: second.ID, CurrentStock: decimal.NewFromFloat(150), ReorderLevel: decimal.NewFromFloat(50), MaximumStock: decimal.NewFromFloat(500), LastUpdated: updated},
		{FacilityID: facility.ID, CommodityID: commodity.ID, CurrentStock: decimal.NewFromFloat(4500), ReorderLevel: decimal.NewFromFloat(1000), MaximumStock: decimal.NewFromFloat(10000), LastUpdated: updated},
	}
	for i := range balances {
		require.NoError(t, db.Create(&balances[i]).Error)
	}

	var buf bytes.Buffer
	filename, err := svc.Export(context.Background(), KindStockBalances, &buf)
	require.NoError(t, err)
	assert.Equal(t, "stock_balances_20240315_103000.csv", filename)

	records := readCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, balanceHeader, records[0])
	assert.Equal(t, []string{
		"HC001", "Kampala Central Health Center", "ARV001",
		"Tenofovir/Lamivudine/Dolutegravir (TLD)",
		"4500", "1000", "10000", "2024-03-14 07:00:00",
	}, records[1])
	assert.Equal(t, "VAC001", records[2][2])
}

func TestExport_EmptyTableStillWritesHeader(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), KindPredictions, &buf)
	require.NoError(t, err)

	records := readCSV(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, predictionHeader, records[0])
}

func TestSample_EveryKindClassifiesAsItself(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	kinds := []ingest.FileKind{
		ingest.KindFacilities,
		ingest.KindCommodities,
		ingest.KindStockMovements,
		ingest.KindStockBalances,
		ingest.KindServiceVolumes,
		ingest.KindLeadTimes,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			var buf bytes.Buffer
			filename, err := svc.Sample(kind, &buf)
			require.NoError(t, err)
			assert.Equal(t, "sample_"+kind.String()+".csv", filename)

			records := readCSV(t, &buf)
			require.Greater(t, len(records), 1)

			identified, ok := ingest.Identify(records[0])
			require.True(t, ok)
			assert.Equal(t, kind, identified)
		})
	}
}

func TestSample_MovementTemplateRows(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	var buf bytes.Buffer
	_, err := svc.Sample(ingest.KindStockMovements, &buf)
	require.NoError(t, err)

	records := readCSV(t, &buf)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"HC001", "ARV001", "RECEIPT", "5000", "0.5", "2024-01-15", "PO-2024-001"}, records[1])
	assert.Equal(t, "ISSUE", records[2][2])
}

func TestSample_UnknownKindRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	var buf bytes.Buffer
	_, err := svc.Sample(ingest.FileKind("bogus"), &buf)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Zero(t, buf.Len())
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("stock_balances")
	require.NoError(t, err)
	assert.Equal(t, KindStockBalances, kind)

	_, err = ParseKind("users")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Invalid export type", typed.Message())
}
