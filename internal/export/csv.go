package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

var predictionHeader = []string{
	"facility_code", "facility_name", "commodity_code", "commodity_name",
	"prediction_date", "predicted_stock_out_date", "confidence_score",
	"risk_level", "model_used", "created_at",
}

var alertHeader = []string{
	"facility_code", "facility_name", "commodity_code", "commodity_name",
	"alert_type", "alert_level", "message", "is_resolved", "created_at",
	"resolved_at",
}

var balanceHeader = []string{
	"facility_code", "facility_name", "commodity_code", "commodity_name",
	"current_stock", "reorder_level", "maximum_stock", "last_updated",
}

func renderPredictions(w io.Writer, rows []PredictionExport) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.FacilityCode,
			row.FacilityName,
			row.CommodityCode,
			row.CommodityName,
			formatDate(row.PredictionDate),
			formatDatePtr(row.PredictedStockOutDate),
			row.ConfidenceScore.String(),
			row.RiskLevel.String(),
			row.ModelUsed,
			formatTimestamp(row.CreatedAt),
		})
	}
	return writeCSV(w, predictionHeader, records)
}

func renderAlerts(w io.Writer, rows []AlertExport) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.FacilityCode,
			row.FacilityName,
			row.CommodityCode,
			row.CommodityName,
			row.AlertType.String(),
			row.AlertLevel.String(),
			row.Message,
			strconv.FormatBool(row.IsResolved),
			formatTimestamp(row.CreatedAt),
			formatTimestampPtr(row.ResolvedAt),
		})
	}
	return writeCSV(w, alertHeader, records)
}

func renderStockBalances(w io.Writer, rows []BalanceExport) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.FacilityCode,
			row.FacilityName,
			row.CommodityCode,
			row.CommodityName,
			row.CurrentStock.String(),
			row.ReorderLevel.String(),
			row.MaximumStock.String(),
			formatTimestamp(row.LastUpdated),
		})
	}
	return writeCSV(w, balanceHeader, records)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimestampPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTimestamp(*t)
}
