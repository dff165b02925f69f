package export

import (
	"io"

	"github.com/stocksentryhq/stocksentry-backend/internal/ingest"
)

// Sample files double as upload templates: every header below must classify
// as its own kind when fed back through the ingest pipeline.
var sampleHeaders = map[ingest.FileKind][]string{
	ingest.KindFacilities: {
		"facility_code", "facility_name", "district", "region", "facility_type",
	},
	ingest.KindCommodities: {
		"commodity_code", "commodity_name", "commodity_type", "unit_of_measure",
	},
	ingest.KindStockMovements: {
		"facility_code", "commodity_code", "movement_type", "quantity",
		"unit_cost", "movement_date", "reference_number",
	},
	ingest.KindStockBalances: {
		"facility_code", "commodity_code", "current_stock", "reorder_level",
		"maximum_stock",
	},
	ingest.KindServiceVolumes: {
		"facility_code", "service_type", "volume_count", "reporting_period",
	},
	ingest.KindLeadTimes: {
		"facility_code", "commodity_code", "supplier", "average_lead_time_days",
	},
}

var sampleRows = map[ingest.FileKind][][]string{
	ingest.KindFacilities: {
		{"HC001", "Kampala Central Health Center", "Kampala", "Central", "Health Center"},
		{"HC002", "Jinja Regional Hospital", "Jinja", "Eastern", "Hospital"},
		{"HC003", "Mbarara Referral Hospital", "Mbarara", "Western", "Referral Hospital"},
	},
	ingest.KindCommodities: {
		{"ARV001", "Tenofovir/Lamivudine/Dolutegravir (TLD)", "ARV", "Tablets"},
		{"ARV002", "Efavirenz 600mg", "ARV", "Tablets"},
		{"VAC001", "BCG Vaccine", "Vaccine", "Vials"},
		{"VAC002", "DPT-HepB-Hib", "Vaccine", "Vials"},
	},
	ingest.KindStockMovements: {
		{"HC001", "ARV001", "RECEIPT", "5000", "0.5", "2024-01-15", "PO-2024-001"},
		{"HC001", "ARV001", "ISSUE", "100", "0.5", "2024-01-16", "IS-2024-001"},
		{"HC002", "VAC001", "RECEIPT", "200", "2.0", "2024-01-15", "PO-2024-002"},
	},
	ingest.KindStockBalances: {
		{"HC001", "ARV001", "4500", "1000", "10000"},
		{"HC001", "ARV002", "800", "500", "2000"},
		{"HC002", "VAC001", "150", "50", "500"},
	},
	ingest.KindServiceVolumes: {
		{"HC001", "HIV", "150", "2024-01-01"},
		{"HC001", "Immunization", "300", "2024-01-01"},
		{"HC002", "HIV", "200", "2024-01-01"},
	},
	ingest.KindLeadTimes: {
		{"HC001", "ARV001", "National Medical Stores", "30"},
		{"HC001", "ARV002", "National Medical Stores", "25"},
		{"HC002", "VAC001", "UNICEF", "45"},
	},
}

func renderSample(w io.Writer, kind ingest.FileKind) error {
	return writeCSV(w, sampleHeaders[kind], sampleRows[kind])
}
