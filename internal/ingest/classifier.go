package ingest

import "fmt"

// FileKind names one of the upload formats the ingest pipeline accepts.
type FileKind string

const (
	KindFacilities     FileKind = "facilities"
	KindCommodities    FileKind = "commodities"
	KindStockMovements FileKind = "stock_movements"
	KindStockBalances  FileKind = "stock_balances"
	KindServiceVolumes FileKind = "service_volumes"
	KindLeadTimes      FileKind = "lead_times"
)

// classificationOrder fixes the precedence used when a header satisfies more
// than one kind. First match wins.
var classificationOrder = []FileKind{
	KindFacilities,
	KindCommodities,
	KindStockMovements,
	KindStockBalances,
	KindServiceVolumes,
	KindLeadTimes,
}

var requiredColumns = map[FileKind][]string{
	KindFacilities:     {"facility_code", "facility_name", "district", "region", "facility_type"},
	KindCommodities:    {"commodity_code", "commodity_name", "commodity_type", "unit_of_measure"},
	KindStockMovements: {"facility_code", "commodity_code", "movement_type", "quantity", "movement_date"},
	KindStockBalances:  {"facility_code", "commodity_code", "current_stock", "reorder_level", "maximum_stock"},
	KindServiceVolumes: {"facility_code", "service_type", "volume_count", "reporting_period"},
	KindLeadTimes:      {"facility_code", "commodity_code", "supplier", "average_lead_time_days"},
}

// String implements fmt.Stringer.
func (k FileKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known FileKind.
func (k FileKind) IsValid() bool {
	_, ok := requiredColumns[k]
	return ok
}

// ParseFileKind converts raw input into a FileKind.
func ParseFileKind(value string) (FileKind, error) {
	kind := FileKind(value)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid file kind %q", value)
	}
	return kind, nil
}

// RequiredColumns returns the column set a kind demands, in declaration order.
func RequiredColumns(kind FileKind) []string {
	cols := requiredColumns[kind]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// Identify classifies a header row by the first kind whose required columns it
// covers. Extra columns never disqualify a match.
func Identify(header []string) (FileKind, bool) {
	present := make(map[string]struct{}, len(header))
	for _, name := range header {
		present[name] = struct{}{}
	}
	for _, kind := range classificationOrder {
		if covers(present, requiredColumns[kind]) {
			return kind, true
		}
	}
	return "", false
}

// MissingColumns lists the kind's required columns absent from the header.
func MissingColumns(header []string, kind FileKind) []string {
	present := make(map[string]struct{}, len(header))
	for _, name := range header {
		present[name] = struct{}{}
	}
	var missing []string
	for _, name := range requiredColumns[kind] {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func covers(present map[string]struct{}, required []string) bool {
	for _, name := range required {
		if _, ok := present[name]; !ok {
			return false
		}
	}
	return true
}
