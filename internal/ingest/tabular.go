package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// table is a parsed tabular upload with header-indexed field access.
type table struct {
	header  []string
	columns map[string]int
	rows    [][]string
}

// parseTable reads a full CSV document. The first record is the header; header
// names and cell values are whitespace-trimmed.
func parseTable(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Ragged rows pass through; field() treats the missing cells as empty.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	header := make([]string, len(records[0]))
	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		trimmed := strings.TrimSpace(name)
		header[i] = trimmed
		columns[trimmed] = i
	}
	return &table{header: header, columns: columns, rows: records[1:]}, nil
}

// field returns the row's trimmed value under the named column. Absent columns
// and short rows yield "".
func (t *table) field(row []string, name string) string {
	idx, ok := t.columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
