package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDiagnoseLiftsPgxDiagnostics(t *testing.T) {
	cause := &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		Detail:         "Key (facility_id, commodity_id) already exists.",
		TableName:      "stock_balances",
		ConstraintName: "uq_stock_balances_facility_commodity",
	}
	err := Wrap(CodeConflict, fmt.Errorf("upsert balance: %w", cause), "ingest row")

	d := Diagnose(err)
	if d.Code != CodeConflict {
		t.Errorf("Code = %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGTable != "stock_balances" {
		t.Errorf("pg diagnostics not lifted: %+v", d)
	}
	if d.PGConstraint != "uq_stock_balances_facility_commodity" {
		t.Errorf("PGConstraint = %q", d.PGConstraint)
	}
	if len(d.Chain) < 3 {
		t.Errorf("chain should include every wrapper, got %v", d.Chain)
	}
}

func TestDiagnoseReadsLibPQErrors(t *testing.T) {
	cause := &pq.Error{Code: "42P01", Message: "relation does not exist", Table: "goose_db_version"}

	d := Diagnose(fmt.Errorf("run migrations: %w", cause))
	if d.PGCode != "42P01" || d.PGTable != "goose_db_version" {
		t.Errorf("lib/pq diagnostics not lifted: %+v", d)
	}
	if d.Code != "" {
		t.Errorf("untyped chain should have no api code, got %s", d.Code)
	}
}

func TestDiagnoseHandlesPlainAndNilErrors(t *testing.T) {
	if d := Diagnose(nil); d.TopMessage != "" || d.Chain != nil {
		t.Errorf("nil error should produce a zero diagnosis: %+v", d)
	}

	d := Diagnose(fmt.Errorf("plain failure"))
	if d.TopMessage != "plain failure" {
		t.Errorf("TopMessage = %q", d.TopMessage)
	}
	if d.PGCode != "" {
		t.Errorf("no pg fields expected, got %q", d.PGCode)
	}

	fields := d.Fields()
	if fields["error"] != "plain failure" {
		t.Errorf("Fields()[error] = %v", fields["error"])
	}
}
