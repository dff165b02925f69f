package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Diagnosis is the loggable breakdown of an error chain. Postgres
// diagnostics are lifted out of the chain when a driver error is present so
// constraint and table names land in log fields instead of a flattened
// message string.
type Diagnosis struct {
	TopMessage string
	Code       Code

	Chain []string

	PGCode       string
	PGConstraint string
	PGTable      string
	PGColumn     string
	PGDetail     string
	PGMessage    string
}

// Diagnose flattens err for logging. It works on any error; the PG fields
// stay empty when no database driver error is in the chain. Both drivers are
// checked because goose migrations run through lib/pq while gorm uses pgx.
func Diagnose(err error) Diagnosis {
	if err == nil {
		return Diagnosis{}
	}

	d := Diagnosis{TopMessage: err.Error(), Chain: chain(err)}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		d.PGCode, d.PGMessage, d.PGDetail = pgxErr.Code, pgxErr.Message, pgxErr.Detail
		d.PGTable, d.PGColumn, d.PGConstraint = pgxErr.TableName, pgxErr.ColumnName, pgxErr.ConstraintName
	case errors.As(err, &pqErr):
		d.PGCode, d.PGMessage, d.PGDetail = string(pqErr.Code), pqErr.Message, pqErr.Detail
		d.PGTable, d.PGColumn, d.PGConstraint = pqErr.Table, pqErr.Column, pqErr.Constraint
	}
	return d
}

// chain lists every link with its concrete type. The %T makes wrappers that
// reuse the same message distinguishable.
func chain(err error) []string {
	var links []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		links = append(links, fmt.Sprintf("%T: %v", e, e))
	}
	return links
}

// Fields renders the diagnosis under the keys the request logger uses.
func (d Diagnosis) Fields() map[string]any {
	return map[string]any{
		"error":         d.TopMessage,
		"error_code":    d.Code,
		"error_chain":   d.Chain,
		"pg_code":       d.PGCode,
		"pg_detail":     d.PGDetail,
		"pg_message":    d.PGMessage,
		"pg_table":      d.PGTable,
		"pg_column":     d.PGColumn,
		"pg_constraint": d.PGConstraint,
	}
}
