package db

import "strings"

// IsUniqueViolation reports whether the provided error came from a unique
// index rejecting a write. Postgres and SQLite word the failure differently,
// so both spellings are checked. When column is provided, the match is
// narrowed to errors that mention it.
func IsUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if column == "" {
		return true
	}
	return strings.Contains(msg, column)
}
