package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique constraint
// violation. A named Postgres constraint is matched first, then the generic
// phrasing used by Postgres and SQLite.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
