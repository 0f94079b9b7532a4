package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally scoped to a named constraint. Postgres errors are matched on the
// SQLSTATE; other drivers fall back to message inspection so the sqlite-backed
// tests behave the same way.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != uniqueViolationCode {
			return false
		}
		return constraint == "" || pgErr.ConstraintName == constraint
	}

	msg := err.Error()
	if constraint != "" {
		return strings.Contains(msg, constraint)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
