package repository

import (
	"strconv"
	"strings"
)

// isUniqueViolation detects unique constraint errors for both SQLite and PostgreSQL.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

// placeholder returns the positional parameter for the n-th argument.
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
