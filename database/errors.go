package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrSchemaMissing wraps storage errors caused by an absent table.
	// Running EnsureSchema again repairs the file.
	ErrSchemaMissing = errors.New("database schema incomplete")

	ErrPatientNotFound   = errors.New("patient not found")
	ErrOperationNotFound = errors.New("operation not found")
)

const noSuchTable = "no such table: "

// isUniqueViolation reports whether err is a UNIQUE constraint failure,
// the expected outcome of a duplicate bht_no or (category, value).
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint &&
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// classify tags missing-table errors with ErrSchemaMissing and the table
// name. Everything else passes through untouched.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrSchemaMissing) {
		return err
	}

	msg := err.Error()
	i := strings.Index(msg, noSuchTable)
	if i < 0 {
		return err
	}

	table := msg[i+len(noSuchTable):]
	if j := strings.IndexAny(table, " :\n"); j >= 0 {
		table = table[:j]
	}
	return fmt.Errorf("%w (table %s): %w", ErrSchemaMissing, table, err)
}
