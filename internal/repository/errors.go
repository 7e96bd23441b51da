// Package repository defines the persistence gateway: one repository per
// entity over database/sql, plus the error signals that higher layers use
// to tell failure scenarios apart. ErrConflict in particular is returned
// only for stale optimistic-concurrency updates so handlers can ask the
// caller to re-read and retry.
package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update was based on a stale version of
// the row. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict: record was modified by another request")

// ErrDuplicate is returned when a unique constraint is violated.
var ErrDuplicate = errors.New("duplicate key")

// ErrStoreUnavailable wraps connectivity failures. The core never retries;
// the error travels back to the caller.
var ErrStoreUnavailable = errors.New("store unavailable")

// ReferenceError reports referenced rows that do not exist at write time.
// Fields names the offending input fields (or the constraint name when the
// database caught it first).
type ReferenceError struct {
	Fields []string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	return "referenced record does not exist: " + strings.Join(e.Fields, ", ")
}

// SQLSTATE codes we react to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgTooManyConnections  = "53300"
)

// MySQL server error numbers.
const (
	myDuplicateEntry  = 1062
	myRowIsReferenced = 1451
	myNoReferencedRow = 1452
	myTooManyConns    = 1040
	myServerShutdown  = 1053
)

// classify maps driver-specific failures onto the package's error signals.
// Errors it does not recognise are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgErr.Code == pgForeignKeyViolation:
			return &ReferenceError{Fields: []string{pgErr.ConstraintName}}
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"),
			pgErr.Code == pgTooManyConnections:
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case myDuplicateEntry:
			return fmt.Errorf("%w: %s", ErrDuplicate, myErr.Message)
		case myRowIsReferenced, myNoReferencedRow:
			return &ReferenceError{Fields: []string{myErr.Message}}
		case myTooManyConns, myServerShutdown:
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	// The SQLite driver reports constraint failures only in the message.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", ErrDuplicate, msg)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &ReferenceError{Fields: []string{"foreign key"}}
	}
	return err
}
