package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/picker-payroll/internal/database"
)

// querier is satisfied by both *database.DB and *database.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// getOne runs a single-row query and maps sql.ErrNoRows to ErrNotFound.
func getOne[T any](ctx context.Context, q querier, scan func(scanner) (*T, error), query string, args ...any) (*T, error) {
	v, err := scan(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}
	return v, nil
}

// list runs a query and scans every row. An empty result is a non-nil
// empty slice so it encodes as [] rather than null.
func list[T any](ctx context.Context, q querier, scan func(scanner) (*T, error), query string, args ...any) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// exists reports whether table has a row with the given id.
func exists(ctx context.Context, q querier, table string, id uuid.UUID) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return true, nil
}

// updateVersioned applies set to the row only if its version still equals
// the one the caller read, bumping the version on success. When nothing
// matched it looks the row up again to tell a stale version (ErrConflict)
// from a missing row (ErrNotFound).
func updateVersioned(ctx context.Context, db *database.DB, table string, id uuid.UUID, version int, set string, args ...any) error {
	q := fmt.Sprintf("UPDATE %s SET %s, version = version + 1 WHERE id = ? AND version = ?", table, set)
	args = append(args, id, version)
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	ok, err := exists(ctx, db, table, id)
	if err != nil {
		return err
	}
	if ok {
		return ErrConflict
	}
	return ErrNotFound
}

// setActive flips the soft-delete flag. A nil version skips the
// concurrency check; toggling status is idempotent.
func setActive(ctx context.Context, db *database.DB, table string, id uuid.UUID, active bool, version *int) error {
	if version != nil {
		return updateVersioned(ctx, db, table, id, *version, "is_active = ?", active)
	}
	q := fmt.Sprintf("UPDATE %s SET is_active = ?, version = version + 1 WHERE id = ?", table)
	res, err := db.ExecContext(ctx, q, active, id)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteAll empties a table. Only ResetAll calls it.
func deleteAll(ctx context.Context, q querier, table string) error {
	_, err := q.ExecContext(ctx, "DELETE FROM "+table)
	return classify(err)
}
