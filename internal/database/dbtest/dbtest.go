// Package dbtest opens throwaway SQLite databases with the full schema for
// repository and handler tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/iliyamo/picker-payroll/internal/database"
)

// Open returns an in-memory database that is closed when the test ends.
func Open(t testing.TB) *database.DB {
	t.Helper()
	db, err := database.Open("sqlite://:memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}
