package repository

import (
	"context"

	"github.com/iliyamo/picker-payroll/internal/database"
)

// Children first so foreign keys never block a delete.
var resetOrder = []string{
	"pick_records",
	"orchard_blocks",
	"apple_prices",
	"packhouses",
	"orchards",
	"pickers",
}

// ResetAll empties every table in one transaction. It exists for the
// development seeder and is not reachable over HTTP.
func ResetAll(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range resetOrder {
		if err := deleteAll(ctx, tx, table); err != nil {
			return err
		}
	}
	return classify(tx.Commit())
}
