package database

import (
	"context"
	"fmt"
	"strings"
)

// Column types that differ between dialects. SQLite keeps money as TEXT so
// decimals round-trip without passing through a float.
var columnTypes = map[Dialect]*strings.Replacer{
	Postgres: strings.NewReplacer(
		"{{uuid}}", "UUID", "{{money}}", "NUMERIC(10,2)", "{{hours}}", "NUMERIC(10,4)",
		"{{bool}}", "BOOLEAN", "{{date}}", "DATE"),
	MySQL: strings.NewReplacer(
		"{{uuid}}", "CHAR(36)", "{{money}}", "DECIMAL(10,2)", "{{hours}}", "DECIMAL(10,4)",
		"{{bool}}", "BOOLEAN", "{{date}}", "DATE"),
	SQLite: strings.NewReplacer(
		"{{uuid}}", "TEXT", "{{money}}", "TEXT", "{{hours}}", "TEXT",
		"{{bool}}", "BOOLEAN", "{{date}}", "DATE"),
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS pickers (
		id         {{uuid}} PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name  VARCHAR(100) NOT NULL,
		email      VARCHAR(255) NOT NULL DEFAULT '',
		phone      VARCHAR(50)  NOT NULL DEFAULT '',
		is_active  {{bool}} NOT NULL DEFAULT TRUE,
		hire_date  {{date}} NOT NULL,
		version    INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS orchards (
		id         {{uuid}} PRIMARY KEY,
		name       VARCHAR(150) NOT NULL,
		location   VARCHAR(255) NOT NULL DEFAULT '',
		total_area {{money}} NOT NULL DEFAULT 0,
		is_active  {{bool}} NOT NULL DEFAULT TRUE,
		version    INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS orchard_blocks (
		id               {{uuid}} PRIMARY KEY,
		orchard_id       {{uuid}} NOT NULL REFERENCES orchards(id),
		block_name       VARCHAR(100) NOT NULL,
		block_number     VARCHAR(20)  NOT NULL DEFAULT '',
		area             {{money}} NOT NULL DEFAULT 0,
		apple_variety    VARCHAR(100) NOT NULL,
		road_number      VARCHAR(20)  NOT NULL DEFAULT '',
		default_bin_rate {{money}} NOT NULL,
		is_active        {{bool}} NOT NULL DEFAULT TRUE,
		version          INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS apple_prices (
		id             {{uuid}} PRIMARY KEY,
		variety        VARCHAR(100) NOT NULL,
		price_per_kg   {{money}} NOT NULL DEFAULT 0,
		bin_rate       {{money}} NOT NULL,
		effective_date {{date}} NOT NULL,
		is_active      {{bool}} NOT NULL DEFAULT TRUE,
		version        INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS packhouses (
		id             {{uuid}} PRIMARY KEY,
		name           VARCHAR(150) NOT NULL,
		location       VARCHAR(255) NOT NULL DEFAULT '',
		contact_person VARCHAR(150) NOT NULL DEFAULT '',
		phone          VARCHAR(50)  NOT NULL DEFAULT '',
		is_active      {{bool}} NOT NULL DEFAULT TRUE,
		version        INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS pick_records (
		id               {{uuid}} PRIMARY KEY,
		picker_id        {{uuid}} NOT NULL REFERENCES pickers(id),
		orchard_block_id {{uuid}} NOT NULL REFERENCES orchard_blocks(id),
		apple_variety    VARCHAR(100) NOT NULL,
		bins_picked      INTEGER NOT NULL CHECK (bins_picked >= 0),
		bin_rate         {{money}} NOT NULL,
		hours_worked     {{hours}} NULL,
		pick_date        {{date}} NOT NULL
	)`,
}

// MySQL indexes foreign keys on its own and has no CREATE INDEX IF NOT
// EXISTS, so these only run for the other dialects.
var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_pickers_active_name ON pickers (is_active, last_name, first_name)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_variety ON orchard_blocks (apple_variety, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_orchard ON orchard_blocks (orchard_id)`,
	`CREATE INDEX IF NOT EXISTS idx_prices_variety ON apple_prices (variety, is_active, effective_date)`,
	`CREATE INDEX IF NOT EXISTS idx_picks_picker ON pick_records (picker_id, pick_date)`,
	`CREATE INDEX IF NOT EXISTS idx_picks_date ON pick_records (pick_date)`,
}

// Schema returns the DDL statements for d, one table per entity.
func Schema(d Dialect) []string {
	r, ok := columnTypes[d]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(tables)+len(indexes))
	for _, t := range tables {
		out = append(out, r.Replace(t))
	}
	if d != MySQL {
		out = append(out, indexes...)
	}
	return out
}

// Migrate creates any missing tables and indexes. Every statement is
// idempotent so it is safe to run on each start.
func Migrate(ctx context.Context, db *DB) error {
	stmts := Schema(db.Dialect)
	if stmts == nil {
		return fmt.Errorf("database: no schema for dialect %q", db.Dialect)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database: migrate: %w", err)
		}
	}
	return nil
}
