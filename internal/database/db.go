package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// DB wraps a connection pool and rewrites ? placeholders for dialects that
// number their parameters. Repositories write every query with ?.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open parses the connection URL and opens a pool for its dialect. It does
// not contact the server; call Ping for that.
func Open(rawURL string) (*DB, error) {
	p, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	var db *sql.DB
	switch p.Dialect {
	case Postgres:
		cfg, err := pgx.ParseConfig(p.PostgresKeyed())
		if err != nil {
			return nil, fmt.Errorf("database: postgres config: %w", err)
		}
		db = stdlib.OpenDB(*cfg)
	case MySQL:
		connector, err := mysql.NewConnector(p.MySQLConfig())
		if err != nil {
			return nil, fmt.Errorf("database: mysql config: %w", err)
		}
		db = sql.OpenDB(connector)
	case SQLite:
		db, err = sql.Open("sqlite", p.Path)
		if err != nil {
			return nil, err
		}
		// One connection: an in-memory database lives and dies with it.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database: enable foreign keys: %w", err)
		}
		return &DB{DB: db, Dialect: SQLite}, nil
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &DB{DB: db, Dialect: p.Dialect}, nil
}

// Ping verifies connectivity with a short timeout.
func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return d.PingContext(ctx)
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.DB.ExecContext(ctx, Rebind(d.Dialect, query), args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.DB.QueryContext(ctx, Rebind(d.Dialect, query), args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.DB.QueryRowContext(ctx, Rebind(d.Dialect, query), args...)
}

// BeginTx starts a transaction that rebinds like its parent.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := d.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, dialect: d.Dialect}, nil
}

// Tx is a transaction with placeholder rebinding.
type Tx struct {
	*sql.Tx
	dialect Dialect
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.Tx.ExecContext(ctx, Rebind(t.dialect, query), args...)
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.Tx.QueryContext(ctx, Rebind(t.dialect, query), args...)
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.Tx.QueryRowContext(ctx, Rebind(t.dialect, query), args...)
}

// Rebind turns ? placeholders into $1, $2, ... for Postgres. Question
// marks inside single-quoted literals are left alone.
func Rebind(d Dialect, query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			quoted = !quoted
			b.WriteByte(ch)
		case ch == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
