//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/model"
)

// newPostgresFixture starts a throwaway Postgres and migrates it. The
// container does not serve TLS, so the keyed form is used to switch
// sslmode off.
func newPostgresFixture(t *testing.T) fixture {
	ctx := context.Background()
	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("payroll"),
		postgres.WithUsername("payroll"),
		postgres.WithPassword("payroll"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.Open(fmt.Sprintf(
		"host=%s port=%s dbname=payroll user=payroll password=payroll sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Ping(ctx))
	require.NoError(t, database.Migrate(ctx, db))
	require.NoError(t, database.Migrate(ctx, db), "migrate is idempotent")

	return fixture{
		db:       db,
		pickers:  NewPickerRepo(db),
		orchards: NewOrchardRepo(db),
		blocks:   NewOrchardBlockRepo(db),
		prices:   NewApplePriceRepo(db),
		picks:    NewPickRecordRepo(db),
	}
}

func TestPostgres(t *testing.T) {
	f := newPostgresFixture(t)
	ctx := context.Background()

	p := f.picker(t, "Aroha", "Ngata")
	b := f.block(t, "River", "Gala", "45.50")

	got, err := f.blocks.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, model.MustMoney("45.50").Equal(got.DefaultBinRate))

	t.Run("pick round trip keeps decimals and dates", func(t *testing.T) {
		rec := &model.PickRecord{
			ID: uuid.New(), PickerID: p.ID, OrchardBlockID: b.ID, AppleVariety: "Gala",
			BinsPicked: 7, BinRate: model.MustMoney("48.25"),
			HoursWorked: decimal.NewNullDecimal(decimal.RequireFromString("6.1250")), PickDate: mustDate(t, "2024-03-31"),
		}
		require.NoError(t, f.picks.Create(ctx, rec))

		back, err := f.picks.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-31", back.PickDate.String())
		assert.Equal(t, "337.75", back.TotalAmount().StringFixed(2))
		assert.Equal(t, "6.1250", back.HoursWorked.Decimal.StringFixed(4))
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		cp := *p
		p.LastName = "Ngata-Smith"
		require.NoError(t, f.pickers.Update(ctx, p))
		cp.LastName = "Stale"
		assert.ErrorIs(t, f.pickers.Update(ctx, &cp), ErrConflict)
	})

	t.Run("foreign key violation is a reference error", func(t *testing.T) {
		_, err := f.db.ExecContext(ctx,
			`INSERT INTO pick_records (`+pickColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New(), uuid.New(), b.ID, "Gala", 1, "45.00", nil, "2024-03-01")
		var ref *ReferenceError
		require.True(t, errors.As(classify(err), &ref), "got %v", err)
	})

	t.Run("duplicate id", func(t *testing.T) {
		dup := *p
		assert.ErrorIs(t, f.pickers.Create(ctx, &dup), ErrDuplicate)
	})

	t.Run("reset", func(t *testing.T) {
		require.NoError(t, ResetAll(ctx, f.db))
		all, err := f.pickers.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
