package seed

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/picker-payroll/internal/binrate"
	"github.com/iliyamo/picker-payroll/internal/database/dbtest"
	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

func TestLoadThenReset(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	resolver := binrate.NewResolver(repository.NewApplePriceRepo(db), repository.NewOrchardBlockRepo(db))
	rate := func(ctx context.Context, v string) decimal.Decimal { return resolver.Resolve(ctx, v).Rate }
	season := model.DateOf(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))

	s, err := Load(ctx, db, rate, season)
	require.NoError(t, err)
	assert.Equal(t, Summary{Pickers: 5, Orchards: 2, Blocks: 4, Prices: 3, Packhouses: 2, Picks: 35}, s)

	picks, err := repository.NewPickRecordRepo(db).List(ctx, repository.PickFilter{})
	require.NoError(t, err)
	require.Len(t, picks, 35)
	for _, p := range picks {
		if p.AppleVariety == "Gala" {
			assert.Equal(t, "48.00", p.BinRate.StringFixed(2), "price list beats block default")
		}
		if p.AppleVariety == "Braeburn" {
			assert.Equal(t, "50.00", p.BinRate.StringFixed(2), "block default without a price")
		}
	}

	require.NoError(t, Reset(ctx, db))
	pickers, err := repository.NewPickerRepo(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pickers)
}
