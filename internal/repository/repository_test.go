package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/database/dbtest"
	"github.com/iliyamo/picker-payroll/internal/model"
)

type fixture struct {
	db       *database.DB
	pickers  *PickerRepo
	orchards *OrchardRepo
	blocks   *OrchardBlockRepo
	prices   *ApplePriceRepo
	picks    *PickRecordRepo
}

func newFixture(t *testing.T) fixture {
	db := dbtest.Open(t)
	return fixture{
		db:       db,
		pickers:  NewPickerRepo(db),
		orchards: NewOrchardRepo(db),
		blocks:   NewOrchardBlockRepo(db),
		prices:   NewApplePriceRepo(db),
		picks:    NewPickRecordRepo(db),
	}
}

func (f fixture) picker(t *testing.T, first, last string) *model.Picker {
	p := &model.Picker{FirstName: first, LastName: last}
	p.InitNew(mustDate(t, "2024-03-01"))
	require.NoError(t, f.pickers.Create(context.Background(), p))
	return p
}

func (f fixture) block(t *testing.T, name, variety, rate string) *model.OrchardBlock {
	ctx := context.Background()
	o := &model.Orchard{Name: "Orchard " + name}
	o.InitNew()
	require.NoError(t, f.orchards.Create(ctx, o))
	b := &model.OrchardBlock{OrchardID: o.ID, BlockName: name, BlockNumber: "1", AppleVariety: variety, DefaultBinRate: model.MustMoney(rate)}
	b.InitNew()
	require.NoError(t, f.blocks.Create(ctx, b))
	return b
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestPickerRepo_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	p := f.picker(t, "Aroha", "Ngata")

	got, err := f.pickers.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aroha Ngata", got.FullName())
	assert.True(t, got.IsActive)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, "2024-03-01", got.HireDate.String())
}

func TestPickerRepo_GetMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.pickers.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPickerRepo_ListActiveOrdering(t *testing.T) {
	f := newFixture(t)
	f.picker(t, "Zoe", "Brown")
	f.picker(t, "Adam", "Brown")
	f.picker(t, "Mia", "Adams")

	got, err := f.pickers.ListActive(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.FullName())
	}
	assert.Equal(t, []string{"Mia Adams", "Adam Brown", "Zoe Brown"}, names)
}

func TestPickerRepo_EmptyListIsNotNil(t *testing.T) {
	f := newFixture(t)
	got, err := f.pickers.ListActive(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPickerRepo_UpdateStaleVersionConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.picker(t, "Sam", "Lee")

	first := *p
	second := *p
	first.Phone = "021 111"
	require.NoError(t, f.pickers.Update(ctx, &first))
	assert.Equal(t, 2, first.Version)

	second.Phone = "021 222"
	err := f.pickers.Update(ctx, &second)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := f.pickers.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "021 111", got.Phone)
	assert.Equal(t, 2, got.Version)
}

func TestPickerRepo_UpdateMissing(t *testing.T) {
	f := newFixture(t)
	p := &model.Picker{ID: uuid.New(), FirstName: "No", LastName: "One", Version: 1}
	assert.ErrorIs(t, f.pickers.Update(context.Background(), p), ErrNotFound)
}

func TestPickerRepo_DeactivateKeepsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.picker(t, "Tama", "Reid")
	b := f.block(t, "North", "Gala", "45.00")

	rec := &model.PickRecord{ID: uuid.New(), PickerID: p.ID, OrchardBlockID: b.ID, AppleVariety: "Gala",
		BinsPicked: 3, BinRate: model.MustMoney("45.00"), PickDate: mustDate(t, "2024-03-02")}
	require.NoError(t, f.picks.Create(ctx, rec))

	require.NoError(t, f.pickers.SetActive(ctx, p.ID, false, nil))

	active, err := f.pickers.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.pickers.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	history, err := f.picks.List(ctx, PickFilter{PickerID: &p.ID})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
}

func TestPickerRepo_SetActiveWithStaleVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.picker(t, "Kiri", "Moana")
	stale := 7
	assert.ErrorIs(t, f.pickers.SetActive(ctx, p.ID, false, &stale), ErrConflict)
	assert.ErrorIs(t, f.pickers.SetActive(ctx, uuid.New(), false, nil), ErrNotFound)
}

func TestOrchardBlockRepo_CreateRequiresOrchard(t *testing.T) {
	f := newFixture(t)
	b := &model.OrchardBlock{OrchardID: uuid.New(), BlockName: "East", AppleVariety: "Gala", DefaultBinRate: model.MustMoney("45")}
	b.InitNew()

	err := f.blocks.Create(context.Background(), b)
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, []string{"orchardId"}, refErr.Fields)
}

func TestOrchardBlockRepo_FirstActiveByVariety(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	south := f.block(t, "South", "Braeburn", "50.00")
	north := f.block(t, "North", "Braeburn", "52.00")

	got, err := f.blocks.FirstActiveByVariety(ctx, "Braeburn")
	require.NoError(t, err)
	assert.Equal(t, north.ID, got.ID)
	assert.True(t, got.DefaultBinRate.Equal(decimal.RequireFromString("52")))

	require.NoError(t, f.blocks.SetActive(ctx, north.ID, false, nil))
	got, err = f.blocks.FirstActiveByVariety(ctx, "Braeburn")
	require.NoError(t, err)
	assert.Equal(t, south.ID, got.ID)

	_, err = f.blocks.FirstActiveByVariety(ctx, "braeburn")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrchardBlockRepo_ListByOrchard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.block(t, "West", "Gala", "45.00")
	require.NoError(t, f.blocks.SetActive(ctx, b.ID, false, nil))

	active, err := f.blocks.ListByOrchard(ctx, b.OrchardID, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.blocks.ListByOrchard(ctx, b.OrchardID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApplePriceRepo_ListActiveByVarietyNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, e := range []struct{ date, rate string }{{"2024-01-01", "44.00"}, {"2024-02-01", "48.00"}, {"2023-12-01", "40.00"}} {
		p := &model.ApplePrice{Variety: "Gala", BinRate: model.MustMoney(e.rate), EffectiveDate: mustDate(t, e.date)}
		p.InitNew(model.Today())
		require.NoError(t, f.prices.Create(ctx, p))
	}
	other := &model.ApplePrice{Variety: "Fuji", BinRate: model.MustMoney("60.00")}
	other.InitNew(model.Today())
	require.NoError(t, f.prices.Create(ctx, other))

	got, err := f.prices.ListActiveByVariety(ctx, "Gala")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-02-01", got[0].EffectiveDate.String())
	assert.True(t, got[0].BinRate.Equal(decimal.RequireFromString("48")))
	assert.Equal(t, "2023-12-01", got[2].EffectiveDate.String())
}

func TestPickRecordRepo_CreateReportsMissingReferences(t *testing.T) {
	f := newFixture(t)
	rec := &model.PickRecord{ID: uuid.New(), PickerID: uuid.New(), OrchardBlockID: uuid.New(),
		AppleVariety: "Gala", BinsPicked: 1, BinRate: model.MustMoney("45"), PickDate: model.Today()}

	err := f.picks.Create(context.Background(), rec)
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, []string{"pickerId", "orchardBlockId"}, refErr.Fields)

	_, err = f.picks.GetByID(context.Background(), rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPickRecordRepo_ListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.picker(t, "Ana", "One")
	b := f.picker(t, "Ben", "Two")
	blk := f.block(t, "North", "Gala", "45.00")

	add := func(p *model.Picker, date string, hours string) {
		rec := &model.PickRecord{ID: uuid.New(), PickerID: p.ID, OrchardBlockID: blk.ID, AppleVariety: "Gala",
			BinsPicked: 2, BinRate: model.MustMoney("45.00"), PickDate: mustDate(t, date)}
		if hours != "" {
			rec.HoursWorked = decimal.NewNullDecimal(decimal.RequireFromString(hours))
		}
		require.NoError(t, f.picks.Create(ctx, rec))
	}
	add(a, "2024-03-01", "7.5")
	add(a, "2024-03-05", "")
	add(b, "2024-03-03", "8.25")

	all, err := f.picks.List(ctx, PickFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-03-05", all[0].PickDate.String())
	assert.False(t, all[0].HoursWorked.Valid)

	from, to := mustDate(t, "2024-03-02"), mustDate(t, "2024-03-05")
	ranged, err := f.picks.List(ctx, PickFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	onlyA, err := f.picks.List(ctx, PickFilter{PickerID: &a.ID, To: &from})
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.True(t, onlyA[0].HoursWorked.Decimal.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, onlyA[0].TotalAmount().Equal(decimal.RequireFromString("90")))
}

func TestPickRecordRepo_SameDayNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.picker(t, "Ana", "One")
	blk := f.block(t, "North", "Gala", "45.00")

	var ids []uuid.UUID
	for bins := 1; bins <= 5; bins++ {
		rec := &model.PickRecord{ID: model.NewPickRecordID(), PickerID: p.ID, OrchardBlockID: blk.ID, AppleVariety: "Gala",
			BinsPicked: bins, BinRate: model.MustMoney("45.00"), PickDate: mustDate(t, "2024-03-01")}
		require.NoError(t, f.picks.Create(ctx, rec))
		ids = append(ids, rec.ID)
	}

	got, err := f.picks.List(ctx, PickFilter{PickerID: &p.ID})
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, rec := range got {
		assert.Equal(t, ids[len(ids)-1-i], rec.ID)
		assert.Equal(t, 5-i, rec.BinsPicked)
	}
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.picker(t, "Ana", "One")
	blk := f.block(t, "North", "Gala", "45.00")
	require.NoError(t, f.picks.Create(ctx, &model.PickRecord{ID: uuid.New(), PickerID: p.ID, OrchardBlockID: blk.ID,
		AppleVariety: "Gala", BinsPicked: 1, BinRate: model.MustMoney("45"), PickDate: model.Today()}))

	require.NoError(t, ResetAll(ctx, f.db))

	pickers, err := f.pickers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pickers)
	picks, err := f.picks.List(ctx, PickFilter{})
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify(nil))
	assert.ErrorIs(t, classify(&pgconn.PgError{Code: "23505", ConstraintName: "pickers_pkey"}), ErrDuplicate)
	assert.ErrorIs(t, classify(&pgconn.PgError{Code: "08006"}), ErrStoreUnavailable)
	assert.ErrorIs(t, classify(&pgconn.PgError{Code: "57P01"}), ErrStoreUnavailable)

	var refErr *ReferenceError
	assert.ErrorAs(t, classify(&pgconn.PgError{Code: "23503", ConstraintName: "pick_records_picker_id_fkey"}), &refErr)
	assert.ErrorIs(t, classify(context.DeadlineExceeded), ErrStoreUnavailable)
	assert.ErrorIs(t, classify(errors.New("UNIQUE constraint failed: pickers.id")), ErrDuplicate)

	plain := errors.New("boom")
	assert.Equal(t, plain, classify(plain))
}
