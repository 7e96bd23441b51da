package binrate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/picker-payroll/internal/database/dbtest"
	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

type stubPrices struct {
	byVariety map[string][]*model.ApplePrice
	err       error
	calls     []string
}

func (s *stubPrices) ListActiveByVariety(_ context.Context, v string) ([]*model.ApplePrice, error) {
	s.calls = append(s.calls, v)
	return s.byVariety[v], s.err
}

type stubBlocks struct {
	byVariety map[string]*model.OrchardBlock
	err       error
}

func (s *stubBlocks) FirstActiveByVariety(_ context.Context, v string) (*model.OrchardBlock, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.byVariety[v]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestResolve_Priority(t *testing.T) {
	price := &model.ApplePrice{Variety: "Gala", BinRate: dec("48.00")}
	block := &model.OrchardBlock{AppleVariety: "Gala", DefaultBinRate: dec("45.00")}
	onlyBlock := &model.OrchardBlock{AppleVariety: "Braeburn", DefaultBinRate: dec("50.00")}

	r := NewResolver(
		&stubPrices{byVariety: map[string][]*model.ApplePrice{"Gala": {price}}},
		&stubBlocks{byVariety: map[string]*model.OrchardBlock{"Gala": block, "Braeburn": onlyBlock}},
	)

	tests := []struct {
		name    string
		variety string
		rate    string
		source  Source
	}{
		{"price beats block", "Gala", "48.00", SourceApplePrice},
		{"block when no price", "Braeburn", "50.00", SourceOrchardBlock},
		{"default when unknown", "Envy", "45.00", SourceDefault},
		{"surrounding space ignored", "  Gala ", "48.00", SourceApplePrice},
		{"case sensitive", "gala", "45.00", SourceDefault},
		{"empty variety", "", "45.00", SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(context.Background(), tt.variety)
			assert.True(t, got.Rate.Equal(dec(tt.rate)), "rate %s", got.Rate)
			assert.Equal(t, tt.source, got.Source)
		})
	}
}

func TestResolve_CustomDefault(t *testing.T) {
	r := NewResolver(&stubPrices{}, &stubBlocks{}, WithDefaultRate(dec("39.5")))
	got := r.Resolve(context.Background(), "Fuji")
	assert.Equal(t, "39.50", got.Rate.StringFixed(2))
	assert.Equal(t, "39.50", r.DefaultRate().StringFixed(2))
}

func TestResolve_LookupFailuresFallThrough(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New("test")
	logger.SetOutput(&buf)

	r := NewResolver(
		&stubPrices{err: errors.New("connection reset")},
		&stubBlocks{byVariety: map[string]*model.OrchardBlock{"Gala": {DefaultBinRate: dec("52.00")}}},
		WithLogger(logger),
	)
	got := r.Resolve(context.Background(), "Gala")
	assert.Equal(t, SourceOrchardBlock, got.Source)
	assert.Contains(t, buf.String(), "price lookup")

	buf.Reset()
	r = NewResolver(&stubPrices{}, &stubBlocks{err: repository.ErrStoreUnavailable}, WithLogger(logger))
	got = r.Resolve(context.Background(), "Gala")
	assert.Equal(t, SourceDefault, got.Source)
	assert.Contains(t, buf.String(), "block lookup")
}

func TestResolve_NoLogForPlainMiss(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New("test")
	logger.SetOutput(&buf)

	r := NewResolver(&stubPrices{}, &stubBlocks{}, WithLogger(logger))
	r.Resolve(context.Background(), "Gala")
	assert.Empty(t, buf.String())
}

func TestResolve_AgainstRepositories(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	prices := repository.NewApplePriceRepo(db)
	blocks := repository.NewOrchardBlockRepo(db)
	orchards := repository.NewOrchardRepo(db)

	o := &model.Orchard{Name: "Hillside"}
	o.InitNew()
	require.NoError(t, orchards.Create(ctx, o))
	b := &model.OrchardBlock{OrchardID: o.ID, BlockName: "A", AppleVariety: "Gala", DefaultBinRate: dec("45.00")}
	b.InitNew()
	require.NoError(t, blocks.Create(ctx, b))

	r := NewResolver(prices, blocks)
	assert.Equal(t, SourceOrchardBlock, r.Resolve(ctx, "Gala").Source)

	p := &model.ApplePrice{Variety: "Gala", BinRate: dec("48.00")}
	p.InitNew(model.Today())
	require.NoError(t, prices.Create(ctx, p))

	got := r.Resolve(ctx, "Gala")
	assert.Equal(t, SourceApplePrice, got.Source)
	assert.Equal(t, "48.00", got.Rate.StringFixed(2))

	require.NoError(t, prices.SetActive(ctx, p.ID, false, nil))
	assert.Equal(t, SourceOrchardBlock, r.Resolve(ctx, "Gala").Source)
}
