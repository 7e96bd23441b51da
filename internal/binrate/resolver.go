// Package binrate decides how much a picker is paid per bin of a variety.
package binrate

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// DefaultRate applies when neither the price list nor any block knows the
// variety.
var DefaultRate = decimal.RequireFromString("45.00")

// Source names the level that produced a rate.
type Source string

const (
	SourceApplePrice   Source = "apple_price"
	SourceOrchardBlock Source = "orchard_block"
	SourceDefault      Source = "default"
)

// Resolution is the outcome of a lookup.
type Resolution struct {
	Variety string          `json:"variety"`
	Rate    decimal.Decimal `json:"binRate"`
	Source  Source          `json:"source"`
}

// PriceSource lists the active prices of a variety, most recently
// effective first.
type PriceSource interface {
	ListActiveByVariety(ctx context.Context, variety string) ([]*model.ApplePrice, error)
}

// BlockSource finds the first active block planted with a variety and
// returns repository.ErrNotFound when there is none.
type BlockSource interface {
	FirstActiveByVariety(ctx context.Context, variety string) (*model.OrchardBlock, error)
}

// Resolver walks price list, then block, then the default.
type Resolver struct {
	prices      PriceSource
	blocks      BlockSource
	defaultRate decimal.Decimal
	logger      *log.Logger
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithDefaultRate replaces DefaultRate for this resolver.
func WithDefaultRate(rate decimal.Decimal) Option {
	return func(r *Resolver) { r.defaultRate = model.Money(rate) }
}

// WithLogger sets the logger used for failed lookups.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver builds a Resolver over the given sources.
func NewResolver(prices PriceSource, blocks BlockSource, opts ...Option) *Resolver {
	r := &Resolver{
		prices:      prices,
		blocks:      blocks,
		defaultRate: DefaultRate,
		logger:      log.New("binrate"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultRate returns the rate used when nothing else matches.
func (r *Resolver) DefaultRate() decimal.Decimal {
	return r.defaultRate
}

// Resolve always yields a rate. Lookup failures are logged and treated as
// "no match" at that level.
func (r *Resolver) Resolve(ctx context.Context, variety string) Resolution {
	v := model.NormalizeVariety(variety)
	if v == "" {
		return Resolution{Variety: v, Rate: r.defaultRate, Source: SourceDefault}
	}

	prices, err := r.prices.ListActiveByVariety(ctx, v)
	switch {
	case err != nil:
		r.logger.Warnf("price lookup for %q failed: %v", v, err)
	case len(prices) > 0:
		return Resolution{Variety: v, Rate: model.Money(prices[0].BinRate), Source: SourceApplePrice}
	}

	block, err := r.blocks.FirstActiveByVariety(ctx, v)
	switch {
	case err == nil:
		return Resolution{Variety: v, Rate: model.Money(block.DefaultBinRate), Source: SourceOrchardBlock}
	case !errors.Is(err, repository.ErrNotFound):
		r.logger.Warnf("block lookup for %q failed: %v", v, err)
	}

	return Resolution{Variety: v, Rate: r.defaultRate, Source: SourceDefault}
}
