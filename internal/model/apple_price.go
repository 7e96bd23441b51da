package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplePrice is one entry of a variety's price list. Several entries may
// exist for the same variety over time; among the active ones the most
// recent EffectiveDate wins.
//
// Fields:
//  ID            – primary key.
//  Variety       – variety name, exact-match key for rate lookup.
//  PricePerKg    – packhouse price per kilogram.
//  BinRate       – picker rate per bin.
//  EffectiveDate – date the price takes effect (defaults to today).
//  IsActive      – soft-delete flag.
//  Version       – optimistic concurrency counter.
type ApplePrice struct {
	ID            uuid.UUID       // apple_prices.id
	Variety       string          // apple_prices.variety
	PricePerKg    decimal.Decimal // apple_prices.price_per_kg
	BinRate       decimal.Decimal // apple_prices.bin_rate
	EffectiveDate Date            // apple_prices.effective_date
	IsActive      bool            // apple_prices.is_active
	Version       int             // apple_prices.version
}

// InitNew assigns identity and creation defaults.
func (p *ApplePrice) InitNew(today Date) {
	p.ID = uuid.New()
	p.IsActive = true
	p.Version = 1
	p.Variety = NormalizeVariety(p.Variety)
	if p.EffectiveDate.IsZero() {
		p.EffectiveDate = today
	}
}

// Validate checks the caller-supplied fields.
func (p *ApplePrice) Validate() error {
	errs := &ValidationError{}
	requireText(errs, "variety", p.Variety)
	CheckMoney(errs, "pricePerKg", p.PricePerKg)
	CheckMoney(errs, "binRate", p.BinRate)
	return errs.Err()
}
