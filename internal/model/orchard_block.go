package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrchardBlock is a subdivision of an orchard planted with one predominant
// variety. Its DefaultBinRate is the second step of bin-rate resolution,
// used when no active price exists for the variety.
//
// Fields:
//  ID             – primary key.
//  OrchardID      – owning orchard.
//  BlockName      – block label, e.g. "North".
//  BlockNumber    – block number within the orchard, kept as text ("7A").
//  Area           – block area in hectares.
//  AppleVariety   – predominant variety, exact-match key for rate lookup.
//  RoadNumber     – access road used by the bin trucks.
//  DefaultBinRate – fallback rate per bin.
//  IsActive       – soft-delete flag.
//  Version        – optimistic concurrency counter.
type OrchardBlock struct {
	ID             uuid.UUID       // orchard_blocks.id
	OrchardID      uuid.UUID       // orchard_blocks.orchard_id
	BlockName      string          // orchard_blocks.block_name
	BlockNumber    string          // orchard_blocks.block_number
	Area           decimal.Decimal // orchard_blocks.area
	AppleVariety   string          // orchard_blocks.apple_variety
	RoadNumber     string          // orchard_blocks.road_number
	DefaultBinRate decimal.Decimal // orchard_blocks.default_bin_rate
	IsActive       bool            // orchard_blocks.is_active
	Version        int             // orchard_blocks.version
}

// FullBlockName is derived on every read and never stored.
func (b *OrchardBlock) FullBlockName() string {
	return b.BlockName + " " + b.BlockNumber
}

// InitNew assigns identity and creation defaults.
func (b *OrchardBlock) InitNew() {
	b.ID = uuid.New()
	b.IsActive = true
	b.Version = 1
	b.AppleVariety = NormalizeVariety(b.AppleVariety)
}

// Validate checks the caller-supplied fields.
func (b *OrchardBlock) Validate() error {
	errs := &ValidationError{}
	if b.OrchardID == uuid.Nil {
		errs.Add("orchardId", "is required")
	}
	requireText(errs, "blockName", b.BlockName)
	requireText(errs, "appleVariety", b.AppleVariety)
	checkDecimal(errs, "area", b.Area, MoneyPlaces)
	CheckMoney(errs, "defaultBinRate", b.DefaultBinRate)
	return errs.Err()
}
