package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Orchard is a growing site made up of blocks.
//
// Fields:
//  ID        – primary key.
//  Name      – display name.
//  Location  – free-text address or region.
//  TotalArea – planted area in hectares.
//  IsActive  – soft-delete flag.
//  Version   – optimistic concurrency counter.
type Orchard struct {
	ID        uuid.UUID       // orchards.id
	Name      string          // orchards.name
	Location  string          // orchards.location
	TotalArea decimal.Decimal // orchards.total_area
	IsActive  bool            // orchards.is_active
	Version   int             // orchards.version
}

// InitNew assigns identity and creation defaults.
func (o *Orchard) InitNew() {
	o.ID = uuid.New()
	o.IsActive = true
	o.Version = 1
}

// Validate checks the caller-supplied fields.
func (o *Orchard) Validate() error {
	errs := &ValidationError{}
	requireText(errs, "name", o.Name)
	checkDecimal(errs, "totalArea", o.TotalArea, MoneyPlaces)
	return errs.Err()
}
