package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PickRecord is one submission from the field: a picker filled BinsPicked
// bins in a block on PickDate. BinRate is a snapshot taken when the record
// was prepared and is never re-resolved, so later price changes cannot
// alter historical payroll. Records are immutable once stored.
//
// Fields:
//  ID             – primary key, assigned during preparation.
//  PickerID       – picker who did the work.
//  OrchardBlockID – block that was picked.
//  AppleVariety   – variety copied at submission time, not a lookup.
//  BinsPicked     – number of full bins, never negative.
//  BinRate        – rate per bin frozen at creation.
//  HoursWorked    – optional hours on the block, four decimal places.
//  PickDate       – UTC calendar date of the pick.
type PickRecord struct {
	ID             uuid.UUID           // pick_records.id
	PickerID       uuid.UUID           // pick_records.picker_id
	OrchardBlockID uuid.UUID           // pick_records.orchard_block_id
	AppleVariety   string              // pick_records.apple_variety
	BinsPicked     int                 // pick_records.bins_picked
	BinRate        decimal.Decimal     // pick_records.bin_rate
	HoursWorked    decimal.NullDecimal // pick_records.hours_worked (nullable)
	PickDate       Date                // pick_records.pick_date
}

// NewPickRecordID returns a time-ordered (version 7) ID, so records on the
// same pick date sort by submission order when listed by id.
func NewPickRecordID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// TotalAmount is BinsPicked × BinRate, computed on every read.
func (r *PickRecord) TotalAmount() decimal.Decimal {
	return decimal.NewFromInt(int64(r.BinsPicked)).Mul(r.BinRate)
}
