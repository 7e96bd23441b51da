// Package pickrecord turns a raw pick submission into a record that is
// ready to store.
package pickrecord

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/picker-payroll/internal/binrate"
	"github.com/iliyamo/picker-payroll/internal/model"
)

// Input is a pick submission as it arrives from the field. Pointer fields
// distinguish "absent" from zero.
type Input struct {
	PickerID       string  `json:"pickerId"`
	OrchardBlockID string  `json:"orchardBlockId"`
	AppleVariety   string  `json:"appleVariety"`
	BinsPicked     *Number `json:"binsPicked"`
	BinRate        *Number `json:"binRate"`
	HoursWorked    *Number `json:"hoursWorked"`
	PickDate       string  `json:"pickDate"`
}

// MaxBins is the largest count the bins_picked INTEGER column holds.
const MaxBins = math.MaxInt32

// Number keeps a numeric field exactly as the client sent it, either a
// JSON number or a numeric string. Decoding never fails; Prepare judges
// the value so a malformed number is reported with every other field.
type Number struct {
	raw string
}

// NumberOf wraps a literal such as "12" or "45.50".
func NumberOf(s string) *Number {
	return &Number{raw: s}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	n.raw = string(b)
	return nil
}

func (n *Number) decimal() (decimal.Decimal, bool) {
	s := strings.TrimSpace(n.raw)
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

// RateResolver supplies the bin rate when the submission has none.
type RateResolver interface {
	Resolve(ctx context.Context, variety string) binrate.Resolution
}

// Preparer validates and normalizes submissions.
type Preparer struct {
	rates RateResolver
	now   func() time.Time
}

// NewPreparer returns a Preparer that reads the current date from now. A
// nil now uses time.Now.
func NewPreparer(rates RateResolver, now func() time.Time) *Preparer {
	if now == nil {
		now = time.Now
	}
	return &Preparer{rates: rates, now: now}
}

// Prepare checks every field and reports all failures in one
// *model.ValidationError. On success the record has a fresh ID, a UTC
// pick date and a frozen bin rate, resolved here when in.BinRate is nil.
func (p *Preparer) Prepare(ctx context.Context, in Input) (*model.PickRecord, error) {
	errs := &model.ValidationError{}
	rec := &model.PickRecord{}

	rec.PickerID = parseID(errs, "pickerId", in.PickerID)
	rec.OrchardBlockID = parseID(errs, "orchardBlockId", in.OrchardBlockID)

	rec.AppleVariety = model.NormalizeVariety(in.AppleVariety)
	if rec.AppleVariety == "" {
		errs.Add("appleVariety", "is required")
	}

	rec.BinsPicked = parseBins(errs, in.BinsPicked)

	if in.BinRate != nil {
		if d, ok := in.BinRate.decimal(); ok {
			model.CheckMoney(errs, "binRate", d)
			rec.BinRate = d
		} else {
			errs.Add("binRate", "must be a number")
		}
	}
	if in.HoursWorked != nil {
		if d, ok := in.HoursWorked.decimal(); ok {
			model.CheckHours(errs, "hoursWorked", d)
			rec.HoursWorked = decimal.NewNullDecimal(d)
		} else {
			errs.Add("hoursWorked", "must be a number")
		}
	}

	if s := strings.TrimSpace(in.PickDate); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			errs.Add("pickDate", "must be YYYY-MM-DD or an RFC 3339 timestamp")
		}
		rec.PickDate = d
	} else {
		rec.PickDate = model.DateOf(p.now())
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	if in.BinRate == nil {
		rec.BinRate = p.rates.Resolve(ctx, rec.AppleVariety).Rate
	}
	rec.ID = model.NewPickRecordID()
	return rec, nil
}

func parseBins(errs *model.ValidationError, n *Number) int {
	if n == nil {
		errs.Add("binsPicked", "is required")
		return 0
	}
	d, ok := n.decimal()
	if !ok || !d.IsInteger() || d.IsNegative() {
		errs.Add("binsPicked", "must be a non-negative integer")
		return 0
	}
	if d.GreaterThan(decimal.NewFromInt(MaxBins)) {
		errs.Add("binsPicked", fmt.Sprintf("must not exceed %d", MaxBins))
		return 0
	}
	return int(d.IntPart())
}

func parseID(errs *model.ValidationError, field, raw string) uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.Add(field, "is required")
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		errs.Add(field, "must be a UUID")
		return uuid.Nil
	}
	return id
}
