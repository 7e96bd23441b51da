// Package earnings summarizes pick records into per-picker pay.
package earnings

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/picker-payroll/internal/model"
)

// PickerEarnings is the aggregate of one picker's records.
type PickerEarnings struct {
	PickerID       uuid.UUID
	RecordCount    int
	TotalBins      int
	TotalEarnings  decimal.Decimal
	AverageBinRate decimal.Decimal // simple mean of per-record rates, 2dp
	TotalHours     decimal.Decimal
}

// SummarizeByPicker groups records by picker in order of first
// appearance. Pickers without records do not appear; empty input gives an
// empty, non-nil slice.
func SummarizeByPicker(records []*model.PickRecord) []PickerEarnings {
	out := []PickerEarnings{}
	index := make(map[uuid.UUID]int)
	rateSums := []decimal.Decimal{}

	for _, r := range records {
		i, ok := index[r.PickerID]
		if !ok {
			i = len(out)
			index[r.PickerID] = i
			out = append(out, PickerEarnings{
				PickerID:      r.PickerID,
				TotalEarnings: decimal.Zero,
				TotalHours:    decimal.Zero,
			})
			rateSums = append(rateSums, decimal.Zero)
		}
		s := &out[i]
		s.RecordCount++
		s.TotalBins += r.BinsPicked
		s.TotalEarnings = s.TotalEarnings.Add(r.TotalAmount())
		if r.HoursWorked.Valid {
			s.TotalHours = s.TotalHours.Add(r.HoursWorked.Decimal)
		}
		rateSums[i] = rateSums[i].Add(r.BinRate)
	}

	for i := range out {
		out[i].AverageBinRate = rateSums[i].DivRound(decimal.NewFromInt(int64(out[i].RecordCount)), model.MoneyPlaces)
		out[i].TotalHours = out[i].TotalHours.Round(model.HoursPlaces)
	}
	return out
}

// Row is a summary with the picker's display name attached.
type Row struct {
	PickerEarnings
	PickerName string
}

// WithNames attaches display names. Pickers the lookup does not know keep
// an empty name.
func WithNames(summaries []PickerEarnings, names map[uuid.UUID]string) []Row {
	rows := make([]Row, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, Row{PickerEarnings: s, PickerName: names[s.PickerID]})
	}
	return rows
}

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	SortNone     SortKey = ""
	SortEarnings SortKey = "earnings" // highest pay first
	SortBins     SortKey = "bins"     // most bins first
	SortPicker   SortKey = "picker"   // name A-Z
)

// ParseSortKey validates a user-supplied key.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortNone, SortEarnings, SortBins, SortPicker:
		return k, nil
	}
	return SortNone, fmt.Errorf("unknown sort %q: use earnings, bins or picker", s)
}

// Sort orders rows in place. Ties keep their first-appearance order.
func Sort(rows []Row, key SortKey) {
	var less func(a, b Row) bool
	switch key {
	case SortEarnings:
		less = func(a, b Row) bool { return a.TotalEarnings.GreaterThan(b.TotalEarnings) }
	case SortBins:
		less = func(a, b Row) bool { return a.TotalBins > b.TotalBins }
	case SortPicker:
		less = func(a, b Row) bool { return a.PickerName < b.PickerName }
	default:
		return
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

// Totals sums a set of rows for report footers.
func Totals(rows []Row) (bins int, pay decimal.Decimal) {
	pay = decimal.Zero
	for _, r := range rows {
		bins += r.TotalBins
		pay = pay.Add(r.TotalEarnings)
	}
	return bins, pay
}
