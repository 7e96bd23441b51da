package handler

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/picker-payroll/internal/binrate"
	"github.com/iliyamo/picker-payroll/internal/earnings"
	"github.com/iliyamo/picker-payroll/internal/model"
)

// Read models returned by the API. Money is rendered as a fixed two-place
// string so clients never see float rounding; cross references are ids
// only.

type pickerView struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	IsActive  bool       `json:"isActive"`
	HireDate  model.Date `json:"hireDate"`
	Version   int        `json:"version"`
}

func newPickerView(p *model.Picker) pickerView {
	return pickerView{
		ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, FullName: p.FullName(),
		Email: p.Email, Phone: p.Phone, IsActive: p.IsActive, HireDate: p.HireDate, Version: p.Version,
	}
}

type orchardView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	TotalArea string    `json:"totalArea"`
	IsActive  bool      `json:"isActive"`
	Version   int       `json:"version"`
}

func newOrchardView(o *model.Orchard) orchardView {
	return orchardView{
		ID: o.ID, Name: o.Name, Location: o.Location, TotalArea: money(o.TotalArea),
		IsActive: o.IsActive, Version: o.Version,
	}
}

type blockView struct {
	ID             uuid.UUID `json:"id"`
	OrchardID      uuid.UUID `json:"orchardId"`
	BlockName      string    `json:"blockName"`
	BlockNumber    string    `json:"blockNumber"`
	FullBlockName  string    `json:"fullBlockName"`
	Area           string    `json:"area"`
	AppleVariety   string    `json:"appleVariety"`
	RoadNumber     string    `json:"roadNumber"`
	DefaultBinRate string    `json:"defaultBinRate"`
	IsActive       bool      `json:"isActive"`
	Version        int       `json:"version"`
}

func newBlockView(b *model.OrchardBlock) blockView {
	return blockView{
		ID: b.ID, OrchardID: b.OrchardID, BlockName: b.BlockName, BlockNumber: b.BlockNumber,
		FullBlockName: b.FullBlockName(), Area: money(b.Area), AppleVariety: b.AppleVariety,
		RoadNumber: b.RoadNumber, DefaultBinRate: money(b.DefaultBinRate), IsActive: b.IsActive, Version: b.Version,
	}
}

type priceView struct {
	ID            uuid.UUID  `json:"id"`
	Variety       string     `json:"variety"`
	PricePerKg    string     `json:"pricePerKg"`
	BinRate       string     `json:"binRate"`
	EffectiveDate model.Date `json:"effectiveDate"`
	IsActive      bool       `json:"isActive"`
	Version       int        `json:"version"`
}

func newPriceView(p *model.ApplePrice) priceView {
	return priceView{
		ID: p.ID, Variety: p.Variety, PricePerKg: money(p.PricePerKg), BinRate: money(p.BinRate),
		EffectiveDate: p.EffectiveDate, IsActive: p.IsActive, Version: p.Version,
	}
}

type packhouseView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	ContactPerson string    `json:"contactPerson"`
	Phone         string    `json:"phone"`
	IsActive      bool      `json:"isActive"`
	Version       int       `json:"version"`
}

func newPackhouseView(p *model.Packhouse) packhouseView {
	return packhouseView{
		ID: p.ID, Name: p.Name, Location: p.Location, ContactPerson: p.ContactPerson,
		Phone: p.Phone, IsActive: p.IsActive, Version: p.Version,
	}
}

type pickView struct {
	ID             uuid.UUID  `json:"id"`
	PickerID       uuid.UUID  `json:"pickerId"`
	OrchardBlockID uuid.UUID  `json:"orchardBlockId"`
	AppleVariety   string     `json:"appleVariety"`
	BinsPicked     int        `json:"binsPicked"`
	BinRate        string     `json:"binRate"`
	HoursWorked    *string    `json:"hoursWorked"`
	TotalAmount    string     `json:"totalAmount"`
	PickDate       model.Date `json:"pickDate"`
}

func newPickView(r *model.PickRecord) pickView {
	v := pickView{
		ID: r.ID, PickerID: r.PickerID, OrchardBlockID: r.OrchardBlockID, AppleVariety: r.AppleVariety,
		BinsPicked: r.BinsPicked, BinRate: money(r.BinRate), TotalAmount: money(r.TotalAmount()), PickDate: r.PickDate,
	}
	if r.HoursWorked.Valid {
		h := r.HoursWorked.Decimal.StringFixed(model.HoursPlaces)
		v.HoursWorked = &h
	}
	return v
}

type earningsView struct {
	PickerID       uuid.UUID `json:"pickerId"`
	PickerName     string    `json:"pickerName"`
	RecordCount    int       `json:"recordCount"`
	TotalBins      int       `json:"totalBins"`
	TotalEarnings  string    `json:"totalEarnings"`
	AverageBinRate string    `json:"averageBinRate"`
	TotalHours     string    `json:"totalHours"`
}

func newEarningsView(r earnings.Row) earningsView {
	return earningsView{
		PickerID: r.PickerID, PickerName: r.PickerName, RecordCount: r.RecordCount, TotalBins: r.TotalBins,
		TotalEarnings: money(r.TotalEarnings), AverageBinRate: money(r.AverageBinRate),
		TotalHours: r.TotalHours.StringFixed(model.HoursPlaces),
	}
}

type binRateView struct {
	Variety string         `json:"variety"`
	BinRate string         `json:"binRate"`
	Source  binrate.Source `json:"source"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(model.MoneyPlaces)
}

// views maps every item and never returns nil, so empty lists encode as [].
func views[T any, V any](items []*T, f func(*T) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}
