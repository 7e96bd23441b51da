// Package seed loads demonstration data for development databases.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// Reset deletes every row from every table in one transaction.
func Reset(ctx context.Context, db *database.DB) error {
	return repository.ResetAll(ctx, db)
}

// Summary counts what Load inserted.
type Summary struct {
	Pickers, Orchards, Blocks, Prices, Packhouses, Picks int
}

type blockSeed struct {
	name, number, variety, road string
	area, rate                  string
}

var (
	pickerSeeds = [][2]string{
		{"Aroha", "Ngata"}, {"Liam", "O'Connor"}, {"Sione", "Tupou"}, {"Mei", "Chen"}, {"Tama", "Reid"},
	}
	orchardSeeds = []struct {
		name, location, area string
		blocks               []blockSeed
	}{
		{"Riverside", "Hastings", "42.50", []blockSeed{
			{"River", "1", "Gala", "R1", "8.20", "45.00"},
			{"River", "2", "Braeburn", "R1", "6.75", "50.00"},
		}},
		{"Hillcrest", "Havelock North", "31.00", []blockSeed{
			{"Hill", "1", "Royal Gala", "H2", "9.10", "46.00"},
			{"Hill", "2", "Fuji", "H2", "5.40", "47.50"},
		}},
	}
	priceSeeds = []struct{ variety, perKg, rate, date string }{
		{"Gala", "1.85", "48.00", "2024-02-01"},
		{"Fuji", "2.10", "49.00", "2024-02-15"},
		{"Royal Gala", "1.95", "47.00", "2024-02-01"},
	}
	packhouseSeeds = [][4]string{
		{"Bay Packers", "Hastings", "Rewi Smith", "06 870 1234"},
		{"Heretaunga Fruit", "Flaxmere", "Jo Walsh", "06 879 5678"},
	}
)

// Load inserts a small, consistent demo season: pickers, two orchards
// with blocks, a price list, packhouses and a week of picks. Pick rates
// come from rate so they follow the same rules as live submissions.
func Load(ctx context.Context, db *database.DB, rate func(ctx context.Context, variety string) decimal.Decimal, season model.Date) (Summary, error) {
	var s Summary
	pickers := repository.NewPickerRepo(db)
	orchards := repository.NewOrchardRepo(db)
	blocks := repository.NewOrchardBlockRepo(db)
	prices := repository.NewApplePriceRepo(db)
	packhouses := repository.NewPackhouseRepo(db)
	picks := repository.NewPickRecordRepo(db)

	var pickerIDs []uuid.UUID
	for _, n := range pickerSeeds {
		p := &model.Picker{FirstName: n[0], LastName: n[1], HireDate: season}
		p.InitNew(season)
		if err := pickers.Create(ctx, p); err != nil {
			return s, fmt.Errorf("seed picker %s: %w", p.FullName(), err)
		}
		pickerIDs = append(pickerIDs, p.ID)
		s.Pickers++
	}

	for _, p := range priceSeeds {
		d, err := model.ParseDate(p.date)
		if err != nil {
			return s, err
		}
		ap := &model.ApplePrice{Variety: p.variety, PricePerKg: model.MustMoney(p.perKg), BinRate: model.MustMoney(p.rate), EffectiveDate: d}
		ap.InitNew(season)
		if err := prices.Create(ctx, ap); err != nil {
			return s, fmt.Errorf("seed price %s: %w", p.variety, err)
		}
		s.Prices++
	}

	var planted []*model.OrchardBlock
	for _, o := range orchardSeeds {
		orchard := &model.Orchard{Name: o.name, Location: o.location, TotalArea: model.MustMoney(o.area)}
		orchard.InitNew()
		if err := orchards.Create(ctx, orchard); err != nil {
			return s, fmt.Errorf("seed orchard %s: %w", o.name, err)
		}
		s.Orchards++
		for _, b := range o.blocks {
			blk := &model.OrchardBlock{
				OrchardID: orchard.ID, BlockName: b.name, BlockNumber: b.number, AppleVariety: b.variety,
				RoadNumber: b.road, Area: model.MustMoney(b.area), DefaultBinRate: model.MustMoney(b.rate),
			}
			blk.InitNew()
			if err := blocks.Create(ctx, blk); err != nil {
				return s, fmt.Errorf("seed block %s: %w", blk.FullBlockName(), err)
			}
			planted = append(planted, blk)
			s.Blocks++
		}
	}

	for _, p := range packhouseSeeds {
		ph := &model.Packhouse{Name: p[0], Location: p[1], ContactPerson: p[2], Phone: p[3]}
		ph.InitNew()
		if err := packhouses.Create(ctx, ph); err != nil {
			return s, fmt.Errorf("seed packhouse %s: %w", p[0], err)
		}
		s.Packhouses++
	}

	rates := make(map[string]decimal.Decimal)
	for day := 0; day < 7; day++ {
		date := model.DateOf(season.AddDate(0, 0, day))
		for i, pickerID := range pickerIDs {
			blk := planted[(i+day)%len(planted)]
			r, ok := rates[blk.AppleVariety]
			if !ok {
				r = rate(ctx, blk.AppleVariety)
				rates[blk.AppleVariety] = r
			}
			rec := &model.PickRecord{
				ID:             model.NewPickRecordID(),
				PickerID:       pickerID,
				OrchardBlockID: blk.ID,
				AppleVariety:   blk.AppleVariety,
				BinsPicked:     4 + (i*3+day)%6,
				BinRate:        r,
				HoursWorked:    decimal.NewNullDecimal(decimal.NewFromFloat(7.5)),
				PickDate:       date,
			}
			if err := picks.Create(ctx, rec); err != nil {
				return s, fmt.Errorf("seed pick: %w", err)
			}
			s.Picks++
		}
	}
	return s, nil
}
