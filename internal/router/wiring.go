package router

import (
	"time"

	"github.com/iliyamo/picker-payroll/internal/binrate"
	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/handler"
	"github.com/iliyamo/picker-payroll/internal/pickrecord"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// NewHandlers builds every handler over db. events may be nil.
func NewHandlers(db *database.DB, rates *binrate.Resolver, events handler.PickPublisher) Handlers {
	pickers := repository.NewPickerRepo(db)
	picks := repository.NewPickRecordRepo(db)
	blocks := repository.NewOrchardBlockRepo(db)

	return Handlers{
		Pickers:    handler.NewPickerHandler(pickers, picks),
		Orchards:   handler.NewOrchardHandler(repository.NewOrchardRepo(db), blocks, rates),
		Prices:     handler.NewPriceHandler(repository.NewApplePriceRepo(db), rates),
		Packhouses: handler.NewPackhouseHandler(repository.NewPackhouseRepo(db)),
		Picks:      handler.NewPickHandler(picks, pickrecord.NewPreparer(rates, time.Now), events),
		Earnings:   handler.NewEarningsHandler(picks, pickers),
	}
}

// NewResolver builds the bin-rate resolver over db's price list and blocks.
func NewResolver(db *database.DB, opts ...binrate.Option) *binrate.Resolver {
	return binrate.NewResolver(repository.NewApplePriceRepo(db), repository.NewOrchardBlockRepo(db), opts...)
}
