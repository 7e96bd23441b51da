package earnings

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Earnings"

var exportHeader = []any{"Picker ID", "Picker", "Records", "Bins", "Earnings", "Average bin rate", "Hours"}

// Export writes rows as a single-sheet xlsx workbook with a totals line.
// Money cells carry two decimals, hours four.
func Export(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("earnings: rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("earnings: header style: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &exportHeader); err != nil {
		return fmt.Errorf("earnings: header: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "G1", bold); err != nil {
		return fmt.Errorf("earnings: header style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			r.PickerID.String(),
			r.PickerName,
			r.RecordCount,
			r.TotalBins,
			r.TotalEarnings.Round(2).InexactFloat64(),
			r.AverageBinRate.InexactFloat64(),
			r.TotalHours.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("earnings: row %d: %w", i+1, err)
		}
	}

	bins, pay := Totals(rows)
	footer, err := excelize.CoordinatesToCellName(1, len(rows)+2)
	if err != nil {
		return err
	}
	totals := []any{"Total", "", "", bins, pay.Round(2).InexactFloat64()}
	if err := f.SetSheetRow(sheetName, footer, &totals); err != nil {
		return fmt.Errorf("earnings: totals: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}
	last := len(rows) + 2
	if err := f.SetCellStyle(sheetName, "E2", fmt.Sprintf("F%d", last), money); err != nil {
		return err
	}
	hoursFmt := "0.0000"
	hours, err := f.NewStyle(&excelize.Style{CustomNumFmt: &hoursFmt})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "G2", fmt.Sprintf("G%d", last), hours); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 24); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("earnings: write workbook: %w", err)
	}
	return nil
}
