package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/picker-payroll/internal/earnings"
	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

var (
	// Earnings flags
	outFile  string
	fromDate string
	toDate   string
	sortBy   string
)

// earningsCmd groups payroll reports
var earningsCmd = &cobra.Command{
	Use:   "earnings",
	Short: "Payroll reports",
}

// earningsExportCmd writes the summary workbook
var earningsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the per-picker earnings summary to an xlsx file",
	Long: `Summarize pick records per picker and write them to a workbook.

Examples:
  pickerctl earnings export --out payroll.xlsx
  pickerctl earnings export --from 2024-03-01 --to 2024-03-31 --sort earnings --out march.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter repository.PickFilter
		for _, f := range []struct {
			raw string
			dst **model.Date
		}{{fromDate, &filter.From}, {toDate, &filter.To}} {
			if f.raw == "" {
				continue
			}
			d, err := model.ParseDate(f.raw)
			if err != nil {
				return err
			}
			*f.dst = &d
		}
		key, err := earnings.ParseSortKey(sortBy)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := earnings.Load(ctx, repository.NewPickRecordRepo(db), repository.NewPickerRepo(db), filter, key)
		if err != nil {
			return err
		}

		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		if err := earnings.Export(f, rows); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		bins, pay := earnings.Totals(rows)
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pickers (%d bins, %s) to %s\n", len(rows), bins, pay.StringFixed(2), outFile)
		return nil
	},
}

func init() {
	earningsExportCmd.Flags().StringVar(&outFile, "out", "picker-earnings.xlsx", "Output file")
	earningsExportCmd.Flags().StringVar(&fromDate, "from", "", "First pick date to include")
	earningsExportCmd.Flags().StringVar(&toDate, "to", "", "Last pick date to include")
	earningsExportCmd.Flags().StringVar(&sortBy, "sort", "", "Order: earnings, bins or picker")
	earningsCmd.AddCommand(earningsExportCmd)
	rootCmd.AddCommand(earningsCmd)
}
