package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/seed"
)

var (
	// Seed flags
	resetFirst  bool
	seasonStart string
)

// seedCmd loads demo data
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demonstration data",
	Long: `Load a small demo season: pickers, orchards with blocks, a price list,
packhouses and a week of picks.

Examples:
  pickerctl seed                        # add demo rows
  pickerctl seed --reset                # wipe every table first
  pickerctl seed --season 2024-03-04    # first pick date`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		season := model.Today()
		if seasonStart != "" {
			d, err := model.ParseDate(seasonStart)
			if err != nil {
				return err
			}
			season = d
		}

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		defer invalidateCache(cmd)
		if resetFirst {
			if err := seed.Reset(ctx, db); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
		}

		resolver, err := newResolver(db)
		if err != nil {
			return err
		}
		rate := func(ctx context.Context, v string) decimal.Decimal { return resolver.Resolve(ctx, v).Rate }
		s, err := seed.Load(ctx, db, rate, season)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return json.NewEncoder(out).Encode(s)
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TABLE\tROWS")
		fmt.Fprintf(w, "pickers\t%d\n", s.Pickers)
		fmt.Fprintf(w, "orchards\t%d\n", s.Orchards)
		fmt.Fprintf(w, "orchard_blocks\t%d\n", s.Blocks)
		fmt.Fprintf(w, "apple_prices\t%d\n", s.Prices)
		fmt.Fprintf(w, "packhouses\t%d\n", s.Packhouses)
		fmt.Fprintf(w, "pick_records\t%d\n", s.Picks)
		return w.Flush()
	},
}

func init() {
	seedCmd.Flags().BoolVar(&resetFirst, "reset", false, "Delete every row before loading")
	seedCmd.Flags().StringVar(&seasonStart, "season", "", "First pick date, YYYY-MM-DD (default today)")
	rootCmd.AddCommand(seedCmd)
}
