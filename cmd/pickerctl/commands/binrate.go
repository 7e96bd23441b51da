package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// binRateCmd resolves a variety's bin rate
var binRateCmd = &cobra.Command{
	Use:   "bin-rate <variety>",
	Short: "Show the rate a variety would be paid at",
	Long: `Resolve a variety's bin rate the way new pick records do: the most recent
active price, else the first active block's default, else the global default.

Examples:
  pickerctl bin-rate Gala
  pickerctl bin-rate "Royal Gala" --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		resolver, err := newResolver(db)
		if err != nil {
			return err
		}

		res := resolver.Resolve(cmd.Context(), args[0])
		if jsonOutput {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
				"variety": res.Variety,
				"binRate": res.Rate.StringFixed(2),
				"source":  string(res.Source),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", res.Variety, res.Rate.StringFixed(2), res.Source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(binRateCmd)
}
