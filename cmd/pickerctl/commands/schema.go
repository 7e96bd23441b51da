package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/picker-payroll/internal/database"
)

var printOnly bool

// schemaCmd creates the tables
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create missing tables and indexes",
	Long: `Create every payroll table and index that does not exist yet.

Examples:
  pickerctl schema --db sqlite://payroll.db
  pickerctl schema --print --db postgres://u:p@localhost/payroll   # show DDL only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if printOnly {
			p, err := database.ParseURL(dbURL)
			if err != nil {
				return err
			}
			for _, stmt := range database.Schema(p.Dialect) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s;\n\n", stmt)
			}
			return nil
		}
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", db.Dialect)
		return nil
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&printOnly, "print", false, "Print the DDL instead of applying it")
	rootCmd.AddCommand(schemaCmd)
}
