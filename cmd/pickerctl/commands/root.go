package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iliyamo/picker-payroll/internal/binrate"
	"github.com/iliyamo/picker-payroll/internal/config"
	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/middleware"
	"github.com/iliyamo/picker-payroll/internal/router"
)

var (
	// Global flags
	dbURL       string
	defaultRate string
	jsonOutput  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pickerctl",
	Short: "Administration tool for the picker payroll database",
	Long: `pickerctl manages the picker payroll database outside the HTTP API.

Commands:
  schema            - Create missing tables and indexes
  seed              - Load demonstration data (optionally wiping first)
  bin-rate          - Show the rate a variety would be paid at
  earnings export   - Write the earnings summary to an xlsx file`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if dbURL == "" {
			dbURL = os.Getenv("DATABASE_URL")
		}
		if dbURL == "" {
			dbURL = os.Getenv("ConnectionStrings__DefaultConnection")
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database URL (defaults to $DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&defaultRate, "default-rate", "", "Fallback bin rate (defaults to $BIN_RATE_DEFAULT or 45.00)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func openDB(ctx context.Context) (*database.DB, error) {
	if dbURL == "" {
		return nil, errors.New("no database: pass --db or set DATABASE_URL")
	}
	db, err := database.Open(dbURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", db.Dialect, err)
	}
	return db, nil
}

func newResolver(db *database.DB) (*binrate.Resolver, error) {
	raw := defaultRate
	if raw == "" {
		raw = os.Getenv("BIN_RATE_DEFAULT")
	}
	if raw == "" {
		return router.NewResolver(db), nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() {
		return nil, fmt.Errorf("invalid default rate %q", raw)
	}
	return router.NewResolver(db, binrate.WithDefaultRate(rate)), nil
}

// connectCache returns the API's Redis, or an error when it is unreachable.
var connectCache = func(ctx context.Context) (middleware.Incrementer, func(), error) {
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		return nil, nil, err
	}
	return rdb, func() { _ = rdb.Close() }, nil
}

// invalidateCache bumps the API response cache generation after a direct
// write so the server stops serving reads from before it. A missing Redis
// means the server has no cache either, so that case is skipped.
func invalidateCache(cmd *cobra.Command) {
	cfg := config.LoadCacheConfig()
	if !cfg.Enabled {
		return
	}
	rdb, closeFn, err := connectCache(cmd.Context())
	if err != nil {
		return
	}
	defer closeFn()
	if err := middleware.BumpGeneration(cmd.Context(), cfg, rdb); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache not invalidated: %v\n", err)
	}
}
