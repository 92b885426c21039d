package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/openingweeks/internal/config"
)

var (
	// Global flags.
	configFile  string
	catalogFile string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "openingweeks",
	Short: "Weekly opening counts and ratings from a chess game log",
	Long: `Openingweeks classifies each game of a CSV game log by its opening line
and aggregates the results per ISO week: how often each catalogued opening was
played, and the mean rating of the week.

Examples:
  # Analyze a local game log
  openingweeks analyze games.csv --output ./report

  # Keep unmatched games as "Other"
  openingweeks analyze games.csv --mode permissive

  # Read from GCS and publish the report back to GCS
  openingweeks analyze gs://my-bucket/games.csv.zst --output-gcs gs://my-bucket/reports/weekly

  # Show and check the opening catalog
  openingweeks catalog list
  openingweeks catalog verify --catalog openings.yaml`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "YAML opening catalog (overrides the configured catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// loadConfig reads the configuration file, if any, and applies the global
// flags. Command-specific flags are applied by the command.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if catalogFile != "" {
		cfg.Catalog = nil
		cfg.CatalogFile = catalogFile
	}
	return cfg, nil
}

// newLogger returns a development logger with --verbose and a production
// logger at warn level otherwise.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}
