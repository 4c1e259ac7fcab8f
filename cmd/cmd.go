// Package cmd defines the command-line interface for gridsight.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gridsight/gridsight/internal/contract"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("data-root", "d", ".", "Path to the portfolio data tree")
	rootCmd.PersistentFlags().Int("max-data-points", contract.DefaultMaxDataPoints, "Base sampling cap before per-plot multipliers")
	rootCmd.PersistentFlags().Int("cache-timeout", contract.DefaultCacheTTLSeconds, "Result cache time-to-live in seconds")
	rootCmd.PersistentFlags().Int("cache-capacity", contract.DefaultCacheCapacity, "Result cache entry bound before LRU eviction")
	rootCmd.PersistentFlags().String("load-wait-budget", "", "Bounded wait before serving stale cache entries (e.g. '2s')")
	rootCmd.PersistentFlags().String("sweep-interval", "", "Period of the expired cache entry sweep (e.g. '1m')")
	rootCmd.PersistentFlags().Float64("min-generation-mw", contract.DefaultMinGenerationMW, "Generation threshold below which rows are treated as noise")
	rootCmd.PersistentFlags().Int("min-hours-per-year", contract.DefaultMinHoursPerYear, "Rows required for a year to count as complete")
	rootCmd.PersistentFlags().Bool("leap-aware", true, "Require 24 extra hours for leap years")
	rootCmd.PersistentFlags().Int("lookback-generation", 0, "Lookback window in years for generation timeseries (0 = default)")
	rootCmd.PersistentFlags().Int("lookback-duration-curve", 0, "Lookback window in years for duration curves (0 = default)")
	rootCmd.PersistentFlags().Int("lookback-ghi-hour", 0, "Lookback window in years for ghi-hour scatter (0 = default)")
	rootCmd.PersistentFlags().Int("lookback-ghi-temperature", 0, "Lookback window in years for ghi-temperature scatter (0 = default)")
	rootCmd.PersistentFlags().Int("lookback-diurnal", 0, "Lookback window in years for diurnal profile (0 = default)")
	rootCmd.PersistentFlags().String("listen-addr", contract.DefaultListenAddr, "HTTP listen address for the serve command")
	rootCmd.PersistentFlags().String("snapshot-db", "", "Path to the SQLite snapshot store")
	rootCmd.PersistentFlags().StringP("output", "o", string(contract.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of seriesCmd to Viper
	seriesCmd.Flags().String("category", "", "Data category override (generation, price_da, price_rt, revenue_da, revenue_rt)")
	if err := viper.BindPFlags(seriesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding series flags", err)
	}

	// Bind all flags of exportCmd to Viper
	exportCmd.Flags().String("export-file", "", "Destination parquet path (defaults to <site>_<kind>.parquet)")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}
}
