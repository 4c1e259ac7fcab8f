package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gridsight/gridsight/core"
	"github.com/gridsight/gridsight/internal/catalog"
	"github.com/gridsight/gridsight/internal/contract"
	"github.com/gridsight/gridsight/internal/dataset"
	"github.com/gridsight/gridsight/internal/outwriter"
	"github.com/gridsight/gridsight/internal/rescache"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// Components built by sharedSetup for the commands to use.
var (
	logger   *slog.Logger
	siteCat  *catalog.Catalog
	pipeline *core.Pipeline
	registry *prometheus.Registry
	writer   = outwriter.NewOutWriter()
)

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "gridsight",
	Short:              "Explore renewable-energy portfolio data from the command line.",
	Long:               `GridSight reads per-site parquet archives and assembles the downsampled series behind every dashboard plot.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".gridsight") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("GRIDSIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("max-data-points", contract.DefaultMaxDataPoints)
	viper.SetDefault("cache-timeout", contract.DefaultCacheTTLSeconds)
	viper.SetDefault("cache-capacity", contract.DefaultCacheCapacity)
	viper.SetDefault("min-generation-mw", contract.DefaultMinGenerationMW)
	viper.SetDefault("min-hours-per-year", contract.DefaultMinHoursPerYear)
	viper.SetDefault("leap-aware", true)
	viper.SetDefault("listen-addr", contract.DefaultListenAddr)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", string(contract.TextOut))
	viper.SetDefault("color", "yes")
}

// newLogger builds the process logger with colorized output.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// sharedSetup unmarshals config, runs validation, and builds the pipeline.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. The data root has no mapstructure tag, so resolve it by hand.
	input.DataRootStr = viper.GetString("data-root")

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Build the shared components from the validated config.
	logger = newLogger(cfg.Verbose)
	slog.SetDefault(logger)

	cat, err := catalog.New(cfg.DataRoot, logger)
	if err != nil {
		return err
	}
	siteCat = cat

	registry = prometheus.NewRegistry()
	cache := rescache.New(rescache.Config{
		TTL:        cfg.CacheTTL,
		Capacity:   cfg.CacheCapacity,
		WaitBudget: cfg.LoadWaitBudget,
		Logger:     logger,
		Metrics:    rescache.NewMetrics(registry),
	})
	loader := dataset.NewLoader(cat, logger)
	pipeline = core.NewPipeline(cfg, cat, loader, cache, logger)
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
