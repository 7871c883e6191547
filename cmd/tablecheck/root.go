package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/biom-format/tablecheck/pkg/cli"
	"github.com/biom-format/tablecheck/pkg/config"
	"github.com/biom-format/tablecheck/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// appLogger is the configured logger, set by loadConfig.
	appLogger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tablecheck",
	Short: "tablecheck - BIOM observation table validator",
	Long: `tablecheck validates documents in the Biological Observation Matrix (BIOM)
1.0 format, as produced by QIIME and related tools.

Every check runs on every table, so one run reports all problems at once:
  - Required fields and their allowed values
  - Row and column entries and their metadata
  - Declared shape against the actual rows, columns and data
  - Sparse triples and dense rows against the declared element type`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tablecheck.yaml", "config file path (defaults apply when missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig initializes the global configuration and the default logger.
func loadConfig() (*config.Config, error) {
	found, err := config.Initialize(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	cfg := config.GetConfig()

	if err := setupLogging(cfg.Telemetry.Logging); err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	if !found {
		slog.Debug("config file not found, using defaults", "path", cfgFile)
	}
	return cfg, nil
}

// setupLogging installs the configured logger as the slog default.
func setupLogging(lc config.LoggingConfig) error {
	logCfg := logging.FromConfig(lc)
	if verbose {
		logCfg.Level = "debug"
	}

	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	logger.SetDefault()
	appLogger = logger
	return nil
}
