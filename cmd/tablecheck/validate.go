package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/biom-format/tablecheck/pkg/biom/validator"
	"github.com/biom-format/tablecheck/pkg/cli"
	"github.com/biom-format/tablecheck/pkg/history/storage"
	"github.com/biom-format/tablecheck/pkg/telemetry/metrics"
)

var validateFlags struct {
	detailed      bool
	format        string
	formatVersion string
	record        bool
	progress      bool
	metricsFile   string
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE|DIR|- ...",
	Short: "Validate BIOM tables",
	Long: `Validate one or more BIOM tables and print a report for each.

Directories are searched recursively for files with a table extension
(.biom, .json, .yaml, .yml). A single "-" reads a JSON table from stdin.

The command exits with status 1 when any table is invalid or cannot be read.

Examples:
  # Validate a table
  tablecheck validate otu_table.biom

  # Include a line for every check that passed
  tablecheck validate --detailed otu_table.biom

  # JSON report for every table in a directory
  tablecheck validate --format json tables/

  # Check against another format version string
  tablecheck validate --format-version "Biological Observation Matrix 1.0.0" table.json

  # Keep the results in history and write metrics for node_exporter
  tablecheck validate --record --metrics-file /var/lib/node_exporter/tablecheck.prom tables/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVarP(&validateFlags.detailed, "detailed", "d", false, "add a confirmation line for every passing check (default from config)")
	validateCmd.Flags().StringVarP(&validateFlags.format, "format", "f", "text", "output format: text, json, csv")
	validateCmd.Flags().StringVar(&validateFlags.formatVersion, "format-version", "", "expected value of the 'format' field (default from config)")
	validateCmd.Flags().BoolVar(&validateFlags.record, "record", false, "store results in history even when history is disabled in config")
	validateCmd.Flags().BoolVar(&validateFlags.progress, "progress", false, "show a progress line on stderr")
	validateCmd.Flags().StringVar(&validateFlags.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
}

// validateOptions holds the resolved settings of one validate run.
type validateOptions struct {
	format        cli.OutputFormat
	detailed      bool
	formatVersion string
	progress      cli.ProgressReporter
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}

	opts := validateOptions{
		format:        format,
		detailed:      cfg.Validator.DetailedReport,
		formatVersion: cfg.Validator.FormatVersion,
		progress:      cli.NoProgress(),
	}
	if cmd.Flags().Changed("detailed") {
		opts.detailed = validateFlags.detailed
	}
	if validateFlags.formatVersion != "" {
		opts.formatVersion = validateFlags.formatVersion
	}
	if validateFlags.progress {
		opts.progress = cli.NewProgressReporter(cmd.ErrOrStderr())
	}

	c := newChecker(validator.NewValidator().WithFormatVersion(opts.formatVersion), opts.detailed)
	c.stdin = cmd.InOrStdin()

	tracer, stopTracer, err := startTracer(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	defer stopTracer()
	c.tracer = tracer

	if validateFlags.metricsFile != "" {
		metricsCfg := cfg.Telemetry.Metrics
		metricsCfg.Enabled = true
		c.metrics = metrics.NewCollector(&metricsCfg, nil)
	}

	if cfg.History.Enabled || validateFlags.record {
		store, err := storage.New(&cfg.History)
		if err != nil {
			return cli.NewCommandError("validate", fmt.Errorf("failed to open history: %w", err))
		}
		defer store.Close()
		c.store = store
	}

	err = validateFiles(cmd.Context(), cmd.OutOrStdout(), c, opts, args)

	if c.metrics != nil {
		if werr := prometheus.WriteToTextfile(validateFlags.metricsFile, c.metrics.Registry()); werr != nil {
			slog.Error("failed to write metrics file", "path", validateFlags.metricsFile, "error", werr)
		}
	}

	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	return nil
}

// validateFiles checks every table named by args and writes the reports to
// w. It returns cli.ErrInvalidTables when any table failed.
func validateFiles(ctx context.Context, w io.Writer, c *checker, opts validateOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := expandPaths(args)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no tables found")
	}

	reports := make([]cli.FileReport, 0, len(files))
	failed := 0

	opts.progress.Start(len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		report := c.check(ctx, file)
		if report.Failed() {
			failed++
		}
		reports = append(reports, report)
		opts.progress.Increment(report.Failed())
	}
	opts.progress.Finish()

	if err := cli.NewFormatter(opts.format).FormatTo(w, reports); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	slog.Debug("validation finished", "tables", len(files), "failed", failed)

	if failed > 0 {
		return cli.ErrInvalidTables
	}
	return nil
}
