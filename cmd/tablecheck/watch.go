package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/biom-format/tablecheck/pkg/biom/validator"
	"github.com/biom-format/tablecheck/pkg/cli"
	"github.com/biom-format/tablecheck/pkg/config"
	"github.com/biom-format/tablecheck/pkg/history"
	"github.com/biom-format/tablecheck/pkg/history/retention"
	"github.com/biom-format/tablecheck/pkg/history/storage"
	"github.com/biom-format/tablecheck/pkg/telemetry/health"
	"github.com/biom-format/tablecheck/pkg/telemetry/logging"
	"github.com/biom-format/tablecheck/pkg/telemetry/metrics"
	"github.com/biom-format/tablecheck/pkg/watch"
)

var watchFlags struct {
	metrics bool
	listen  string
	record  bool
	initial bool
	format  string
}

var watchCmd = &cobra.Command{
	Use:   "watch PATH",
	Short: "Revalidate tables whenever they change",
	Long: `Watch a table or a directory of tables and validate each file again
after it changes. Reports are printed to stdout as they are produced.

When history is enabled (or --record is given), every result is stored and
the retention schedule from the config prunes old results. With --metrics,
Prometheus metrics are served on the configured listen address together
with /health, /ready and /version probes.

Examples:
  # Watch a directory
  tablecheck watch tables/

  # Serve metrics on a custom address
  tablecheck watch tables/ --metrics --listen 0.0.0.0:9464

  # Keep results and skip the initial pass over existing tables
  tablecheck watch tables/ --record --initial=false`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchFlags.metrics, "metrics", false, "serve Prometheus metrics (default from config)")
	watchCmd.Flags().StringVarP(&watchFlags.listen, "listen", "l", "", "override metrics listen address")
	watchCmd.Flags().BoolVar(&watchFlags.record, "record", false, "store results in history even when history is disabled in config")
	watchCmd.Flags().BoolVar(&watchFlags.initial, "initial", true, "validate existing tables before watching")
	watchCmd.Flags().StringVarP(&watchFlags.format, "format", "f", "text", "output format: text, json")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := cli.ParseOutputFormat(watchFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return cli.NewConfigError("format", "csv output is not supported while watching")
	}

	if cmd.Flags().Changed("metrics") {
		cfg.Telemetry.Metrics.Enabled = watchFlags.metrics
	}
	if watchFlags.listen != "" {
		cfg.Telemetry.Metrics.ListenAddress = watchFlags.listen
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithCommand(ctx, "watch")
	ctx = logging.WithRunID(ctx, uuid.NewString())

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	probes := health.New(2 * time.Second)

	c := newChecker(validator.NewValidator().WithFormatVersion(cfg.Validator.FormatVersion), cfg.Validator.DetailedReport)
	c.metrics = collector

	tracer, stopTracer, err := startTracer(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer stopTracer()
	c.tracer = tracer

	if cfg.History.Enabled || watchFlags.record {
		store, err := storage.New(&cfg.History)
		if err != nil {
			return cli.NewCommandError("watch", fmt.Errorf("failed to open history: %w", err))
		}
		defer store.Close()
		c.store = store

		probes.RegisterCheck("history", func(ctx context.Context) error {
			_, err := store.Count(ctx, &history.Query{})
			return err
		})

		pruner := retention.NewPruner(store, cfg.History.Retention, retention.WithObserver(collector))
		scheduler := retention.NewScheduler(pruner, cfg.History.Retention.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer scheduler.Stop()
		if next := scheduler.NextRun(); next != nil {
			slog.Debug("history retention scheduler started", "next_run", next)
		}
	}

	wcfg := watch.FromConfig(args[0], cfg.Watch)
	wcfg.Observer = collector
	fw, err := watch.NewFileWatcher(wcfg, slog.Default().With("component", "watch"))
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer fw.Stop()

	probes.RegisterCheck("watcher", func(ctx context.Context) error {
		if !fw.Running() {
			return errors.New("watcher is not running")
		}
		return nil
	})

	if cfg.Telemetry.Metrics.Enabled {
		srv, err := startMetricsServer(cfg.Telemetry.Metrics, collector, probes, cfg.Validator.FormatVersion)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer shutdownServer(srv)
	}

	s := &watchSession{
		checker:   c,
		formatter: cli.NewFormatter(format),
		out:       cmd.OutOrStdout(),
		logger:    appLogger.With("component", "watch.session"),
	}

	if watchFlags.initial {
		files, err := fw.Scan()
		if err != nil {
			return cli.NewCommandError("watch", fmt.Errorf("failed to scan %s: %w", args[0], err))
		}
		for _, file := range files {
			s.validate(ctx, file)
		}
	}

	if err := fw.Watch(ctx, s.handle); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// watchSession validates files reported by the watcher and prints their
// reports. Reports from concurrent callbacks are written one at a time.
type watchSession struct {
	checker   *checker
	formatter cli.Formatter
	out       io.Writer
	logger    *logging.Logger
	mu        sync.Mutex
}

func (s *watchSession) handle(ctx context.Context, ev watch.Event) {
	ctx = logging.WithFile(ctx, ev.Path)

	switch ev.Op {
	case watch.OpRemove, watch.OpRename:
		s.logger.InfoContext(ctx, "table removed")
		return
	}
	s.validate(ctx, ev.Path)
}

func (s *watchSession) validate(ctx context.Context, path string) {
	ctx = logging.WithFile(ctx, path)
	report := s.checker.check(ctx, path)

	args := []any{"valid_table", report.ValidTable, "report_lines", len(report.ReportLines)}
	switch {
	case report.Error != "":
		s.logger.WarnContext(ctx, "table could not be read", append(args, "error", report.Error)...)
	case report.ValidTable:
		s.logger.InfoContext(ctx, "table validated", args...)
	default:
		s.logger.WarnContext(ctx, "table is invalid", args...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.formatter.FormatTo(s.out, []cli.FileReport{report}); err != nil {
		s.logger.ErrorContext(ctx, "failed to write report", "error", err)
	}
}

// startMetricsServer serves the collector and the health probes on
// cfg.ListenAddress. /version reports formatVersion as the expected table
// format. The listener is opened before returning so that address errors are
// reported at once.
func startMetricsServer(cfg config.MetricsConfig, collector *metrics.Collector, probes *health.Checker, formatVersion string) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, collector.Handler())
	health.Register(mux, probes, health.VersionInfo{
		Version:       Version,
		Commit:        GitCommit,
		BuildDate:     BuildDate,
		FormatVersion: formatVersion,
	})

	ln, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress, err)
	}

	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	slog.Info("serving metrics", "address", ln.Addr().String(), "path", cfg.Path)
	return srv, nil
}

func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", "error", err)
	}
}
