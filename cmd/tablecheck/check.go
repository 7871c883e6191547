package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/biom-format/tablecheck/pkg/biom/loader"
	"github.com/biom-format/tablecheck/pkg/biom/validator"
	"github.com/biom-format/tablecheck/pkg/cli"
	"github.com/biom-format/tablecheck/pkg/config"
	"github.com/biom-format/tablecheck/pkg/history"
	"github.com/biom-format/tablecheck/pkg/telemetry/metrics"
	"github.com/biom-format/tablecheck/pkg/telemetry/tracing"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// checker loads and validates tables and reports each outcome to metrics,
// history and traces. Metrics and store are optional.
type checker struct {
	validator *validator.Validator
	detailed  bool
	metrics   *metrics.Collector
	store     history.Storage
	tracer    *tracing.Tracer
	stdin     io.Reader
	logger    *slog.Logger
	now       func() time.Time
}

func newChecker(v *validator.Validator, detailed bool) *checker {
	return &checker{
		validator: v,
		detailed:  detailed,
		tracer:    tracing.Noop(),
		stdin:     os.Stdin,
		logger:    slog.Default().With("component", "checker"),
		now:       time.Now,
	}
}

// startTracer builds the tracer for a command run. The returned stop func
// flushes pending spans.
func startTracer(cfg *config.TracingConfig) (*tracing.Tracer, func(), error) {
	tracer, err := tracing.New(cfg, tracing.WithServiceVersion(Version))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start tracing: %w", err)
	}
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}
	return tracer, stop, nil
}

// check validates the table at path. Unreadable files yield an error report.
func (c *checker) check(ctx context.Context, path string) cli.FileReport {
	ctx, span := c.tracer.Start(ctx, "tablecheck.check")
	defer span.End()
	tracing.SetFileAttributes(span, path, "")

	table, err := c.load(ctx, path)
	if err != nil {
		var le *loader.LoadError
		format := string(loader.DetectFormat(path))
		if errors.As(err, &le) {
			format = string(le.Format)
		}
		if c.metrics != nil {
			c.metrics.RecordLoadError(format)
		}
		c.logger.Debug("failed to load table", "file", path, "error", err)
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
		return cli.NewErrorReport(path, err)
	}

	_, validateSpan := c.tracer.Start(ctx, "tablecheck.validate")
	start := c.now()
	result, diagnostics := c.validator.Inspect(table, c.detailed)
	duration := c.now().Sub(start)
	tracing.SetResultAttributes(validateSpan, result.ValidTable, diagnostics.Count())
	validateSpan.End()

	record := history.NewRecord(path, table, result, diagnostics.Count(),
		c.validator.FormatVersion(), c.now(), duration)
	tracing.SetTableAttributes(span, record.TableType, record.MatrixType)
	tracing.SetResultAttributes(span, result.ValidTable, diagnostics.Count())

	if c.metrics != nil {
		c.metrics.RecordValidation(result.ValidTable, record.TableType, record.MatrixType,
			diagnostics.CountByKind(), duration)
	}

	if c.store != nil {
		c.storeRecord(ctx, record)
	}

	tracing.SetStatus(span, nil)
	return cli.NewFileReport(path, result, diagnostics)
}

func (c *checker) load(ctx context.Context, path string) (map[string]any, error) {
	_, span := c.tracer.Start(ctx, "tablecheck.load")
	defer span.End()

	var (
		table map[string]any
		err   error
	)
	if path == stdinPath {
		tracing.SetFileAttributes(span, path, string(loader.FormatJSON))
		table, err = loader.Decode(c.stdin, loader.FormatJSON)
	} else {
		tracing.SetFileAttributes(span, path, string(loader.DetectFormat(path)))
		table, err = loader.Load(path)
	}
	tracing.SetError(span, err)
	tracing.SetStatus(span, err)
	return table, err
}

// storeRecord saves record. Failures are logged and counted, never fatal.
func (c *checker) storeRecord(ctx context.Context, record *history.Record) {
	ctx, span := c.tracer.Start(ctx, "tablecheck.store")
	defer span.End()

	err := c.store.Store(ctx, record)
	tracing.SetError(span, err)
	tracing.SetStatus(span, err)
	if err != nil {
		c.logger.Warn("failed to record validation result", "file", record.File, "error", err)
		if c.metrics != nil {
			c.metrics.RecordHistoryError("store")
		}
		return
	}
	if c.metrics != nil {
		c.metrics.RecordHistoryStored()
	}
}

// expandPaths replaces each directory argument with the table files below
// it, sorted. Files and "-" are kept as given, whatever their extension.
func expandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if arg == stdinPath {
			out = append(out, arg)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Missing files are reported per file by the checker.
			out = append(out, arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != arg && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !d.IsDir() && loader.IsTable(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
