package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/biom-format/tablecheck/pkg/cli"
	"github.com/biom-format/tablecheck/pkg/history"
	"github.com/biom-format/tablecheck/pkg/history/storage"
)

var historyFlags struct {
	file    string
	valid   bool
	invalid bool
	since   string
	until   string
	limit   int
	offset  int
	order   string
	format  string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded validation results",
	Long: `Show validation results recorded by "validate --record" or "watch".

Times accept RFC3339 timestamps or durations relative to now.

Examples:
  # Most recent results
  tablecheck history

  # Invalid results for one table in the last day
  tablecheck history --file tables/otu.biom --invalid --since 24h

  # Export a time window as CSV
  tablecheck history --since 2026-01-01T00:00:00Z --until 2026-02-01T00:00:00Z --format csv`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.file, "file", "", "only results for this file path")
	historyCmd.Flags().BoolVar(&historyFlags.valid, "valid", false, "only valid tables")
	historyCmd.Flags().BoolVar(&historyFlags.invalid, "invalid", false, "only invalid tables")
	historyCmd.Flags().StringVar(&historyFlags.since, "since", "", "only results checked at or after this time (RFC3339 or duration)")
	historyCmd.Flags().StringVar(&historyFlags.until, "until", "", "only results checked at or before this time (RFC3339 or duration)")
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 50, "maximum number of results")
	historyCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "skip this many results")
	historyCmd.Flags().StringVar(&historyFlags.order, "order", "desc", "sort order by check time: asc, desc")
	historyCmd.Flags().StringVarP(&historyFlags.format, "format", "f", "text", "output format: text, json, csv")

	historyCmd.MarkFlagsMutuallyExclusive("valid", "invalid")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := cli.ParseOutputFormat(historyFlags.format)
	if err != nil {
		return err
	}

	query, err := buildHistoryQuery(time.Now())
	if err != nil {
		return err
	}

	if cfg.History.Backend == "memory" {
		slog.Warn("history backend is memory; nothing persists between runs")
	}

	store, err := storage.New(&cfg.History)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("failed to open history: %w", err))
	}
	defer store.Close()

	return showHistory(cmd.Context(), cmd.OutOrStdout(), store, query, format)
}

func showHistory(ctx context.Context, w io.Writer, store history.Storage, query *history.Query, format cli.OutputFormat) error {
	if ctx == nil {
		ctx = context.Background()
	}

	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}

	if err := cli.NewFormatter(format).FormatTo(w, records); err != nil {
		return cli.NewCommandError("history", err)
	}
	return nil
}

// buildHistoryQuery turns the history flags into a query.
func buildHistoryQuery(now time.Time) (*history.Query, error) {
	query := &history.Query{
		File:   historyFlags.file,
		Limit:  historyFlags.limit,
		Offset: historyFlags.offset,
	}

	switch strings.ToLower(historyFlags.order) {
	case "asc":
		query.SortOrder = history.SortAscending
	case "desc", "":
		query.SortOrder = history.SortDescending
	default:
		return nil, cli.NewConfigError("order", fmt.Sprintf("unsupported sort order %q (want asc or desc)", historyFlags.order))
	}

	if historyFlags.valid || historyFlags.invalid {
		v := historyFlags.valid
		query.Valid = &v
	}

	if historyFlags.since != "" {
		t, err := parseTimeFlag(historyFlags.since, now)
		if err != nil {
			return nil, cli.NewConfigError("since", err.Error())
		}
		query.StartTime = &t
	}
	if historyFlags.until != "" {
		t, err := parseTimeFlag(historyFlags.until, now)
		if err != nil {
			return nil, cli.NewConfigError("until", err.Error())
		}
		query.EndTime = &t
	}

	if query.StartTime != nil && query.EndTime != nil && query.EndTime.Before(*query.StartTime) {
		return nil, cli.NewConfigError("until", "must not be before --since")
	}

	return query, nil
}

// parseTimeFlag accepts an RFC3339 timestamp or a duration that is
// subtracted from now ("24h" means 24 hours ago).
func parseTimeFlag(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC3339 or a duration such as 24h", s)
	}
	return now.Add(-d.Abs()), nil
}
