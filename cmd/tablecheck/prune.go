package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/biom-format/tablecheck/pkg/cli"
	"github.com/biom-format/tablecheck/pkg/history/retention"
	"github.com/biom-format/tablecheck/pkg/history/storage"
)

var pruneFlags struct {
	days       int
	maxRecords int64
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old validation results",
	Long: `Apply the history retention policy once.

Results older than retention.days are deleted, then the oldest results
beyond retention.max_records. A value of 0 disables that rule.

Examples:
  # Apply the configured policy
  tablecheck prune

  # Keep one week and at most 10000 results
  tablecheck prune --days 7 --max-records 10000`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntVar(&pruneFlags.days, "days", 0, "override retention days (0 keeps results forever)")
	pruneCmd.Flags().Int64Var(&pruneFlags.maxRecords, "max-records", 0, "override the record cap (0 means unlimited)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	retentionCfg := cfg.History.Retention
	if cmd.Flags().Changed("days") {
		if pruneFlags.days < 0 {
			return cli.NewConfigError("days", "must be non-negative")
		}
		retentionCfg.Days = pruneFlags.days
	}
	if cmd.Flags().Changed("max-records") {
		if pruneFlags.maxRecords < 0 {
			return cli.NewConfigError("max-records", "must be non-negative")
		}
		retentionCfg.MaxRecords = pruneFlags.maxRecords
	}

	store, err := storage.New(&cfg.History)
	if err != nil {
		return cli.NewCommandError("prune", fmt.Errorf("failed to open history: %w", err))
	}
	defer store.Close()

	return prune(cmd.Context(), cmd.OutOrStdout(), retention.NewPruner(store, retentionCfg))
}

func prune(ctx context.Context, w io.Writer, pruner *retention.Pruner) error {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("prune", err)
	}

	fmt.Fprintf(w, "Deleted %d results (%d by age, %d by count)\n", result.Total(), result.ByAge, result.ByCount)
	return nil
}
