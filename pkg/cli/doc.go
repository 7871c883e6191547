/*
Package cli provides command-line helpers for the tablecheck command.

Output Formatting:

Validation reports and history records can be printed as text, JSON or
CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, reports); err != nil {
		return err
	}

JSON output of reports is a list of {file, valid_table, report_lines}
objects. Suggestions attached to diagnostics appear in text output only.

Progress Reporting:

When many tables are checked, a progress line is written to stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(files))
	for _, f := range files {
		progress.Increment(check(f))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
