// Package logging provides structured logging for tablecheck.
//
// The package wraps log/slog with JSON, text and console output, level
// filtering and context fields (command, run ID, table file).
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
//	ctx = logging.WithFile(ctx, "table.biom")
//	logger.InfoContext(ctx, "table validated", "valid", true)
//
// Packages that do not receive a Logger use the slog default with a
// component attribute:
//
//	log := slog.Default().With("component", "history.sqlite")
//
// Logs are written to stderr unless a Writer is configured, keeping stdout
// free for validation reports.
package logging
