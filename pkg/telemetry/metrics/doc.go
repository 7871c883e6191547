// Package metrics provides Prometheus metrics for tablecheck.
//
// # Metrics Categories
//
//   - Validation: runs by verdict, diagnostics by kind, duration, load errors
//   - History: stored and pruned records, storage errors
//   - Watch: file system events and the number of watched tables
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	_, diags := v.Inspect(doc, false)
//	collector.RecordValidation(!diags.HasErrors(), "OTU table", "sparse", diags.CountByKind(), elapsed)
//
//	mux.Handle("/metrics", collector.Handler())
//
// Recording is a no-op while metrics are disabled in the configuration.
package metrics
