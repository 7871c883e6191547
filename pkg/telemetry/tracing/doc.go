// Package tracing exports OpenTelemetry spans for table checks over OTLP.
//
// Each checked file produces a "tablecheck.check" span with children for
// loading, validating and recording the result:
//
//	tablecheck.check    tablecheck.file, tablecheck.valid_table, tablecheck.diagnostics
//	├── tablecheck.load
//	├── tablecheck.validate
//	└── tablecheck.store
//
// Tracing is disabled by default. Enable it in the telemetry section:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    sampler: ratio
//	    sample_ratio: 0.1
package tracing
