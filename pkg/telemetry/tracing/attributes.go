package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on check spans. Custom keys use the "tablecheck.*"
// namespace.
const (
	AttrFile        = "tablecheck.file"
	AttrFormat      = "tablecheck.format"
	AttrValidTable  = "tablecheck.valid_table"
	AttrDiagnostics = "tablecheck.diagnostics"
	AttrTableType   = "tablecheck.table_type"
	AttrMatrixType  = "tablecheck.matrix_type"
	AttrBackend     = "tablecheck.history.backend"
)

// SetFileAttributes records which file a span worked on.
func SetFileAttributes(span trace.Span, file, format string) {
	attrs := []attribute.KeyValue{attribute.String(AttrFile, file)}
	if format != "" {
		attrs = append(attrs, attribute.String(AttrFormat, format))
	}
	span.SetAttributes(attrs...)
}

// SetResultAttributes records the outcome of a validation.
func SetResultAttributes(span trace.Span, valid bool, diagnostics int) {
	span.SetAttributes(
		attribute.Bool(AttrValidTable, valid),
		attribute.Int(AttrDiagnostics, diagnostics),
	)
}

// SetTableAttributes records the declared type of a table. Empty values are
// skipped.
func SetTableAttributes(span trace.Span, tableType, matrixType string) {
	var attrs []attribute.KeyValue
	if tableType != "" {
		attrs = append(attrs, attribute.String(AttrTableType, tableType))
	}
	if matrixType != "" {
		attrs = append(attrs, attribute.String(AttrMatrixType, matrixType))
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}
