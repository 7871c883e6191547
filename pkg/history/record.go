package history

import (
	"time"

	"github.com/biom-format/tablecheck/pkg/biom/validator"
)

// NewRecord builds a record from a validation result. The table is only read
// for its type and matrix_type, which are kept when they are strings.
func NewRecord(file string, table map[string]any, result *validator.Result, diagnostics int, formatVersion string, checkedAt time.Time, duration time.Duration) *Record {
	record := &Record{
		File:            file,
		ValidTable:      result.ValidTable,
		ReportLines:     append([]string(nil), result.ReportLines...),
		DiagnosticCount: diagnostics,
		FormatVersion:   formatVersion,
		CheckedAt:       checkedAt,
		Duration:        duration,
	}
	if s, ok := table["type"].(string); ok {
		record.TableType = s
	}
	if s, ok := table["matrix_type"].(string); ok {
		record.MatrixType = s
	}
	return record
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.ReportLines = append([]string(nil), r.ReportLines...)
	return &c
}
