package history

import (
	"context"
	"strings"
	"time"
)

// DefaultQueryLimit caps the number of records returned by Query when the
// query sets no limit.
const DefaultQueryLimit = 100

// Sort orders accepted by Query.SortOrder.
const (
	SortDescending = "DESC"
	SortAscending  = "ASC"
)

// Record is the stored outcome of validating one file.
type Record struct {
	// ID uniquely identifies the record. Backends assign one when empty.
	ID string `json:"id"`

	// File is the path of the validated table as given on the command line
	// or reported by the watcher.
	File string `json:"file"`

	// ValidTable is the validator verdict.
	ValidTable bool `json:"valid_table"`

	// ReportLines are the validator report lines, in order.
	ReportLines []string `json:"report_lines"`

	// DiagnosticCount is the number of problems found.
	DiagnosticCount int `json:"diagnostic_count"`

	// TableType and MatrixType are copied from the table when they are
	// strings, empty otherwise.
	TableType  string `json:"table_type,omitempty"`
	MatrixType string `json:"matrix_type,omitempty"`

	// FormatVersion is the format string the table was checked against.
	FormatVersion string `json:"format_version"`

	// CheckedAt is when validation finished.
	CheckedAt time.Time `json:"checked_at"`

	// Duration is how long validation took.
	Duration time.Duration `json:"duration"`
}

// Query filters history records. All set filters must match.
type Query struct {
	// IDs restricts results to the given record IDs.
	IDs []string

	// File matches the record path exactly.
	File string

	// Valid filters on the verdict when non-nil.
	Valid *bool

	// StartTime and EndTime bound CheckedAt, inclusive.
	StartTime *time.Time
	EndTime   *time.Time

	// Limit caps the number of records returned by Query.
	// Default: DefaultQueryLimit. Ignored by Count and Delete.
	Limit int

	// Offset skips records before returning results.
	Offset int

	// SortOrder is "DESC" (newest first, default) or "ASC".
	SortOrder string
}

// Ascending reports whether results should be returned oldest first.
func (q *Query) Ascending() bool {
	return strings.EqualFold(q.SortOrder, SortAscending)
}

// Storage persists validation history. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists a record. Records without an ID are assigned one.
	Store(ctx context.Context, record *Record) error

	// Query returns records matching the filters.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the filters and returns how many were
	// removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}
