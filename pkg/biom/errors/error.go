package errors

import (
	"fmt"
	"strings"
)

// Kind categorizes a diagnostic produced while validating a table.
type Kind string

const (
	KindMissingField Kind = "missing_field" // Required top-level key absent
	KindTypeMismatch Kind = "type_mismatch" // Value has the wrong runtime type
	KindBounds       Kind = "bounds"        // Index or value outside its allowed range
	KindEnumeration  Kind = "enumeration"   // Value not in a fixed set of names
	KindCardinality  Kind = "cardinality"   // Length or shape disagreement
	KindFormat       Kind = "format"        // Version, URL or timestamp mismatch
)

// Diagnostic is a single validation finding. Message is the human-readable
// report line; Field names the top-level key the finding belongs to.
type Diagnostic struct {
	Kind       Kind   // Category of the finding
	Field      string // Top-level document key
	Message    string // Report line
	Suggestion string // Suggested fix (optional, never part of the report line)
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", d.Kind, d.Message))
	if d.Suggestion != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", d.Suggestion))
	}

	return sb.String()
}

// DiagnosticList accumulates diagnostics in the order they were found.
type DiagnosticList struct {
	Diagnostics []*Diagnostic
}

// NewDiagnosticList creates a new empty diagnostic list.
func NewDiagnosticList() *DiagnosticList {
	return &DiagnosticList{
		Diagnostics: make([]*Diagnostic, 0),
	}
}

// Add appends a diagnostic to the list.
func (dl *DiagnosticList) Add(d *Diagnostic) {
	dl.Diagnostics = append(dl.Diagnostics, d)
}

// Addf creates and adds a diagnostic with a formatted message.
func (dl *DiagnosticList) Addf(kind Kind, field, format string, args ...any) {
	dl.Add(&Diagnostic{
		Kind:    kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// AddWithSuggestion creates and adds a diagnostic with a suggestion.
func (dl *DiagnosticList) AddWithSuggestion(kind Kind, field, message, suggestion string) {
	dl.Add(&Diagnostic{
		Kind:       kind,
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
	})
}

// Append adds every diagnostic of other to the list.
func (dl *DiagnosticList) Append(other *DiagnosticList) {
	if other == nil {
		return
	}
	dl.Diagnostics = append(dl.Diagnostics, other.Diagnostics...)
}

// HasErrors returns true if the list contains any diagnostics.
func (dl *DiagnosticList) HasErrors() bool {
	return len(dl.Diagnostics) > 0
}

// Count returns the number of diagnostics in the list.
func (dl *DiagnosticList) Count() int {
	return len(dl.Diagnostics)
}

// Messages returns the report lines of all diagnostics, in order.
func (dl *DiagnosticList) Messages() []string {
	lines := make([]string, 0, len(dl.Diagnostics))
	for _, d := range dl.Diagnostics {
		lines = append(lines, d.Message)
	}
	return lines
}

// Error implements the error interface.
func (dl *DiagnosticList) Error() string {
	if !dl.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problem(s):\n", dl.Count()))

	for _, d := range dl.Diagnostics {
		sb.WriteString("  ")
		sb.WriteString(d.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (dl *DiagnosticList) ToError() error {
	if !dl.HasErrors() {
		return nil
	}
	return dl
}

// ByKind returns all diagnostics of the given kind.
func (dl *DiagnosticList) ByKind(kind Kind) []*Diagnostic {
	var result []*Diagnostic
	for _, d := range dl.Diagnostics {
		if d.Kind == kind {
			result = append(result, d)
		}
	}
	return result
}

// HasKind returns true if the list contains at least one diagnostic of the given kind.
func (dl *DiagnosticList) HasKind(kind Kind) bool {
	for _, d := range dl.Diagnostics {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// CountByKind returns the number of diagnostics per kind.
func (dl *DiagnosticList) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, d := range dl.Diagnostics {
		counts[d.Kind]++
	}
	return counts
}
