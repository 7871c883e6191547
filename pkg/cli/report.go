package cli

import (
	biomErrors "github.com/biom-format/tablecheck/pkg/biom/errors"
	"github.com/biom-format/tablecheck/pkg/biom/validator"
)

// FileReport is the outcome of checking one file, as printed by validate.
type FileReport struct {
	File        string   `json:"file"`
	ValidTable  bool     `json:"valid_table"`
	ReportLines []string `json:"report_lines"`

	// Error is set when the file could not be read or parsed; the table
	// was not validated.
	Error string `json:"error,omitempty"`

	// Suggestions are "did you mean" hints. They are printed by the text
	// formatter only.
	Suggestions []string `json:"-"`
}

// NewFileReport builds a report from a validation result and its
// diagnostics.
func NewFileReport(file string, result *validator.Result, diagnostics *biomErrors.DiagnosticList) FileReport {
	report := FileReport{
		File:        file,
		ValidTable:  result.ValidTable,
		ReportLines: result.ReportLines,
	}
	if report.ReportLines == nil {
		report.ReportLines = []string{}
	}
	if diagnostics != nil {
		for _, d := range diagnostics.Diagnostics {
			if d.Suggestion != "" {
				report.Suggestions = append(report.Suggestions, d.Suggestion)
			}
		}
	}
	return report
}

// NewErrorReport builds a report for a file that could not be loaded.
func NewErrorReport(file string, err error) FileReport {
	return FileReport{
		File:        file,
		ReportLines: []string{},
		Error:       err.Error(),
	}
}

// Failed reports whether the file was unreadable or invalid.
func (r FileReport) Failed() bool {
	return r.Error != "" || !r.ValidTable
}
