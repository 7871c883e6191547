package validator

import (
	biomErrors "github.com/biom-format/tablecheck/pkg/biom/errors"
)

// Result is the verdict for a single table.
type Result struct {
	ValidTable  bool     `json:"valid_table"`
	ReportLines []string `json:"report_lines"`
}

// check is one entry of the ordered checklist. Each check inspects the
// document and returns the diagnostics it found; passed is the report line
// used in detailed mode when it found none.
type check struct {
	passed string
	run    func(doc map[string]any) *biomErrors.DiagnosticList
}

// Validator validates BIOM tables against the fixed 1.0 schema.
// It holds no per-call state and is safe for concurrent use once configured.
type Validator struct {
	formatVersion string
	checks        []check
}

// NewValidator creates a validator expecting DefaultFormatVersion.
func NewValidator() *Validator {
	v := &Validator{formatVersion: DefaultFormatVersion}

	v.checks = []check{
		{passed: "All required fields are present", run: checkRequiredFields},
		{passed: "Valid 'format_url' field", run: checkFormatURL},
		{passed: "Valid 'format' field", run: v.checkFormat},
		{passed: "Valid 'type' field", run: checkType},
		{passed: "Valid 'generated_by' field", run: checkGeneratedBy},
		{passed: "Valid 'date' field", run: checkDate},
		{passed: "Valid 'shape' field", run: checkShape},
		{passed: "Valid 'rows' field", run: checkRows},
		{passed: "Valid 'columns' field", run: checkColumns},
		{passed: "Valid 'matrix_type' field", run: checkMatrixType},
		{passed: "Valid 'matrix_element_type' field", run: checkMatrixElementType},
		{passed: "Valid 'data' field", run: checkData},
	}

	return v
}

// WithFormatVersion sets the expected value of the "format" field.
// Call it before the validator is shared.
func (v *Validator) WithFormatVersion(version string) *Validator {
	v.formatVersion = version
	return v
}

// FormatVersion returns the expected value of the "format" field.
func (v *Validator) FormatVersion() string {
	return v.formatVersion
}

// Validate runs every check against doc and returns the verdict.
// When detailed is true, each passing check also contributes a report line.
func (v *Validator) Validate(doc map[string]any, detailed bool) *Result {
	result, _ := v.Inspect(doc, detailed)
	return result
}

// Inspect is Validate that also returns the typed diagnostics behind the
// report lines.
func (v *Validator) Inspect(doc map[string]any, detailed bool) (*Result, *biomErrors.DiagnosticList) {
	all := biomErrors.NewDiagnosticList()
	lines := make([]string, 0)

	for _, c := range v.checks {
		found := c.run(doc)
		if found.HasErrors() {
			all.Append(found)
			lines = append(lines, found.Messages()...)
			continue
		}
		if detailed {
			lines = append(lines, c.passed)
		}
	}

	return &Result{
		ValidTable:  !all.HasErrors(),
		ReportLines: lines,
	}, all
}
