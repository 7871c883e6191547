package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/biom-format/tablecheck/pkg/history"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output, one line per file or record.
	FormatCSV OutputFormat = "csv"
)

// ParseOutputFormat validates a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unsupported output format %q (want text, json or csv)", s))
	}
}

// Formatter formats command output.
type Formatter interface {
	Format(data any) ([]byte, error)
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats output for people. File reports and history records
// get a dedicated layout; anything else is printed with %v.
type TextFormatter struct{}

// Format converts data to text format.
func (f *TextFormatter) Format(data any) ([]byte, error) {
	var sb strings.Builder
	if err := f.FormatTo(&sb, data); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case []FileReport:
		for _, r := range v {
			if err := writeFileReport(w, r); err != nil {
				return err
			}
		}
		return nil
	case []*history.Record:
		return writeRecords(w, v)
	default:
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
}

func writeFileReport(w io.Writer, r FileReport) error {
	var sb strings.Builder
	switch {
	case r.Error != "":
		fmt.Fprintf(&sb, "%s: ERROR\n  %s\n", r.File, r.Error)
	case r.ValidTable:
		fmt.Fprintf(&sb, "%s: valid\n", r.File)
	default:
		fmt.Fprintf(&sb, "%s: INVALID\n", r.File)
	}
	for _, line := range r.ReportLines {
		fmt.Fprintf(&sb, "  %s\n", line)
	}
	for _, s := range r.Suggestions {
		fmt.Fprintf(&sb, "  hint: %s\n", s)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRecords(w io.Writer, records []*history.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no history records")
		return err
	}

	var sb strings.Builder
	for _, r := range records {
		verdict := "valid"
		if !r.ValidTable {
			verdict = "INVALID"
		}
		fmt.Fprintf(&sb, "%s  %-7s  %3d  %s\n",
			r.CheckedAt.Local().Format(time.DateTime), verdict, r.DiagnosticCount, r.File)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts data to JSON format.
func (f *JSONFormatter) Format(data any) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats file reports and history records as CSV. Report
// lines are joined with "; " into one column.
type CSVFormatter struct{}

var (
	reportHeaders = []string{"file", "valid_table", "report_lines", "error"}
	recordHeaders = []string{"id", "file", "valid_table", "diagnostic_count", "table_type", "matrix_type", "checked_at", "duration_ms", "report_lines"}
)

// Format converts data to CSV format.
func (f *CSVFormatter) Format(data any) ([]byte, error) {
	var sb strings.Builder
	if err := f.FormatTo(&sb, data); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	csvWriter := csv.NewWriter(w)

	switch v := data.(type) {
	case []FileReport:
		if err := csvWriter.Write(reportHeaders); err != nil {
			return err
		}
		for _, r := range v {
			row := []string{r.File, strconv.FormatBool(r.ValidTable), strings.Join(r.ReportLines, "; "), r.Error}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
	case []*history.Record:
		if err := csvWriter.Write(recordHeaders); err != nil {
			return err
		}
		for _, r := range v {
			row := []string{
				r.ID,
				r.File,
				strconv.FormatBool(r.ValidTable),
				strconv.Itoa(r.DiagnosticCount),
				r.TableType,
				r.MatrixType,
				r.CheckedAt.UTC().Format(time.RFC3339Nano),
				strconv.FormatFloat(float64(r.Duration)/float64(time.Millisecond), 'f', 3, 64),
				strings.Join(r.ReportLines, "; "),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("CSV output is not supported for %T", data)
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}
