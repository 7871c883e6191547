package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biom-format/tablecheck/pkg/biom/validator"
	"github.com/biom-format/tablecheck/pkg/cli"
)

func testOptions(format cli.OutputFormat) validateOptions {
	return validateOptions{
		format:   format,
		progress: cli.NoProgress(),
	}
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	validPath := writeTable(t, dir, "valid.biom", validTable)
	invalidPath := writeTable(t, dir, "invalid.biom", invalidTable)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		want    []string
	}{
		{
			name: "valid table",
			args: []string{validPath},
			want: []string{validPath + ": valid"},
		},
		{
			name:    "invalid table",
			args:    []string{invalidPath},
			wantErr: cli.ErrInvalidTables,
			want:    []string{invalidPath + ": INVALID", "Biological Observation Matrix 0.9"},
		},
		{
			name:    "missing file",
			args:    []string{filepath.Join(dir, "missing.biom")},
			wantErr: cli.ErrInvalidTables,
			want:    []string{"missing.biom: ERROR"},
		},
		{
			name:    "mixed",
			args:    []string{validPath, invalidPath},
			wantErr: cli.ErrInvalidTables,
			want:    []string{validPath + ": valid", invalidPath + ": INVALID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChecker(validator.NewValidator(), false)

			var buf bytes.Buffer
			err := validateFiles(context.Background(), &buf, c, testOptions(cli.FormatText), tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("validateFiles() error = %v, want %v", err, tt.wantErr)
			}

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestValidateFiles_JSON(t *testing.T) {
	dir := t.TempDir()
	validPath := writeTable(t, dir, "valid.biom", validTable)
	invalidPath := writeTable(t, dir, "invalid.biom", invalidTable)

	c := newChecker(validator.NewValidator(), false)

	var buf bytes.Buffer
	err := validateFiles(context.Background(), &buf, c, testOptions(cli.FormatJSON), []string{validPath, invalidPath})
	if !errors.Is(err, cli.ErrInvalidTables) {
		t.Fatalf("validateFiles() error = %v, want ErrInvalidTables", err)
	}

	var reports []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &reports); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}

	if reports[0]["valid_table"] != true {
		t.Errorf("first report = %v, want valid", reports[0])
	}
	if lines, ok := reports[0]["report_lines"].([]any); !ok || len(lines) != 0 {
		t.Errorf("report_lines = %v, want empty list", reports[0]["report_lines"])
	}
	if _, ok := reports[0]["error"]; ok {
		t.Error("readable table report should not carry an error field")
	}

	if reports[1]["valid_table"] != false {
		t.Errorf("second report = %v, want invalid", reports[1])
	}
}

func TestValidateFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "a.biom", validTable)
	writeTable(t, dir, "nested/b.json", validTable)
	writeTable(t, dir, "readme.md", "# tables")

	c := newChecker(validator.NewValidator(), false)

	var buf bytes.Buffer
	if err := validateFiles(context.Background(), &buf, c, testOptions(cli.FormatText), []string{dir}); err != nil {
		t.Fatalf("validateFiles() error = %v", err)
	}

	if got := strings.Count(buf.String(), ": valid"); got != 2 {
		t.Errorf("validated %d tables, want 2:\n%s", got, buf.String())
	}
}

func TestValidateFiles_NoTables(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "readme.md", "# tables")

	c := newChecker(validator.NewValidator(), false)

	err := validateFiles(context.Background(), &bytes.Buffer{}, c, testOptions(cli.FormatText), []string{dir})
	if err == nil || !strings.Contains(err.Error(), "no tables found") {
		t.Errorf("validateFiles() error = %v, want no tables found", err)
	}
}

func TestValidateFiles_Stdin(t *testing.T) {
	c := newChecker(validator.NewValidator(), false)
	c.stdin = strings.NewReader(invalidTable)

	var buf bytes.Buffer
	err := validateFiles(context.Background(), &buf, c, testOptions(cli.FormatText), []string{stdinPath})
	if !errors.Is(err, cli.ErrInvalidTables) {
		t.Fatalf("validateFiles() error = %v, want ErrInvalidTables", err)
	}
	if !strings.HasPrefix(buf.String(), "-: INVALID") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestValidateFiles_FormatVersion(t *testing.T) {
	path := writeTable(t, t.TempDir(), "invalid.biom", invalidTable)

	v := validator.NewValidator().WithFormatVersion("Biological Observation Matrix 0.9")
	c := newChecker(v, false)

	var buf bytes.Buffer
	err := validateFiles(context.Background(), &buf, c, testOptions(cli.FormatText), []string{path})
	if !errors.Is(err, cli.ErrInvalidTables) {
		t.Fatalf("validateFiles() error = %v, want ErrInvalidTables", err)
	}
	// The format now matches, so only the data problem remains.
	if strings.Contains(buf.String(), "Biological Observation Matrix 0.9") {
		t.Errorf("format line reported despite matching version:\n%s", buf.String())
	}
}

func TestValidateFiles_Canceled(t *testing.T) {
	path := writeTable(t, t.TempDir(), "valid.biom", validTable)
	c := newChecker(validator.NewValidator(), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := validateFiles(ctx, &bytes.Buffer{}, c, testOptions(cli.FormatText), []string{path})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("validateFiles() error = %v, want context.Canceled", err)
	}
}
