package main

import (
	"os"
	"path/filepath"
	"testing"
)

const validTable = `{
    "id": null,
    "format": "Biological Observation Matrix 1.0.0",
    "format_url": "http://biom-format.org",
    "type": "OTU table",
    "generated_by": "QIIME revision XYZ",
    "date": "2011-12-19T19:00:00",
    "rows": [
        {"id": "GG_OTU_1", "metadata": null},
        {"id": "GG_OTU_2", "metadata": null}
    ],
    "columns": [
        {"id": "Sample1", "metadata": null},
        {"id": "Sample2", "metadata": null},
        {"id": "Sample3", "metadata": null}
    ],
    "matrix_type": "sparse",
    "matrix_element_type": "int",
    "shape": [2, 3],
    "data": [[0, 2, 1], [1, 0, 5]]
}`

// invalidTable has the wrong format string and an out-of-range triple.
const invalidTable = `{
    "id": null,
    "format": "Biological Observation Matrix 0.9",
    "format_url": "http://biom-format.org",
    "type": "OTU table",
    "generated_by": "QIIME revision XYZ",
    "date": "2011-12-19T19:00:00",
    "rows": [{"id": "GG_OTU_1", "metadata": null}],
    "columns": [{"id": "Sample1", "metadata": null}],
    "matrix_type": "sparse",
    "matrix_element_type": "int",
    "shape": [1, 1],
    "data": [[3, 0, 1]]
}`

// writeTable writes content to name below dir and returns its path.
func writeTable(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}
	return path
}
