package validator

import (
	"fmt"
	"strings"

	biomErrors "github.com/biom-format/tablecheck/pkg/biom/errors"
)

// maxObservedCounts bounds the per-entry counts listed in a length mismatch.
const maxObservedCounts = 50

// axis describes one of the two entry lists of a table.
type axis struct {
	field string // "rows" or "columns"
	label string // entry noun used in report lines
	dim   int    // index into shape
}

var (
	rowAxis    = axis{field: "rows", label: "Row", dim: 0}
	columnAxis = axis{field: "columns", label: "Column", dim: 1}
)

func checkRows(doc map[string]any) *biomErrors.DiagnosticList {
	return checkEntries(doc, rowAxis)
}

func checkColumns(doc map[string]any) *biomErrors.DiagnosticList {
	return checkEntries(doc, columnAxis)
}

// checkEntries validates every entry of a rows or columns list and the
// list's length against the declared shape.
func checkEntries(doc map[string]any, ax axis) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	val, ok := doc[ax.field]
	if !ok {
		return dl
	}

	entries, isList := asList(val)
	if !isList {
		dl.Addf(biomErrors.KindTypeMismatch, ax.field,
			"'%s' must be a list, found %s", ax.field, render(val))
		return dl
	}

	tableType, _ := doc["type"].(string)
	required := RequiredKeysFor(tableType)

	for idx, raw := range entries {
		checkEntry(dl, ax, idx, raw, required)
	}

	if nRows, nCols, usable := shapeOf(doc); usable {
		expected := nRows
		if ax.dim == 1 {
			expected = nCols
		}
		if int64(len(entries)) != expected {
			msg := fmt.Sprintf("Number of %s in '%s' is not equal to 'shape': found %d, expected %d",
				ax.field, ax.field, len(entries), expected)
			if observed := observedCounts(doc, ax); observed != "" {
				msg += "; " + observed
			}
			dl.Addf(biomErrors.KindCardinality, ax.field, "%s", msg)
		}
	}

	return dl
}

// checkEntry validates a single row or column entry. A missing required key
// and a present key with a bad value are reported differently.
func checkEntry(dl *biomErrors.DiagnosticList, ax axis, idx int, raw any, required []string) {
	entry, isMap := asMap(raw)
	if !isMap {
		dl.Addf(biomErrors.KindTypeMismatch, ax.field,
			"%s at index %d is not an object: %s", ax.label, idx, render(raw))
		return
	}

	for _, key := range required {
		if _, has := entry[key]; !has {
			dl.Addf(biomErrors.KindMissingField, ax.field,
				"%s at index %d is missing required key '%s'", ax.label, idx, key)
		}
	}

	if id, has := entry["id"]; has {
		if s, isStr := id.(string); !isStr || s == "" {
			dl.Addf(biomErrors.KindTypeMismatch, ax.field,
				"%s at index %d has an invalid id: %s", ax.label, idx, render(id))
		}
	}

	if md, has := entry["metadata"]; has {
		if k := kindOf(md); k != kindNull && k != kindMap {
			dl.Addf(biomErrors.KindTypeMismatch, ax.field,
				"%s at index %d has invalid metadata: expected null or an object, found %s",
				ax.label, idx, render(md))
		}
	}
}

// observedCounts describes how many elements "data" actually holds along ax.
// Dense tables report their row widths, sparse tables the number of entries
// per row or column index. It returns "" when data cannot be read.
func observedCounts(doc map[string]any, ax axis) string {
	data, isList := asList(doc["data"])
	if !isList {
		return ""
	}
	noun := strings.ToLower(ax.label)

	switch doc["matrix_type"] {
	case "dense":
		if ax.dim == 0 {
			return fmt.Sprintf("'data' has %d rows", len(data))
		}
		widths := make([]int, len(data))
		for i, raw := range data {
			if row, ok := asList(raw); ok {
				widths[i] = len(row)
			}
		}
		if len(widths) > maxObservedCounts {
			lo, hi := minMax(widths)
			return fmt.Sprintf("'data' row widths range from %d to %d over %d rows", lo, hi, len(widths))
		}
		return "'data' row widths " + renderCounts(widths)

	case "sparse":
		perIndex := make(map[int64]int)
		maxIdx := int64(-1)
		for _, raw := range data {
			entry, ok := asList(raw)
			if !ok || len(entry) != 3 || kindOf(entry[ax.dim]) != kindInt {
				continue
			}
			idx, ok := asInt(entry[ax.dim])
			if !ok || idx < 0 {
				continue
			}
			perIndex[idx]++
			maxIdx = max(maxIdx, idx)
		}
		if len(perIndex) == 0 {
			return fmt.Sprintf("'data' has no entries with a valid %s index", noun)
		}
		if maxIdx >= maxObservedCounts {
			return fmt.Sprintf("'data' has entries in %d distinct %s", len(perIndex), ax.field)
		}
		counts := make([]int, maxIdx+1)
		for idx, n := range perIndex {
			counts[idx] = n
		}
		return fmt.Sprintf("'data' entries per %s %s", noun, renderCounts(counts))
	}
	return ""
}

func renderCounts(counts []int) string {
	items := make([]any, len(counts))
	for i, n := range counts {
		items[i] = n
	}
	return render(items)
}

func minMax(xs []int) (lo, hi int) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return lo, hi
}
