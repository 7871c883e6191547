package validator

import (
	"fmt"
	"slices"
	"time"

	biomErrors "github.com/biom-format/tablecheck/pkg/biom/errors"
)

// checkRequiredFields reports every absent top-level key. It is the only
// check that reports absence; the others skip fields that are not there.
func checkRequiredFields(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	for _, name := range requiredFields {
		if _, ok := doc[name]; !ok {
			dl.AddWithSuggestion(
				biomErrors.KindMissingField,
				name,
				fmt.Sprintf("Missing field: '%s'", name),
				biomErrors.SuggestMissingField(name, ""),
			)
		}
	}

	return dl
}

func checkFormatURL(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	val, ok := doc["format_url"]
	if !ok {
		return dl
	}
	if s, isStr := val.(string); !isStr || s != FormatURL {
		dl.Addf(biomErrors.KindFormat, "format_url",
			"Invalid format_url %s: expected '%s'", render(val), FormatURL)
	}

	return dl
}

func (v *Validator) checkFormat(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	val, ok := doc["format"]
	if !ok {
		return dl
	}
	if s, isStr := val.(string); !isStr || s != v.formatVersion {
		dl.Addf(biomErrors.KindFormat, "format",
			"Invalid format %s: expected '%s'", render(val), v.formatVersion)
	}

	return dl
}

func checkType(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	val, ok := doc["type"]
	if !ok {
		return dl
	}

	s, isStr := val.(string)
	if !isStr {
		dl.Addf(biomErrors.KindTypeMismatch, "type",
			"Table type must be a string, found %s", render(val))
		return dl
	}
	if !slices.Contains(TableTypes, lower(s)) {
		dl.AddWithSuggestion(
			biomErrors.KindEnumeration,
			"type",
			fmt.Sprintf("Unknown table type: %s", render(val)),
			biomErrors.SuggestValue(s, TableTypes),
		)
	}

	return dl
}

func checkGeneratedBy(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	val, ok := doc["generated_by"]
	if !ok {
		return dl
	}
	if s, isStr := val.(string); !isStr || s == "" {
		dl.Addf(biomErrors.KindTypeMismatch, "generated_by",
			"'generated_by' must be a non-empty string, found %s", render(val))
	}

	return dl
}

func checkDate(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	val, ok := doc["date"]
	if !ok {
		return dl
	}

	s, isStr := val.(string)
	if isStr && parseDate(s) {
		return dl
	}
	dl.Addf(biomErrors.KindFormat, "date",
		"Invalid datetime %s: expected 'YYYY-MM-DDTHH:MM:SS' or 'DD-MM-YYYY HH:MM:SS'", render(val))

	return dl
}

// parseDate reports whether s matches one of dateLayouts.
func parseDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func checkShape(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	val, ok := doc["shape"]
	if !ok {
		return dl
	}

	dims, isList := asList(val)
	if !isList || len(dims) != 2 || kindOf(dims[0]) != kindInt || kindOf(dims[1]) != kindInt {
		dl.Addf(biomErrors.KindTypeMismatch, "shape",
			"'shape' must be a list of two integers, found %s", render(val))
		return dl
	}
	for _, d := range dims {
		n, fits := asInt(d)
		switch {
		case !fits:
			dl.Addf(biomErrors.KindBounds, "shape",
				"'shape' value %s is out of range, found %s", render(d), render(val))
			return dl
		case n < 0:
			dl.Addf(biomErrors.KindBounds, "shape",
				"'shape' values must be non-negative, found %s", render(val))
			return dl
		}
	}

	return dl
}

// shapeOf returns the declared dimensions when "shape" holds two
// non-negative integers.
func shapeOf(doc map[string]any) (nRows, nCols int64, ok bool) {
	dims, isList := asList(doc["shape"])
	if !isList || len(dims) != 2 {
		return 0, 0, false
	}

	nRows, rowsOK := asInt(dims[0])
	nCols, colsOK := asInt(dims[1])
	if !rowsOK || !colsOK || nRows < 0 || nCols < 0 {
		return 0, 0, false
	}
	return nRows, nCols, true
}

func checkMatrixType(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	val, ok := doc["matrix_type"]
	if !ok {
		return dl
	}

	// Unlike the other enumerations, matrix_type is matched case-sensitively.
	s, isStr := val.(string)
	if isStr && slices.Contains(MatrixTypes, s) {
		return dl
	}
	dl.AddWithSuggestion(
		biomErrors.KindEnumeration,
		"matrix_type",
		fmt.Sprintf("Unknown matrix type: %s", render(val)),
		biomErrors.SuggestValue(s, MatrixTypes),
	)

	return dl
}

func checkMatrixElementType(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	val, ok := doc["matrix_element_type"]
	if !ok {
		return dl
	}
	if _, known := elementTypeOf(doc); known {
		return dl
	}

	s, _ := val.(string)
	dl.AddWithSuggestion(
		biomErrors.KindEnumeration,
		"matrix_element_type",
		fmt.Sprintf("Unknown matrix element type: %s", render(val)),
		biomErrors.SuggestValue(s, ElementTypes),
	)

	return dl
}

// elementTypeOf returns the lowercased matrix_element_type when it is one
// of ElementTypes.
func elementTypeOf(doc map[string]any) (string, bool) {
	s, isStr := doc["matrix_element_type"].(string)
	if !isStr {
		return "", false
	}
	s = lower(s)
	if _, known := elementCompatibility[s]; !known {
		return "", false
	}
	return s, true
}
