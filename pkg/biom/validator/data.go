package validator

import (
	biomErrors "github.com/biom-format/tablecheck/pkg/biom/errors"
)

// checkData dispatches payload validation on matrix_type.
func checkData(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	if _, ok := doc["data"]; !ok {
		return dl
	}
	matrixType, ok := doc["matrix_type"]
	if !ok {
		return dl
	}

	s, _ := matrixType.(string)
	switch s {
	case MatrixTypeSparse:
		return checkSparseData(doc)
	case MatrixTypeDense:
		return checkDenseData(doc)
	}

	dl.Addf(biomErrors.KindEnumeration, "data",
		"Cannot validate 'data': unknown matrix type %s", render(matrixType))
	return dl
}

// checkSparseData validates (row, column, value) triples. Each offending
// triple yields exactly one diagnostic.
func checkSparseData(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	entries, isList := asList(doc["data"])
	if !isList {
		dl.Addf(biomErrors.KindTypeMismatch, "data",
			"'data' must be a list of [row, column, value] entries, found %s", render(doc["data"]))
		return dl
	}

	nRows, nCols, haveShape := shapeOf(doc)
	elementType, haveType := elementTypeOf(doc)

	for idx, raw := range entries {
		coord, isList := asList(raw)
		if !isList || len(coord) != 3 {
			dl.Addf(biomErrors.KindCardinality, "data",
				"Sparse entry at index %d is not a [row, column, value] triple: %s", idx, render(raw))
			continue
		}

		if kindOf(coord[0]) != kindInt || kindOf(coord[1]) != kindInt {
			dl.Addf(biomErrors.KindTypeMismatch, "data",
				"Sparse entry at index %d has non-integer coordinates: %s", idx, render(raw))
			continue
		}

		if haveShape && (!inBounds(coord[0], nRows) || !inBounds(coord[1], nCols)) {
			dl.Addf(biomErrors.KindBounds, "data",
				"Sparse entry at index %d is outside 'shape': %s", idx, render(raw))
			continue
		}

		if haveType && !compatible(elementType, coord[2]) {
			dl.Addf(biomErrors.KindTypeMismatch, "data",
				"Sparse entry at index %d has a value that is not of type '%s': %s",
				idx, elementType, render(raw))
		}
	}

	return dl
}

// checkDenseData validates a row-major matrix against shape and element type.
// Only the first row of the wrong width is reported, rendered in full.
func checkDenseData(doc map[string]any) *biomErrors.DiagnosticList {
	dl := biomErrors.NewDiagnosticList()

	rows, isList := asList(doc["data"])
	if !isList {
		dl.Addf(biomErrors.KindTypeMismatch, "data",
			"'data' must be a list of rows, found %s", render(doc["data"]))
		return dl
	}

	nRows, nCols, haveShape := shapeOf(doc)
	elementType, haveType := elementTypeOf(doc)

	if haveShape && int64(len(rows)) != nRows {
		dl.Addf(biomErrors.KindCardinality, "data",
			"Incorrect number of rows: found %d, expected %d", len(rows), nRows)
	}

	widthReported := false
	for idx, raw := range rows {
		row, isList := asList(raw)
		if !isList {
			dl.Addf(biomErrors.KindTypeMismatch, "data",
				"Dense row at index %d is not a list: %s", idx, render(raw))
			continue
		}

		if haveShape && !widthReported && int64(len(row)) != nCols {
			dl.Addf(biomErrors.KindCardinality, "data",
				"Incorrect number of cols: %s", render(row))
			widthReported = true
		}

		if !haveType {
			continue
		}
		for _, cell := range row {
			if !compatible(elementType, cell) {
				dl.Addf(biomErrors.KindTypeMismatch, "data",
					"Dense row at index %d has values that are not of type '%s': %s",
					idx, elementType, render(row))
				break
			}
		}
	}

	return dl
}

// inBounds reports whether the integer-kinded v lies in [0, limit).
func inBounds(v any, limit int64) bool {
	n, ok := asInt(v)
	return ok && n >= 0 && n < limit
}
