// Package errors provides the diagnostic types produced by the BIOM table
// validator.
//
// A diagnostic is a finding, not a Go failure: validation never aborts, it
// accumulates every problem it sees into a DiagnosticList and the caller
// decides what to do with them.
//
// # Kinds
//
// KindMissingField: a required top-level key is absent
//
// KindTypeMismatch: a value has the wrong runtime type
//
// KindBounds: an index or count is out of range
//
// KindEnumeration: a value is not one of a fixed set of names
//
// KindCardinality: lengths disagree with the declared shape
//
// KindFormat: version string, URL or timestamp mismatch
//
// # Basic Usage
//
//	dl := errors.NewDiagnosticList()
//	dl.Addf(errors.KindMissingField, "date", "Missing field: '%s'", "date")
//
//	for _, line := range dl.Messages() {
//	    fmt.Println(line)
//	}
//
// # Suggestions
//
// Enumeration findings carry a suggestion computed with Levenshtein distance:
//
//	errors.SuggestValue("Sparse", []string{"sparse", "dense"})
//	// Returns: "Did you mean 'sparse'?"
package errors
