package validator

// Schema constants for BIOM 1.0 tables.
const (
	// FormatURL is the only accepted value of the "format_url" field.
	FormatURL = "http://biom-format.org"

	// DefaultFormatVersion is the expected value of the "format" field unless
	// overridden with WithFormatVersion.
	DefaultFormatVersion = "Biological Observation Matrix 1.0.0"

	MatrixTypeSparse = "sparse"
	MatrixTypeDense  = "dense"

	ElementTypeInt   = "int"
	ElementTypeFloat = "float"
	ElementTypeStr   = "str"
)

var (
	// TableTypes lists the recognized table types, lowercased.
	TableTypes = []string{
		"otu table",
		"pathway table",
		"function table",
		"ortholog table",
		"gene table",
		"metabolite table",
		"taxon table",
	}

	// MatrixTypes lists the accepted matrix_type values. Matching is case-sensitive.
	MatrixTypes = []string{MatrixTypeSparse, MatrixTypeDense}

	// ElementTypes lists the accepted matrix_element_type values, lowercased.
	ElementTypes = []string{ElementTypeInt, ElementTypeFloat, ElementTypeStr}

	// requiredFields are the top-level keys every table must carry, in report order.
	requiredFields = []string{
		"id",
		"format",
		"format_url",
		"type",
		"generated_by",
		"date",
		"matrix_type",
		"matrix_element_type",
		"shape",
		"rows",
		"columns",
		"data",
	}

	// requiredEntryKeys maps a lowercased table type to the keys that must be
	// present on every row and column entry. Types not listed use defaultEntryKeys.
	requiredEntryKeys = map[string][]string{
		"otu table":   {"id", "metadata"},
		"taxon table": {"id", "metadata"},
	}

	defaultEntryKeys = []string{"id"}

	// elementCompatibility is keyed by declared element type, then by the
	// observed value kind. Integers widen to float.
	elementCompatibility = map[string]map[valueKind]bool{
		ElementTypeInt:   {kindInt: true},
		ElementTypeFloat: {kindInt: true, kindFloat: true},
		ElementTypeStr:   {kindString: true},
	}

	// dateLayouts are tried in order; the first successful parse wins.
	dateLayouts = []string{
		"2006-01-02T15:04:05", // YYYY-MM-DDTHH:MM:SS
		"02-01-2006 15:04:05", // DD-MM-YYYY HH:MM:SS
	}
)

// RequiredKeysFor returns the keys every row and column entry must carry for
// the given table type. The lookup is case-insensitive.
func RequiredKeysFor(tableType string) []string {
	keys, ok := requiredEntryKeys[lower(tableType)]
	if !ok {
		keys = defaultEntryKeys
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}
