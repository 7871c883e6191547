// Package validator checks that a parsed BIOM 1.0 table conforms to the
// schema.
//
// The validator runs a fixed, ordered checklist over the document:
//
//  1. required-field presence
//  2. format_url
//  3. format (expected version is configurable)
//  4. type
//  5. generated_by
//  6. date
//  7. shape
//  8. rows
//  9. columns
//  10. matrix_type
//  11. matrix_element_type
//  12. data (sparse or dense, by matrix_type)
//
// Every check runs regardless of earlier failures. A check never fails on a
// missing or malformed field; it reports a diagnostic and moves on. Absent
// fields are reported once, by the presence check.
//
// # Basic Usage
//
//	v := validator.NewValidator()
//	result := v.Validate(doc, false)
//	if !result.ValidTable {
//	    for _, line := range result.ReportLines {
//	        fmt.Println(line)
//	    }
//	}
//
// Documents come from encoding/json (decode with UseNumber so 1 and 1.0
// stay distinct) or yaml.v3; see the loader package.
//
// # Element Types
//
// Values in the matrix payload must match matrix_element_type:
//
//	int    integers only
//	float  integers or floats
//	str    strings only
//
// Sparse coordinates must be integers; a whole-valued float such as 1.0 is
// still rejected.
//
// # Required Keys
//
// Row and column entries always need "id". OTU and taxon tables also need
// a "metadata" key on every entry, even when its value is null.
package validator
