// Package loader reads BIOM tables from disk into the generic document form
// consumed by the validator.
//
// JSON tables (.json, .biom) are decoded with json.Number so that integer and
// floating point literals stay distinguishable: 1 is an integer, 1.0 is a
// float. YAML tables (.yaml, .yml) are decoded with gopkg.in/yaml.v3, which
// resolves the same distinction from the scalar itself.
//
// Basic usage:
//
//	doc, err := loader.Load("table.biom")
//	if err != nil {
//	    return err
//	}
//	result := validator.NewValidator().Validate(doc, true)
//
// HDF5 encoded tables (BIOM 2.x) are not supported.
package loader
