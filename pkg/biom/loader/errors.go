package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNotObject is returned when the top-level value of a table is not a mapping.
	ErrNotObject = errors.New("top-level value is not an object")

	// ErrTrailingData is returned when a JSON table holds more than one value.
	ErrTrailingData = errors.New("unexpected data after top-level value")
)

// LoadError reports a table that could not be read or decoded.
type LoadError struct {
	Path   string
	Format Format
	Cause  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to decode %s table: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("failed to load %s table %s: %v", e.Format, e.Path, e.Cause)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Cause
}
