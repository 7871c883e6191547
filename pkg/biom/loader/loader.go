package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the serialization of a table file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extensions lists the file extensions recognized as tables.
var Extensions = []string{".biom", ".json", ".yaml", ".yml"}

// DetectFormat picks the decoder for path from its extension. Anything that
// is not YAML is treated as JSON, which is how BIOM 1.0 files are written.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// IsTable reports whether path has one of the recognized table extensions.
func IsTable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads and decodes the table at path.
func Load(path string) (map[string]any, error) {
	format := DetectFormat(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Format: format, Cause: err}
	}

	doc, err := decode(data, format)
	if err != nil {
		return nil, &LoadError{Path: path, Format: format, Cause: err}
	}
	return doc, nil
}

// Decode reads a whole table from r.
func Decode(r io.Reader, format Format) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Format: format, Cause: err}
	}

	doc, err := decode(data, format)
	if err != nil {
		return nil, &LoadError{Format: format, Cause: err}
	}
	return doc, nil
}

func decode(data []byte, format Format) (map[string]any, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func decodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return doc, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	doc, ok := normalize(v).(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return doc, nil
}

// normalize rewrites mappings with non-string keys into string-keyed maps so
// YAML documents have the same shape as JSON ones.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalize(val)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range x {
			x[i] = normalize(val)
		}
		return x
	default:
		return v
	}
}
