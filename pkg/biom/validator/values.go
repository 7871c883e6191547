package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// valueKind is the runtime category of a decoded document value.
type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindInt
	kindFloat
	kindString
	kindList
	kindMap
	kindOther
)

// kindOf classifies a value produced by encoding/json or yaml.v3 decoding.
// json.Number is an integer when its literal has no fraction or exponent.
func kindOf(v any) valueKind {
	switch x := v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindInt
	case float32, float64:
		return kindFloat
	case json.Number:
		if strings.ContainsAny(string(x), ".eE") {
			return kindFloat
		}
		return kindInt
	case string:
		return kindString
	case []any:
		return kindList
	case map[string]any, map[any]any:
		return kindMap
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return kindList
	case reflect.Map:
		return kindMap
	}
	return kindOther
}

// asList returns v as a []any if it is a list of any element type.
func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	if kindOf(v) != kindList {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

// asMap returns v as a map keyed by string if it is a mapping. Non-string
// keys are stringified.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	if kindOf(v) != kindMap {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}

// asInt returns the value of an integer-kinded v. Unsigned values beyond
// the int64 range saturate at math.MaxInt64.
func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return saturate(uint64(x)), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return saturate(x), true
	case json.Number:
		if kindOf(x) != kindInt {
			return 0, false
		}
		n, err := strconv.ParseInt(string(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func saturate(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

// compatible reports whether v may appear in a matrix whose declared
// element type is elementType.
func compatible(elementType string, v any) bool {
	return elementCompatibility[elementType][kindOf(v)]
}

func lower(s string) string {
	return strings.ToLower(s)
}

// render formats a value for a report line: lists as [a, b], strings
// single-quoted, whole floats with a trailing .0.
func render(v any) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("null")
		return
	case bool:
		sb.WriteString(strconv.FormatBool(x))
		return
	case string:
		sb.WriteString("'" + x + "'")
		return
	case json.Number:
		sb.WriteString(string(x))
		return
	case float32:
		sb.WriteString(formatFloat(float64(x)))
		return
	case float64:
		sb.WriteString(formatFloat(x))
		return
	}

	switch kindOf(v) {
	case kindInt:
		n, _ := asInt(v)
		sb.WriteString(strconv.FormatInt(n, 10))
	case kindList:
		list, _ := asList(v)
		sb.WriteString("[")
		for i, item := range list {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeValue(sb, item)
		}
		sb.WriteString("]")
	case kindMap:
		m, _ := asMap(v)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("'" + k + "': ")
			writeValue(sb, m[k])
		}
		sb.WriteString("}")
	default:
		sb.WriteString(fmt.Sprint(v))
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
