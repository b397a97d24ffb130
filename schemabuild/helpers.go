package schemabuild

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var (
	uuidRegex     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	dateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
)

func isValidURI(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.Contains(s, "://")
}

// schemaTypes reads the "type" keyword, returning it as a slice regardless
// of whether the document spelled it as a bare string (the common case) or
// a 3.1-style type array.
func schemaTypes(schema map[string]any) []string {
	switch t := schema["type"].(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, entry := range t {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	default:
		return nil
	}
}

// dataTypeOf returns the JSON-Schema type name of a decoded Go value.
func dataTypeOf(value any) string {
	if value == nil {
		return "null"
	}
	switch value.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case int, int32, int64, uint, uint32, uint64:
		return "integer"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return "array"
		case reflect.Map:
			return "object"
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return "integer"
		case reflect.Float32, reflect.Float64:
			return "number"
		case reflect.String:
			return "string"
		case reflect.Bool:
			return "boolean"
		}
		return "unknown"
	}
}

// typeMatches reports whether a decoded value's type satisfies a schema
// type keyword. "integer" accepts whole-valued "number" data because JSON
// has only one number type; the caller still checks for a fractional part
// separately.
func typeMatches(dataType, schemaType string) bool {
	if dataType == schemaType {
		return true
	}
	if schemaType == "number" && dataType == "integer" {
		return true
	}
	if schemaType == "integer" && dataType == "number" {
		return true
	}
	return false
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func hasDuplicates(arr []any) bool {
	seen := make(map[string]bool, len(arr))
	for _, item := range arr {
		key := fmt.Sprintf("%T:%v", item, item)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

// floatField reads a numeric schema keyword. YAML/JSON decoding always
// produces float64 for bare numbers; an int fallback covers values a
// caller constructed programmatically (e.g. in a test fixture).
func floatField(schema map[string]any, key string) (float64, bool) {
	switch v := schema[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func intField(schema map[string]any, key string) (int, bool) {
	switch v := schema[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
