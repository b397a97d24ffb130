package reqguard

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/erraggy/oashttpguard/primitive"
)

// Location is the position of a parameter within the request, per OpenAPI's
// "in" field.
type Location int

const (
	Header Location = iota
	Query
	Path
	Cookie
)

func (l Location) String() string {
	switch l {
	case Header:
		return "header"
	case Query:
		return "query"
	case Path:
		return "path"
	case Cookie:
		return "cookie"
	default:
		return "unknown"
	}
}

// defaultStyle and defaultExplode give each location's style/explode
// defaults per the OpenAPI parameter serialization table.
func defaultStyle(loc Location) string {
	switch loc {
	case Query, Cookie:
		return "form"
	default:
		return "simple"
	}
}

func defaultExplode(loc Location, style string) bool {
	return loc == Query && style == "form"
}

// styleOf and explodeOf read a parameter object's "style"/"explode" keys,
// falling back to the location's default.
func styleOf(param map[string]any, loc Location) string {
	if s, ok := param["style"].(string); ok && s != "" {
		return s
	}
	return defaultStyle(loc)
}

func explodeOf(param map[string]any, loc Location, style string) bool {
	if e, ok := param["explode"].(bool); ok {
		return e
	}
	return defaultExplode(loc, style)
}

// deserialize turns a raw parameter value into a Go value (a coerced
// primitive, or an []any of coerced primitives) per the parameter's style
// and explode setting; a style it does not handle, such as deepObject,
// yields the raw string unchanged. It normalizes incoming text to NFC first so downstream
// string comparisons (enum, pattern) aren't fooled by combining-character
// variants a client happened to send.
func deserialize(raw string, schema map[string]any, item primitive.Primitive, loc Location, style string, explode bool) (any, error) {
	raw = norm.NFC.String(raw)

	switch style {
	case "simple":
		return deserializeSimple(raw, schema, item, explode)
	case "label":
		return deserializeLabel(raw, schema, item, explode)
	case "matrix":
		return raw, nil // matrix requires the parameter name; handled by deserializeMatrix below
	case "spaceDelimited":
		return deserializeDelimited(raw, " ", item)
	case "pipeDelimited":
		return deserializeDelimited(raw, "|", item)
	case "form":
		return deserializeFormSingle(raw, schema, item, explode)
	default:
		return raw, nil
	}
}

func deserializeMatrix(raw, name string, schema map[string]any, item primitive.Primitive, explode bool) (any, error) {
	raw = norm.NFC.String(raw)
	if !strings.HasPrefix(raw, ";") {
		return raw, nil
	}
	raw = raw[1:]

	if isArray(schema) {
		prefix := name + "="
		if explode {
			var values []string
			for _, part := range strings.Split(raw, ";") {
				if strings.HasPrefix(part, prefix) {
					values = append(values, part[len(prefix):])
				}
			}
			return primitive.CoerceArray(item, values)
		}
		if strings.HasPrefix(raw, prefix) {
			return primitive.CoerceArray(item, strings.Split(raw[len(prefix):], ","))
		}
		return []any{}, nil
	}

	if strings.HasPrefix(raw, name+"=") {
		return primitive.Coerce(item, raw[len(name)+1:])
	}
	return primitive.Coerce(item, raw)
}

func deserializeSimple(raw string, schema map[string]any, item primitive.Primitive, explode bool) (any, error) {
	_ = explode // simple-style arrays are always comma-joined regardless of explode
	if isArray(schema) {
		return primitive.CoerceArray(item, strings.Split(raw, ","))
	}
	return primitive.Coerce(item, raw)
}

func deserializeLabel(raw string, schema map[string]any, item primitive.Primitive, explode bool) (any, error) {
	if !strings.HasPrefix(raw, ".") {
		return raw, nil
	}
	raw = raw[1:]
	if isArray(schema) {
		sep := ","
		if explode {
			sep = "."
		}
		return primitive.CoerceArray(item, strings.Split(raw, sep))
	}
	return primitive.Coerce(item, raw)
}

func deserializeDelimited(raw, sep string, item primitive.Primitive) (any, error) {
	return primitive.CoerceArray(item, strings.Split(raw, sep))
}

func deserializeFormSingle(raw string, schema map[string]any, item primitive.Primitive, explode bool) (any, error) {
	_ = explode
	if isArray(schema) {
		return primitive.CoerceArray(item, strings.Split(raw, ","))
	}
	return primitive.Coerce(item, raw)
}

func isArray(schema map[string]any) bool {
	t, _ := schema["type"].(string)
	return t == "array"
}

func itemPrimitive(schema map[string]any) primitive.Primitive {
	items, ok := schema["items"].(map[string]any)
	if !ok {
		return primitive.String
	}
	return primitive.FromSchema(items)
}
