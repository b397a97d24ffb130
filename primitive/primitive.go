// Package primitive models the closed set of OpenAPI/JSON-Schema scalar and
// container types, and coerces the raw strings produced by path, query,
// header, and cookie deserialization into values of those types.
package primitive

import (
	"fmt"
	"strconv"

	"github.com/erraggy/oashttpguard/ogerrors"
)

// Primitive is the closed enum of JSON-Schema type names relevant to
// request validation.
type Primitive int

const (
	Null Primitive = iota
	Bool
	Integer
	Number
	String
	Array
	Object
)

func (p Primitive) String() string {
	switch p {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Integer:
		return "integer"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// FromSchema reads the "type" keyword of a decoded schema node and returns
// the corresponding Primitive. A 3.1-style type array is reduced to its
// first non-null entry, matching how a coerced value is only ever one
// concrete type even when "null" is also permitted. An absent or
// unrecognized type defaults to String, since OpenAPI treats type as
// optional and schemaless values still need to round-trip through
// coercion.
func FromSchema(node any) Primitive {
	m, ok := node.(map[string]any)
	if !ok {
		return String
	}
	switch t := m["type"].(type) {
	case string:
		return fromName(t)
	case []any:
		for _, entry := range t {
			if name, ok := entry.(string); ok && name != "null" {
				return fromName(name)
			}
		}
		return Null
	default:
		return String
	}
}

func fromName(name string) Primitive {
	switch name {
	case "boolean":
		return Bool
	case "integer":
		return Integer
	case "number":
		return Number
	case "string":
		return String
	case "array":
		return Array
	case "object":
		return Object
	case "null":
		return Null
	default:
		return String
	}
}

// Coerce parses a raw string (as produced by parameter deserialization)
// into a Go value matching p. Array and Object are not coercible directly
// from a single string; callers build those from already-split components
// and never invoke Coerce for them.
func Coerce(p Primitive, s string) (any, error) {
	switch p {
	case Integer:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &ogerrors.UnableToParse{Raw: s, Cause: err}
		}
		return i, nil
	case Number:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &ogerrors.UnableToParse{Raw: s, Cause: err}
		}
		return f, nil
	case Bool:
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, &ogerrors.UnableToParse{Raw: s, Cause: fmt.Errorf("expected \"true\" or \"false\", got %q", s)}
		}
	case String:
		return s, nil
	case Null:
		if s == "" || s == "null" {
			return nil, nil
		}
		return nil, &ogerrors.UnableToParse{Raw: s, Cause: fmt.Errorf("expected null, got %q", s)}
	default:
		return nil, &ogerrors.UnableToParse{Raw: s, Cause: fmt.Errorf("primitive %s is not string-coercible", p)}
	}
}

// CoerceArray applies Coerce to every element, used by style/explode
// deserialization once the raw segments have been split.
func CoerceArray(item Primitive, values []string) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		coerced, err := Coerce(item, v)
		if err != nil {
			return nil, err
		}
		out[i] = coerced
	}
	return out, nil
}
