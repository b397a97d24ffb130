package oastree

import (
	"fmt"

	"github.com/erraggy/oashttpguard/ogerrors"
)

// GetOptional resolves node (following a $ref if present) and returns the
// value at key. present is false, err is nil when key is simply absent —
// per spec design, absence is a value, not a failure, for optional
// accessors. A non-nil err means node itself could not be resolved or was
// not an object.
func (t *Traverser) GetOptional(node any, key string) (value any, present bool, err error) {
	resolved, err := t.resolveNode(node)
	if err != nil {
		return nil, false, err
	}
	m, ok := resolved.(map[string]any)
	if !ok {
		return nil, false, &ogerrors.TypeMismatch{Want: "object", Got: fmt.Sprintf("%T", resolved)}
	}
	raw, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	rv, rerr := t.resolveNode(raw)
	if rerr != nil {
		return nil, false, rerr
	}
	return rv, true, nil
}

// GetRequired is GetOptional, except a missing key becomes
// ogerrors.FieldMissing instead of a silent absence.
func (t *Traverser) GetRequired(node any, key string) (any, error) {
	v, present, err := t.GetOptional(node, key)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, &ogerrors.FieldMissing{Field: key}
	}
	return v, nil
}

// AsString resolves node and asserts it is a JSON string.
func (t *Traverser) AsString(node any) (string, error) {
	resolved, err := t.resolveNode(node)
	if err != nil {
		return "", err
	}
	s, ok := resolved.(string)
	if !ok {
		return "", &ogerrors.TypeMismatch{Want: "string", Got: fmt.Sprintf("%T", resolved)}
	}
	return s, nil
}

// AsBool resolves node and asserts it is a JSON boolean.
func (t *Traverser) AsBool(node any) (bool, error) {
	resolved, err := t.resolveNode(node)
	if err != nil {
		return false, err
	}
	b, ok := resolved.(bool)
	if !ok {
		return false, &ogerrors.TypeMismatch{Want: "boolean", Got: fmt.Sprintf("%T", resolved)}
	}
	return b, nil
}

// AsObject resolves node and asserts it is a JSON object.
func (t *Traverser) AsObject(node any) (map[string]any, error) {
	resolved, err := t.resolveNode(node)
	if err != nil {
		return nil, err
	}
	m, ok := resolved.(map[string]any)
	if !ok {
		return nil, &ogerrors.TypeMismatch{Want: "object", Got: fmt.Sprintf("%T", resolved)}
	}
	return m, nil
}

// AsArray resolves node and asserts it is a JSON array.
func (t *Traverser) AsArray(node any) ([]any, error) {
	resolved, err := t.resolveNode(node)
	if err != nil {
		return nil, err
	}
	a, ok := resolved.([]any)
	if !ok {
		return nil, &ogerrors.TypeMismatch{Want: "array", Got: fmt.Sprintf("%T", resolved)}
	}
	return a, nil
}
