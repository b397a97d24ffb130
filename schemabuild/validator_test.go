package schemabuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oashttpguard/internal/testutil"
	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/specversion"
)

func buildInline(t *testing.T, draft specversion.Draft, schema map[string]any, opts ...Option) *Validator {
	t.Helper()
	tr, err := oastree.New(testutil.NewSimpleOAS3Document())
	require.NoError(t, err)
	f := NewFactory(tr, draft, opts...)
	v, err := f.BuildInline(schema)
	require.NoError(t, err)
	return v
}

func TestValidate_NullValue(t *testing.T) {
	v := buildInline(t, specversion.Draft4, map[string]any{"type": "string"})
	assert.NotEmpty(t, v.Validate(nil))

	v = buildInline(t, specversion.Draft4, map[string]any{"type": "string", "nullable": true})
	assert.Empty(t, v.Validate(nil))

	v = buildInline(t, specversion.Draft202012, map[string]any{"type": []any{"string", "null"}})
	assert.Empty(t, v.Validate(nil))
}

func TestValidate_Type(t *testing.T) {
	tests := []struct {
		name       string
		data       any
		schemaType any
		expectErr  bool
	}{
		{"string matches string", "hello", "string", false},
		{"number matches number", 3.14, "number", false},
		{"float64 whole number matches integer", float64(42), "integer", false},
		{"float64 with decimal fails integer", float64(42.5), "integer", true},
		{"boolean matches boolean", true, "boolean", false},
		{"array matches array", []any{1, 2, 3}, "array", false},
		{"object matches object", map[string]any{"a": 1}, "object", false},
		{"string does not match number", "hello", "number", true},
		{"no type accepts anything", "hello", nil, false},
		{"type array accepts matching", "hello", []any{"string", "number"}, false},
		{"type array rejects non-matching", true, []any{"string", "number"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := map[string]any{}
			if tt.schemaType != nil {
				schema["type"] = tt.schemaType
			}
			v := buildInline(t, specversion.Draft4, schema)
			issues := v.Validate(tt.data)
			assert.Equal(t, tt.expectErr, len(issues) > 0, "issues: %v", issues)
		})
	}
}

func TestValidate_StringConstraints(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		schema    map[string]any
		expectErr bool
	}{
		{"within bounds", "hello", map[string]any{"type": "string", "minLength": 3, "maxLength": 10}, false},
		{"too short", "hi", map[string]any{"type": "string", "minLength": 3}, true},
		{"too long", "hello world!", map[string]any{"type": "string", "maxLength": 10}, true},
		{"matches pattern", "abc123", map[string]any{"type": "string", "pattern": "^[a-z]+[0-9]+$"}, false},
		{"fails pattern", "123abc", map[string]any{"type": "string", "pattern": "^[a-z]+[0-9]+$"}, true},
		{"invalid regex", "test", map[string]any{"type": "string", "pattern": "[invalid"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := buildInline(t, specversion.Draft4, tt.schema)
			issues := v.Validate(tt.data)
			assert.Equal(t, tt.expectErr, len(issues) > 0, "issues: %v", issues)
		})
	}
}

func TestValidate_Format_IsWarningSeverity(t *testing.T) {
	v := buildInline(t, specversion.Draft4, map[string]any{"type": "string", "format": "email"})
	issues := v.Validate("not-an-email")
	require.Len(t, issues, 1)
	assert.False(t, issues.HasErrors(), "format violations should be warnings, not errors")
}

func TestValidate_UnknownFormat_Ignored(t *testing.T) {
	v := buildInline(t, specversion.Draft4, map[string]any{"type": "string", "format": "made-up-format"})
	assert.Empty(t, v.Validate("anything"))
}

func TestValidate_NumberBounds_Draft4(t *testing.T) {
	schema := map[string]any{"type": "number", "minimum": 0.0, "maximum": 10.0, "exclusiveMinimum": true}
	v := buildInline(t, specversion.Draft4, schema)

	assert.NotEmpty(t, v.Validate(0.0), "0 should fail an exclusive minimum of 0")
	assert.Empty(t, v.Validate(0.1))
	assert.NotEmpty(t, v.Validate(11.0))
}

func TestValidate_NumberBounds_Draft202012_NumericExclusive(t *testing.T) {
	schema := map[string]any{"type": "number", "exclusiveMinimum": 0.0}
	v := buildInline(t, specversion.Draft202012, schema)

	assert.NotEmpty(t, v.Validate(0.0))
	assert.Empty(t, v.Validate(0.1))
}

func TestValidate_MultipleOf(t *testing.T) {
	v := buildInline(t, specversion.Draft4, map[string]any{"type": "number", "multipleOf": 5.0})
	assert.Empty(t, v.Validate(15.0))
	assert.NotEmpty(t, v.Validate(7.0))
}

func TestValidate_Array(t *testing.T) {
	schema := map[string]any{
		"type":        "array",
		"minItems":    1,
		"maxItems":    3,
		"uniqueItems": true,
		"items":       map[string]any{"type": "integer"},
	}
	v := buildInline(t, specversion.Draft4, schema)

	assert.Empty(t, v.Validate([]any{1.0, 2.0}))
	assert.NotEmpty(t, v.Validate([]any{}), "fewer than minItems")
	assert.NotEmpty(t, v.Validate([]any{1.0, 1.0}), "uniqueItems violated")
	assert.NotEmpty(t, v.Validate([]any{1.0, "not an integer"}), "item schema violated")
}

func TestValidate_Object(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer"},
		},
		"additionalProperties": false,
	}
	v := buildInline(t, specversion.Draft4, schema)

	assert.Empty(t, v.Validate(map[string]any{"name": "a"}))

	issues := v.Validate(map[string]any{"age": 10.0})
	require.NotEmpty(t, issues)
	var missing *ogerrors.RequiredPropertyMissing
	assert.ErrorAs(t, issues[0].Err, &missing)

	assert.NotEmpty(t, v.Validate(map[string]any{"name": "a", "extra": true}))
}

func TestValidate_Enum(t *testing.T) {
	schema := map[string]any{"enum": []any{"red", "green", "blue"}}
	v := buildInline(t, specversion.Draft4, schema)

	assert.Empty(t, v.Validate("red"))
	assert.NotEmpty(t, v.Validate("purple"))
}

func TestValidate_AllOf(t *testing.T) {
	schema := map[string]any{
		"allOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"minLength": 3},
		},
	}
	v := buildInline(t, specversion.Draft4, schema)
	assert.Empty(t, v.Validate("hello"))
	assert.NotEmpty(t, v.Validate("hi"))
}

func TestValidate_AnyOf(t *testing.T) {
	schema := map[string]any{
		"anyOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "integer"},
		},
	}
	v := buildInline(t, specversion.Draft4, schema)
	assert.Empty(t, v.Validate("hello"))
	assert.Empty(t, v.Validate(float64(42)))
	assert.NotEmpty(t, v.Validate(true))
}

func TestValidate_OneOf(t *testing.T) {
	schema := map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string", "maxLength": 3},
			map[string]any{"type": "string", "minLength": 3},
		},
	}
	v := buildInline(t, specversion.Draft4, schema)
	assert.Empty(t, v.Validate("ab"), "matches only the maxLength branch")
	assert.Empty(t, v.Validate("abcdef"), "matches only the minLength branch")
	assert.NotEmpty(t, v.Validate("abc"), "matches both branches, violating exactly-one")
}

func TestValidate_RefResolution(t *testing.T) {
	tr, err := oastree.New(testutil.NewDetailedOAS3Document())
	require.NoError(t, err)
	f := NewFactory(tr, specversion.Draft4)

	v, err := f.Build("#/components/schemas/Pet")
	require.NoError(t, err)

	assert.Empty(t, v.Validate(map[string]any{"name": "Rex"}))
	assert.NotEmpty(t, v.Validate(map[string]any{"id": 1.0}), "missing required name")
}

func TestValidate_Redact_OmitsValueFromMessage(t *testing.T) {
	v := buildInline(t, specversion.Draft4, map[string]any{"enum": []any{"red"}}, WithRedact())
	issues := v.Validate("secret-value")
	require.Len(t, issues, 1)
	assert.NotContains(t, issues[0].Error(), "secret-value")
}

func TestValidate_PointerTracksNestedLocation(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
	}
	v := buildInline(t, specversion.Draft4, schema)
	issues := v.Validate(map[string]any{"items": []any{1.0, "bad"}})
	require.Len(t, issues, 1)
	assert.Equal(t, "#/items/1", issues[0].Pointer)
}
