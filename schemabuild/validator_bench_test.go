package schemabuild

import "testing"

func BenchmarkFactory_matchPattern(b *testing.B) {
	f := NewFactory(nil, 0)
	patterns := []string{
		`^[a-zA-Z]+$`, `^\d{3}-\d{2}-\d{4}$`, `^[a-f0-9]+$`,
		`^\w+@\w+\.\w+$`, `^https?://`, `^\d+\.\d+\.\d+$`,
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pattern := patterns[i%len(patterns)]
		_, _ = f.matchPattern(pattern, "test-value-123")
	}
}

func BenchmarkValidator_Validate_Object(b *testing.B) {
	schema := map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1},
			"age":  map[string]any{"type": "integer", "minimum": 0.0},
		},
	}
	f := NewFactory(nil, 0)
	v, err := f.BuildInline(schema)
	if err != nil {
		b.Fatal(err)
	}
	value := map[string]any{"name": "Rex", "age": 3.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Validate(value)
	}
}
