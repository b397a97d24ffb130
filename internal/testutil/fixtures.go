// Package testutil provides fixture builders for constructing minimal
// in-memory OpenAPI document trees without a YAML/JSON literal in every
// test.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

// NewSimpleOAS3Document returns a minimal OAS 3.0 document tree containing
// only the required top-level fields.
func NewSimpleOAS3Document() map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Test API",
			"version": "1.0.0",
		},
		"paths": map[string]any{},
	}
}

// NewDetailedOAS3Document returns an OAS 3.0 document tree with one path,
// one operation, and a components schema — enough to drive a
// Traverser/Orchestrator round trip in tests.
func NewDetailedOAS3Document() map[string]any {
	doc := NewSimpleOAS3Document()
	doc["paths"] = map[string]any{
		"/pets": map[string]any{
			"post": map[string]any{
				"operationId": "createPet",
				"requestBody": map[string]any{
					"required": true,
					"content": map[string]any{
						"application/json": map[string]any{
							"schema": map[string]any{
								"$ref": "#/components/schemas/Pet",
							},
						},
					},
				},
				"responses": map[string]any{
					"201": map[string]any{"description": "created"},
				},
			},
		},
		"/pets/{petId}": map[string]any{
			"parameters": []any{
				map[string]any{
					"name":     "petId",
					"in":       "path",
					"required": true,
					"schema":   map[string]any{"type": "integer"},
				},
			},
			"get": map[string]any{
				"operationId": "getPet",
				"responses": map[string]any{
					"200": map[string]any{"description": "ok"},
				},
			},
		},
	}
	doc["components"] = map[string]any{
		"schemas": map[string]any{
			"Pet": map[string]any{
				"type":     "object",
				"required": []any{"name"},
				"properties": map[string]any{
					"id":   map[string]any{"type": "integer"},
					"name": map[string]any{"type": "string"},
				},
			},
		},
	}
	return doc
}

// NewSimpleOAS2Document returns a minimal Swagger 2.0 document tree.
func NewSimpleOAS2Document() map[string]any {
	return map[string]any{
		"swagger": "2.0",
		"info": map[string]any{
			"title":   "Test API",
			"version": "1.0.0",
		},
		"host":     "api.example.com",
		"basePath": "/v1",
		"schemes":  []any{"https"},
		"paths":    map[string]any{},
	}
}

// WriteTempYAML marshals doc to YAML and writes it to a temp file, cleaned
// up automatically via t.TempDir(). Returns the file path.
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal document to YAML: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write temp YAML file: %v", err)
	}
	return path
}

// WriteTempJSON marshals doc to JSON and writes it to a temp file, cleaned
// up automatically via t.TempDir(). Returns the file path.
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal document to JSON: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write temp JSON file: %v", err)
	}
	return path
}
