package reqguard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oashttpguard/internal/testutil"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/schemabuild"
	"github.com/erraggy/oashttpguard/specversion"
)

func newOrchestrator(t *testing.T, doc map[string]any, opts ...Option) *Orchestrator {
	t.Helper()
	tr := mustTraverser(t, doc)
	factory := schemabuild.NewFactory(tr, specversion.Draft202012)
	sensitive := schemabuild.NewFactory(tr, specversion.Draft202012, schemabuild.WithRedact())
	return NewOrchestrator(tr, specversion.Draft202012, factory, sensitive, opts...)
}

func TestOrchestrator_ValidRequestPassesEveryStage(t *testing.T) {
	o := newOrchestrator(t, testutil.NewDetailedOAS3Document())

	req := Request{
		Method:      "POST",
		Path:        "/pets",
		ContentType: "application/json",
		HasBody:     true,
		Body:        []byte(`{"name":"rex"}`),
	}
	result, err := o.Validate(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
	assert.Equal(t, "createPet", result.Operation.Node["operationId"])
}

func TestOrchestrator_StopsAtFirstErroringStage(t *testing.T) {
	o := newOrchestrator(t, testutil.NewDetailedOAS3Document())

	req := Request{
		Method:      "POST",
		Path:        "/pets",
		ContentType: "application/json",
		HasBody:     true,
		Body:        []byte(`{"id":1}`),
	}
	result, err := o.Validate(context.Background(), req, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Issues, 1)
	var target *ogerrors.RequiredPropertyMissing
	assert.ErrorAs(t, result.Issues[0].Err, &target)
}

func TestOrchestrator_UnknownOperationErrors(t *testing.T) {
	o := newOrchestrator(t, testutil.NewDetailedOAS3Document())

	_, err := o.Validate(context.Background(), Request{Method: "GET", Path: "/nope"}, nil)
	assert.Error(t, err)
}

func TestOrchestrator_WarningOnlyStageDoesNotFailRequest(t *testing.T) {
	doc := map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": "Test", "version": "1.0"},
		"paths": map[string]any{
			"/contacts": map[string]any{
				"post": map[string]any{
					"operationId": "createContact",
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"email": map[string]any{"type": "string", "format": "email"},
									},
								},
							},
						},
					},
					"responses": map[string]any{"201": map[string]any{"description": "created"}},
				},
			},
		},
	}
	o := newOrchestrator(t, doc)

	req := Request{
		Method:      "POST",
		Path:        "/contacts",
		ContentType: "application/json",
		HasBody:     true,
		Body:        []byte(`{"email":"not-an-email"}`),
	}
	result, err := o.Validate(context.Background(), req, nil)
	require.NoError(t, err, "a format warning must not fail the request")
	require.Len(t, result.Issues, 1)
	assert.False(t, result.Issues.HasErrors())
}

func TestOrchestrator_StrictModeRejectsUnknownQueryParam(t *testing.T) {
	doc := testutil.NewDetailedOAS3Document()
	o := newOrchestrator(t, doc, WithStrictMode())

	req := Request{Method: "GET", Path: "/pets/1", RawQuery: "bogus=1"}

	_, err := o.Validate(context.Background(), req, nil)
	assert.Error(t, err)
}
