package reqguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oashttpguard/internal/testutil"
	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/schemabuild"
	"github.com/erraggy/oashttpguard/specversion"
)

func detailedPetOperation(t *testing.T) (*RequestBodyValidator, *oastree.Operation) {
	t.Helper()
	tr := mustTraverser(t, testutil.NewDetailedOAS3Document())
	factory := schemabuild.NewFactory(tr, specversion.Draft202012)
	op, err := tr.GetOperation("/pets", "POST")
	require.NoError(t, err)
	return NewRequestBodyValidator(tr, factory, specversion.Draft202012), op
}

func TestRequestBodyValidator_ValidBody(t *testing.T) {
	v, op := detailedPetOperation(t)
	req := Request{ContentType: "application/json", HasBody: true, Body: []byte(`{"name":"rex"}`)}
	assert.Empty(t, v.Validate(op, req))
}

func TestRequestBodyValidator_MissingRequiredProperty(t *testing.T) {
	v, op := detailedPetOperation(t)
	req := Request{ContentType: "application/json", HasBody: true, Body: []byte(`{"id":1}`)}
	issues := v.Validate(op, req)
	require.Len(t, issues, 1)
	var target *ogerrors.RequiredPropertyMissing
	assert.ErrorAs(t, issues[0].Err, &target)
	assert.Equal(t, "name", target.Property)
}

func TestRequestBodyValidator_RequiredBodyMissing(t *testing.T) {
	v, op := detailedPetOperation(t)
	issues := v.Validate(op, Request{})
	require.Len(t, issues, 1)
	var target *ogerrors.ValueExpected
	assert.ErrorAs(t, issues[0].Err, &target)
}

func TestRequestBodyValidator_NoContentType(t *testing.T) {
	v, op := detailedPetOperation(t)
	issues := v.Validate(op, Request{HasBody: true, Body: []byte(`{}`)})
	require.Len(t, issues, 1)
	var target *ogerrors.RequiredParameterMissing
	assert.ErrorAs(t, issues[0].Err, &target)
	assert.Equal(t, "content-type", target.Name)
}

func TestRequestBodyValidator_MalformedJSON(t *testing.T) {
	v, op := detailedPetOperation(t)
	req := Request{ContentType: "application/json", HasBody: true, Body: []byte(`{not json`)}
	issues := v.Validate(op, req)
	require.Len(t, issues, 1)
	var target *ogerrors.UnableToParse
	assert.ErrorAs(t, issues[0].Err, &target)
}

func TestRequestBodyValidator_NoRequestBodyDeclaredButBodySent(t *testing.T) {
	tr := mustTraverser(t, testutil.NewDetailedOAS3Document())
	factory := schemabuild.NewFactory(tr, specversion.Draft202012)
	op, err := tr.GetOperation("/pets/42", "GET")
	require.NoError(t, err)
	v := NewRequestBodyValidator(tr, factory, specversion.Draft202012)

	issues := v.Validate(op, Request{HasBody: true, Body: []byte(`{}`)})
	require.Len(t, issues, 1)
	var target *ogerrors.DefinitionExpected
	assert.ErrorAs(t, issues[0].Err, &target)
}

func TestRequestBodyValidator_Swagger2(t *testing.T) {
	doc := testutil.NewSimpleOAS2Document()
	doc["paths"] = map[string]any{
		"/pets": map[string]any{
			"post": map[string]any{
				"operationId": "createPet",
				"parameters": []any{
					map[string]any{
						"name":     "body",
						"in":       "body",
						"required": true,
						"schema": map[string]any{
							"type":     "object",
							"required": []any{"name"},
							"properties": map[string]any{
								"name": map[string]any{"type": "string"},
							},
						},
					},
				},
				"responses": map[string]any{"201": map[string]any{"description": "created"}},
			},
		},
	}
	tr := mustTraverser(t, doc)
	factory := schemabuild.NewFactory(tr, specversion.DraftSwagger2)
	op, err := tr.GetOperation("/pets", "POST")
	require.NoError(t, err)
	v := NewRequestBodyValidator(tr, factory, specversion.DraftSwagger2)

	assert.Empty(t, v.Validate(op, Request{HasBody: true, Body: []byte(`{"name":"rex"}`)}))

	issues := v.Validate(op, Request{})
	require.Len(t, issues, 1)
	var target *ogerrors.ValueExpected
	assert.ErrorAs(t, issues[0].Err, &target)
}
