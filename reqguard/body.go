package reqguard

import (
	"encoding/json"
	"mime"
	"strings"

	"github.com/erraggy/oashttpguard/internal/httputil"
	"github.com/erraggy/oashttpguard/jsonptr"
	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/schemabuild"
	"github.com/erraggy/oashttpguard/specversion"
)

// acceptedTopLevelTypes are the media-type top-level types this validator
// will attempt to look up a schema for. Anything else (e.g. a vendor type
// nobody registered a handler for) is left unvalidated rather than
// rejected outright.
var acceptedTopLevelTypes = map[string]bool{
	"application": true, "text": true, "xml": true, "audio": true,
	"example": true, "font": true, "image": true, "model": true,
	"video": true, "multipart": true, "message": true,
}

// RequestBodyValidator validates a request body against the operation's
// requestBody (OAS 3.x) or single "in: body" parameter (Swagger 2.0).
type RequestBodyValidator struct {
	tr      *oastree.Traverser
	factory *schemabuild.Factory
	draft   specversion.Draft
}

// NewRequestBodyValidator builds a RequestBodyValidator. draft selects
// between OAS 3.x's requestBody shape and Swagger 2.0's in:body parameter.
func NewRequestBodyValidator(tr *oastree.Traverser, factory *schemabuild.Factory, draft specversion.Draft) *RequestBodyValidator {
	return &RequestBodyValidator{tr: tr, factory: factory, draft: draft}
}

// Validate runs the spec.md §4.6 algorithm.
func (v *RequestBodyValidator) Validate(op *oastree.Operation, req Request) ogerrors.Issues {
	if v.draft == specversion.DraftSwagger2 {
		return v.validateSwagger2(op, req)
	}
	return v.validateOAS3(op, req)
}

func (v *RequestBodyValidator) validateOAS3(op *oastree.Operation, req Request) ogerrors.Issues {
	rawBody, present, err := v.tr.GetOptional(op.Node, "requestBody")
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}
	if !present {
		if req.HasBody {
			return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.DefinitionExpected{Pointer: op.Pointer + "/requestBody"})}
		}
		return nil
	}
	requestBody, err := v.tr.AsObject(rawBody)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}

	required := true
	if r, ok := requestBody["required"].(bool); ok {
		required = r
	}

	if req.ContentType == "" {
		if required {
			return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.RequiredParameterMissing{
				Section: ogerrors.Payload(ogerrors.PayloadHeader),
				Name:    "content-type",
			})}
		}
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(req.ContentType)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.UnableToParse{
			Section: ogerrors.Payload(ogerrors.PayloadHeader),
			Raw:     req.ContentType,
			Cause:   err,
		})}
	}
	if top, _, ok := strings.Cut(mediaType, "/"); ok && !acceptedTopLevelTypes[top] {
		return nil
	}

	content, err := v.tr.GetRequired(requestBody, "content")
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}
	contentMap, err := v.tr.AsObject(content)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}
	media := selectMediaType(contentMap, mediaType)
	if media == nil {
		return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.FieldMissing{
			Section: ogerrors.Specification(ogerrors.SpecPaths),
			Field:   mediaType,
		})}
	}
	mediaObj, err := v.tr.AsObject(media)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}
	rawSchema, present, err := v.tr.GetOptional(mediaObj, "schema")
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}
	if !present {
		return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.FieldMissing{
			Section: ogerrors.Specification(ogerrors.SpecPaths),
			Field:   "schema",
		})}
	}
	schema, err := v.tr.AsObject(rawSchema)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}

	if !req.HasBody {
		if required {
			return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.ValueExpected{
				Section: ogerrors.Payload(ogerrors.PayloadBody),
			})}
		}
		return nil
	}

	var data any
	if err := json.Unmarshal(req.Body, &data); err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.UnableToParse{
			Section: ogerrors.Payload(ogerrors.PayloadBody),
			Raw:     string(req.Body),
			Cause:   err,
		})}
	}

	if issues := checkRequiredProperties(schema, data); len(issues) > 0 {
		return issues
	}

	pointer := op.Pointer + "/requestBody/content" + jsonptr.Join(mediaType) + "/schema"
	validator, err := v.factory.Build(pointer)
	if err != nil {
		validator, err = v.factory.BuildInline(schema)
		if err != nil {
			return ogerrors.Issues{ogerrors.NewIssue("", err)}
		}
	}
	return validator.Validate(data)
}

// checkRequiredProperties applies spec.md §4.6 step 5 ahead of the full
// schema walk, so a missing body against a non-empty "required" list
// reports ValueExpected rather than a generic type mismatch.
func checkRequiredProperties(schema map[string]any, data any) ogerrors.Issues {
	required, _ := schema["required"].([]any)
	if len(required) == 0 {
		return nil
	}
	if data == nil {
		return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.ValueExpected{Section: ogerrors.Payload(ogerrors.PayloadBody)})}
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	var issues ogerrors.Issues
	for _, r := range required {
		name, ok := r.(string)
		if !ok {
			continue
		}
		if _, exists := obj[name]; !exists {
			issues = append(issues, ogerrors.NewIssue("", &ogerrors.RequiredPropertyMissing{
				Section:  ogerrors.Payload(ogerrors.PayloadBody),
				Property: name,
			}))
		}
	}
	return issues
}

func selectMediaType(content map[string]any, mediaType string) any {
	if m, ok := content[mediaType]; ok {
		return m
	}
	for pattern, m := range content {
		if httputil.IsValidMediaType(pattern) && matchMediaTypePattern(pattern, mediaType) {
			return m
		}
	}
	return nil
}

func matchMediaTypePattern(pattern, mediaType string) bool {
	if pattern == "*/*" {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		return strings.HasPrefix(mediaType, pattern[:len(pattern)-1])
	}
	return pattern == mediaType
}

// validateSwagger2 validates the body against the single "in: body"
// parameter Swagger 2.0 uses instead of requestBody.
func (v *RequestBodyValidator) validateSwagger2(op *oastree.Operation, req Request) ogerrors.Issues {
	bodyParam, err := v.findBodyParameter(op)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}
	if bodyParam == nil {
		if req.HasBody {
			return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.DefinitionExpected{Pointer: op.Pointer + "/parameters"})}
		}
		return nil
	}

	required, _ := bodyParam["required"].(bool)
	if !req.HasBody {
		if required {
			return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.ValueExpected{Section: ogerrors.Payload(ogerrors.PayloadBody)})}
		}
		return nil
	}

	rawSchema, present, err := v.tr.GetOptional(bodyParam, "schema")
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}
	if !present {
		return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.FieldMissing{
			Section: ogerrors.Specification(ogerrors.SpecPaths),
			Field:   "schema",
		})}
	}
	schema, err := v.tr.AsObject(rawSchema)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}

	var data any
	if err := json.Unmarshal(req.Body, &data); err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.UnableToParse{
			Section: ogerrors.Payload(ogerrors.PayloadBody),
			Raw:     string(req.Body),
			Cause:   err,
		})}
	}
	if issues := checkRequiredProperties(schema, data); len(issues) > 0 {
		return issues
	}

	validator, err := v.factory.BuildInline(schema)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}
	return validator.Validate(data)
}

func (v *RequestBodyValidator) findBodyParameter(op *oastree.Operation) (map[string]any, error) {
	for _, container := range []map[string]any{op.PathItem, op.Node} {
		raw, present, err := v.tr.GetOptional(container, "parameters")
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		arr, err := v.tr.AsArray(raw)
		if err != nil {
			return nil, err
		}
		for _, item := range arr {
			p, err := v.tr.AsObject(item)
			if err != nil {
				return nil, err
			}
			if in, _ := p["in"].(string); in == "body" {
				return p, nil
			}
		}
	}
	return nil, nil
}
