package reqguard

import (
	"net/url"
	"strings"

	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/schemabuild"
)

// ParameterValidator validates every declared parameter at one Location
// (header, query, path, or cookie) against the corresponding values
// extracted from a Request.
type ParameterValidator struct {
	tr       *oastree.Traverser
	factory  *schemabuild.Factory
	Location Location
	// StrictMode rejects values present in the request that are not
	// declared in the specification for this location.
	StrictMode bool
}

// NewParameterValidator builds a ParameterValidator for one location. Header
// and cookie locations should be given a factory built with
// schemabuild.WithRedact, so coercion/validation failures never echo
// credential-bearing values.
func NewParameterValidator(tr *oastree.Traverser, factory *schemabuild.Factory, loc Location) *ParameterValidator {
	return &ParameterValidator{tr: tr, factory: factory, Location: loc}
}

var standardHeaders = map[string]bool{
	"accept": true, "accept-charset": true, "accept-encoding": true,
	"accept-language": true, "authorization": true, "cache-control": true,
	"connection": true, "content-length": true, "content-type": true,
	"cookie": true, "host": true, "origin": true, "referer": true,
	"user-agent": true, "x-forwarded-for": true, "x-forwarded-host": true,
	"x-forwarded-proto": true, "x-real-ip": true, "x-request-id": true,
}

// Validate runs the spec.md §4.7 algorithm: for each declared parameter at
// v.Location, coerce and validate the value the request supplied, or fail
// if a required one is missing.
func (v *ParameterValidator) Validate(op *oastree.Operation, req Request) ogerrors.Issues {
	params, err := v.parametersForLocation(op)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}

	var issues ogerrors.Issues
	processed := make(map[string]bool, len(params))

	for _, p := range params {
		name, _ := p["name"].(string)
		required, _ := p["required"].(bool)
		schemaNode, hasSchema := p["schema"]
		if !hasSchema {
			issues = append(issues, ogerrors.NewIssue("", &ogerrors.FieldMissing{
				Section: ogerrors.Specification(ogerrors.SpecPaths),
				Field:   "schema",
			}))
			continue
		}
		schema, err := v.tr.AsObject(schemaNode)
		if err != nil {
			issues = append(issues, ogerrors.NewIssue("", err))
			continue
		}

		raw, present := v.lookup(req, op, name)
		lookupKey := lookupKey(v.Location, name)
		if !present {
			if required {
				issues = append(issues, ogerrors.NewIssue("", &ogerrors.RequiredParameterMissing{
					Section: payloadSection(v.Location),
					Name:    name,
				}))
			}
			continue
		}
		processed[lookupKey] = true

		value, err := v.coerce(raw, schema, p)
		if err != nil {
			issues = append(issues, ogerrors.NewIssue("", &ogerrors.UnableToParse{
				Section: payloadSection(v.Location),
				Raw:     raw,
				Cause:   err,
			}))
			continue
		}

		validator, err := v.factory.BuildInline(schema)
		if err != nil {
			issues = append(issues, ogerrors.NewIssue("", err))
			continue
		}
		issues = append(issues, validator.Validate(value)...)
	}

	if v.StrictMode {
		issues = append(issues, v.rejectUnknown(req, processed)...)
	}

	return issues
}

func (v *ParameterValidator) coerce(raw string, schema map[string]any, param map[string]any) (any, error) {
	style := styleOf(param, v.Location)
	explode := explodeOf(param, v.Location, style)
	item := itemPrimitive(schema)

	if v.Location == Path && style == "matrix" {
		name, _ := param["name"].(string)
		return deserializeMatrix(raw, name, schema, item, explode)
	}
	return deserialize(raw, schema, item, v.Location, style, explode)
}

// lookup returns the raw string value the request supplied for name at
// v.Location, and whether it was present at all.
func (v *ParameterValidator) lookup(req Request, op *oastree.Operation, name string) (string, bool) {
	switch v.Location {
	case Path:
		val, ok := op.PathParams[name]
		return val, ok
	case Header:
		return req.HeaderValue(name)
	case Cookie:
		return req.Cookie(name)
	case Query:
		values := parseQuery(req.RawQuery)
		vs, ok := values[name]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return vs[len(vs)-1], true
	default:
		return "", false
	}
}

func (v *ParameterValidator) rejectUnknown(req Request, processed map[string]bool) ogerrors.Issues {
	var issues ogerrors.Issues
	switch v.Location {
	case Query:
		for key := range parseQuery(req.RawQuery) {
			if !processed[lookupKey(Query, key)] {
				issues = append(issues, ogerrors.NewIssue("", &ogerrors.SchemaValidationFailed{
					Section: payloadSection(Query),
					Message: "unknown query parameter " + key,
				}))
			}
		}
	case Header:
		for name := range req.Header {
			lower := strings.ToLower(name)
			if !processed[lookupKey(Header, lower)] && !standardHeaders[lower] && !strings.HasPrefix(lower, "sec-") {
				issues = append(issues, ogerrors.NewIssue("", &ogerrors.SchemaValidationFailed{
					Section: payloadSection(Header),
					Message: "unknown header parameter " + name,
				}))
			}
		}
	case Cookie:
		for _, c := range req.Cookies {
			if !processed[lookupKey(Cookie, c.Name)] {
				issues = append(issues, ogerrors.NewIssue("", &ogerrors.SchemaValidationFailed{
					Section: payloadSection(Cookie),
					Message: "unknown cookie parameter " + c.Name,
				}))
			}
		}
	}
	return issues
}

func lookupKey(loc Location, name string) string {
	if loc == Header {
		return strings.ToLower(name)
	}
	return name
}

func payloadSection(loc Location) ogerrors.Section {
	switch loc {
	case Header:
		return ogerrors.Payload(ogerrors.PayloadHeader)
	case Query:
		return ogerrors.Payload(ogerrors.PayloadQuery)
	case Path:
		return ogerrors.Payload(ogerrors.PayloadPath)
	default:
		return ogerrors.Payload(ogerrors.PayloadOther)
	}
}

// locationName maps a Location to the OpenAPI "in" string used in the
// parameters array.
func locationName(loc Location) string {
	return loc.String()
}

// parametersForLocation merges path-item-level and operation-level
// parameters (operation overrides path-item on matching in+name), resolves
// each through a possible $ref, and filters to v.Location.
func (v *ParameterValidator) parametersForLocation(op *oastree.Operation) ([]map[string]any, error) {
	merged := make(map[string]map[string]any)
	order := make([]string, 0)

	addAll := func(container map[string]any) error {
		raw, present, err := v.tr.GetOptional(container, "parameters")
		if err != nil {
			return err
		}
		if !present {
			return nil
		}
		arr, err := v.tr.AsArray(raw)
		if err != nil {
			return err
		}
		for _, item := range arr {
			p, err := v.tr.AsObject(item)
			if err != nil {
				return err
			}
			in, _ := p["in"].(string)
			name, _ := p["name"].(string)
			key := in + ":" + name
			if _, exists := merged[key]; !exists {
				order = append(order, key)
			}
			merged[key] = p
		}
		return nil
	}

	if err := addAll(op.PathItem); err != nil {
		return nil, err
	}
	if err := addAll(op.Node); err != nil {
		return nil, err
	}

	want := locationName(v.Location)
	out := make([]map[string]any, 0, len(order))
	for _, key := range order {
		p := merged[key]
		if in, _ := p["in"].(string); in == want {
			out = append(out, p)
		}
	}
	return out, nil
}

// parseQuery splits a raw query string on "&" then each element on the
// first "=", keeping the last value for duplicate keys (spec.md §4.7).
func parseQuery(raw string) map[string][]string {
	out := make(map[string][]string)
	if raw == "" {
		return out
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, hasEq := strings.Cut(pair, "=")
		if !hasEq {
			out[key] = nil
			continue
		}
		dk, err1 := url.QueryUnescape(key)
		dv, err2 := url.QueryUnescape(value)
		if err1 != nil {
			dk = key
		}
		if err2 != nil {
			dv = value
		}
		out[dk] = []string{dv}
	}
	return out
}
