package schemabuild

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/erraggy/oashttpguard/internal/stringutil"
	"github.com/erraggy/oashttpguard/jsonptr"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/specversion"
)

// Validator validates values against one schema node. Validators are
// built (and cached) by a [Factory]; there is no exported constructor.
type Validator struct {
	schema  map[string]any
	factory *Factory
}

// Validate checks value against the validator's schema and returns every
// issue found — type mismatches, string/number/array/object constraints,
// enum, allOf/anyOf/oneOf, and format warnings. An empty (usually nil)
// result means value is valid.
func (v *Validator) Validate(value any) ogerrors.Issues {
	var b jsonptr.Builder
	return v.validate(value, v.schema, &b)
}

func (v *Validator) validate(value any, schema map[string]any, b *jsonptr.Builder) ogerrors.Issues {
	resolved, err := v.resolve(schema)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue(b.FragmentURI(), err)}
	}
	schema = resolved

	if value == nil {
		if v.isNullable(schema) {
			return nil
		}
		return ogerrors.Issues{ogerrors.NewIssue(b.FragmentURI(), &ogerrors.ValueExpected{
			Section: ogerrors.Payload(ogerrors.PayloadBody),
			Pointer: b.FragmentURI(),
		})}
	}

	var issues ogerrors.Issues
	typeIssues := v.validateType(value, schema, b)
	issues = append(issues, typeIssues...)
	if len(typeIssues) > 0 {
		return issues
	}

	switch d := value.(type) {
	case string:
		issues = append(issues, v.validateString(d, schema, b)...)
	case float64:
		issues = append(issues, v.validateNumber(d, schema, b)...)
	case int, int32, int64:
		issues = append(issues, v.validateNumber(toFloat64(d), schema, b)...)
	case []any:
		issues = append(issues, v.validateArray(d, schema, b)...)
	case map[string]any:
		issues = append(issues, v.validateObject(d, schema, b)...)
	}

	if enum, ok := schema["enum"].([]any); ok && len(enum) > 0 {
		issues = append(issues, v.validateEnum(value, enum, b)...)
	}
	issues = append(issues, v.validateComposition(value, schema, b)...)

	return issues
}

// resolve follows a bare {"$ref": ...} schema node through the factory's
// traverser. Inline schema objects pass through unchanged.
func (v *Validator) resolve(schema map[string]any) (map[string]any, error) {
	ref, ok := schema["$ref"].(string)
	if !ok {
		return schema, nil
	}
	resolved, err := v.factory.tr.ResolveRef(ref)
	if err != nil {
		return nil, err
	}
	m, ok := resolved.(map[string]any)
	if !ok {
		return nil, &ogerrors.UnexpectedType{Pointer: ref, Want: "object", Got: fmt.Sprintf("%T", resolved)}
	}
	return m, nil
}

func (v *Validator) isNullable(schema map[string]any) bool {
	if nullable, ok := schema["nullable"].(bool); ok && nullable {
		return true
	}
	for _, t := range schemaTypes(schema) {
		if t == "null" {
			return true
		}
	}
	return false
}

func (v *Validator) validateType(value any, schema map[string]any, b *jsonptr.Builder) ogerrors.Issues {
	types := schemaTypes(schema)
	if len(types) == 0 {
		return nil
	}
	dataType := dataTypeOf(value)
	for _, want := range types {
		if typeMatches(dataType, want) {
			if want == "integer" && dataType == "number" {
				if f, ok := value.(float64); ok && f != float64(int64(f)) {
					return ogerrors.Issues{ogerrors.NewIssue(b.FragmentURI(), &ogerrors.SchemaValidationFailed{
						Section: ogerrors.Payload(ogerrors.PayloadBody),
						Pointer: b.FragmentURI(),
						Message: v.redactf("value must be an integer", "value must be an integer, got %v", f),
					})}
				}
			}
			return nil
		}
	}
	return ogerrors.Issues{ogerrors.NewIssue(b.FragmentURI(), &ogerrors.SchemaValidationFailed{
		Section: ogerrors.Payload(ogerrors.PayloadBody),
		Pointer: b.FragmentURI(),
		Message: fmt.Sprintf("expected type %s but got %s", strings.Join(types, " or "), dataType),
	})}
}

func (v *Validator) validateString(s string, schema map[string]any, b *jsonptr.Builder) ogerrors.Issues {
	var issues ogerrors.Issues

	if minLen, ok := intField(schema, "minLength"); ok && len(s) < minLen {
		issues = append(issues, v.fail(b, "string length %d is less than minimum %d", len(s), minLen))
	}
	if maxLen, ok := intField(schema, "maxLength"); ok && len(s) > maxLen {
		issues = append(issues, v.fail(b, "string length %d exceeds maximum %d", len(s), maxLen))
	}

	if pattern, ok := schema["pattern"].(string); ok && pattern != "" {
		matched, err := v.factory.matchPattern(pattern, s)
		if err != nil {
			issues = append(issues, v.fail(b, "invalid pattern %q: %v", pattern, err))
		} else if !matched {
			issues = append(issues, v.fail(b, "string does not match pattern %q", pattern))
		}
	}

	if format, ok := schema["format"].(string); ok && format != "" {
		issues = append(issues, v.validateFormat(s, format, b)...)
	}

	return issues
}

func (v *Validator) validateNumber(n float64, schema map[string]any, b *jsonptr.Builder) ogerrors.Issues {
	var issues ogerrors.Issues

	if min, exclusive, ok := v.minimumBound(schema); ok {
		if exclusive && n <= min {
			issues = append(issues, v.fail(b, "%s", v.redactf(fmt.Sprintf("value must be greater than %v", min), "value %v must be greater than %v", n, min)))
		} else if !exclusive && n < min {
			issues = append(issues, v.fail(b, "%s", v.redactf(fmt.Sprintf("value is less than minimum %v", min), "value %v is less than minimum %v", n, min)))
		}
	}
	if max, exclusive, ok := v.maximumBound(schema); ok {
		if exclusive && n >= max {
			issues = append(issues, v.fail(b, "%s", v.redactf(fmt.Sprintf("value must be less than %v", max), "value %v must be less than %v", n, max)))
		} else if !exclusive && n > max {
			issues = append(issues, v.fail(b, "%s", v.redactf(fmt.Sprintf("value exceeds maximum %v", max), "value %v exceeds maximum %v", n, max)))
		}
	}
	if mult, ok := floatField(schema, "multipleOf"); ok && mult != 0 {
		remainder := n / mult
		if remainder != float64(int64(remainder)) {
			issues = append(issues, v.fail(b, "%s", v.redactf(fmt.Sprintf("value is not a multiple of %v", mult), "value %v is not a multiple of %v", n, mult)))
		}
	}

	return issues
}

func (v *Validator) validateArray(arr []any, schema map[string]any, b *jsonptr.Builder) ogerrors.Issues {
	var issues ogerrors.Issues

	if minItems, ok := intField(schema, "minItems"); ok && len(arr) < minItems {
		issues = append(issues, v.fail(b, "array has %d items, minimum is %d", len(arr), minItems))
	}
	if maxItems, ok := intField(schema, "maxItems"); ok && len(arr) > maxItems {
		issues = append(issues, v.fail(b, "array has %d items, maximum is %d", len(arr), maxItems))
	}
	if unique, ok := schema["uniqueItems"].(bool); ok && unique && hasDuplicates(arr) {
		issues = append(issues, v.fail(b, "array items must be unique"))
	}

	if itemSchema, ok := schema["items"].(map[string]any); ok {
		for i, item := range arr {
			b.AppendIndex(i)
			issues = append(issues, v.validate(item, itemSchema, b)...)
			b.Pop()
		}
	}

	return issues
}

func (v *Validator) validateObject(obj map[string]any, schema map[string]any, b *jsonptr.Builder) ogerrors.Issues {
	var issues ogerrors.Issues

	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			name, ok := r.(string)
			if !ok {
				continue
			}
			if _, exists := obj[name]; !exists {
				b.Append(name)
				issues = append(issues, ogerrors.NewIssue(b.FragmentURI(), &ogerrors.RequiredPropertyMissing{
					Section:  ogerrors.Payload(ogerrors.PayloadBody),
					Property: name,
					Pointer:  b.FragmentURI(),
				}))
				b.Pop()
			}
		}
	}

	if minProps, ok := intField(schema, "minProperties"); ok && len(obj) < minProps {
		issues = append(issues, v.fail(b, "object has %d properties, minimum is %d", len(obj), minProps))
	}
	if maxProps, ok := intField(schema, "maxProperties"); ok && len(obj) > maxProps {
		issues = append(issues, v.fail(b, "object has %d properties, maximum is %d", len(obj), maxProps))
	}

	properties, _ := schema["properties"].(map[string]any)
	for name, value := range obj {
		propSchema, ok := properties[name].(map[string]any)
		if !ok {
			continue
		}
		b.Append(name)
		issues = append(issues, v.validate(value, propSchema, b)...)
		b.Pop()
	}

	if allowed, ok := schema["additionalProperties"].(bool); ok && !allowed {
		for name := range obj {
			if _, defined := properties[name]; !defined {
				b.Append(name)
				issues = append(issues, v.fail(b, "additional property %q is not allowed", name))
				b.Pop()
			}
		}
	}

	return issues
}

func (v *Validator) validateEnum(value any, enum []any, b *jsonptr.Builder) ogerrors.Issues {
	for _, allowed := range enum {
		if reflect.DeepEqual(value, allowed) {
			return nil
		}
	}
	return ogerrors.Issues{ogerrors.NewIssue(b.FragmentURI(), &ogerrors.SchemaValidationFailed{
		Section: ogerrors.Payload(ogerrors.PayloadBody),
		Pointer: b.FragmentURI(),
		Message: v.redactf("value is not one of the allowed values", "value %v is not one of the allowed values", value),
	})}
}

func (v *Validator) validateComposition(value any, schema map[string]any, b *jsonptr.Builder) ogerrors.Issues {
	var issues ogerrors.Issues

	if allOf, ok := schema["allOf"].([]any); ok {
		for i, sub := range allOf {
			subSchema, ok := sub.(map[string]any)
			if !ok {
				continue
			}
			subIssues := v.validate(value, subSchema, b)
			if len(subIssues) > 0 {
				issues = append(issues, v.fail(b, "allOf[%d] validation failed", i))
				issues = append(issues, subIssues...)
			}
		}
	}

	if anyOf, ok := schema["anyOf"].([]any); ok && len(anyOf) > 0 {
		matched := false
		for _, sub := range anyOf {
			subSchema, ok := sub.(map[string]any)
			if !ok {
				continue
			}
			if len(v.validate(value, subSchema, b)) == 0 {
				matched = true
				break
			}
		}
		if !matched {
			issues = append(issues, v.fail(b, "value does not match any of the anyOf schemas"))
		}
	}

	if oneOf, ok := schema["oneOf"].([]any); ok && len(oneOf) > 0 {
		matchCount := 0
		for _, sub := range oneOf {
			subSchema, ok := sub.(map[string]any)
			if !ok {
				continue
			}
			if len(v.validate(value, subSchema, b)) == 0 {
				matchCount++
			}
		}
		switch {
		case matchCount == 0:
			issues = append(issues, v.fail(b, "value does not match any of the oneOf schemas"))
		case matchCount > 1:
			issues = append(issues, v.fail(b, "value matches %d oneOf schemas, expected exactly 1", matchCount))
		}
	}

	return issues
}

// validateFormat checks "format" keywords with defined semantics. A
// violation is Warning severity: OAS treats format as advisory, so an
// unrecognized email address does not by itself invalidate the request.
// Unknown formats are ignored, per JSON Schema.
func (v *Validator) validateFormat(s, format string, b *jsonptr.Builder) ogerrors.Issues {
	fail := func(plain, withValue string) ogerrors.Issues {
		return ogerrors.Issues{ogerrors.NewWarning(b.FragmentURI(), &ogerrors.SchemaValidationFailed{
			Section: ogerrors.Payload(ogerrors.PayloadBody),
			Pointer: b.FragmentURI(),
			Message: v.redactf(plain, withValue, s),
		})}
	}
	switch format {
	case "email":
		if !stringutil.IsValidEmail(s) {
			return fail("value is not a valid email address", "%q is not a valid email address")
		}
	case "uri", "uri-reference":
		if !isValidURI(s) {
			return fail("value is not a valid URI", "%q is not a valid URI")
		}
	case "date":
		if !dateRegex.MatchString(s) {
			return fail("value is not a valid date (expected YYYY-MM-DD)", "%q is not a valid date (expected YYYY-MM-DD)")
		}
	case "date-time":
		if !dateTimeRegex.MatchString(s) {
			return fail("value is not a valid date-time (expected RFC 3339)", "%q is not a valid date-time (expected RFC 3339)")
		}
	case "uuid":
		if !uuidRegex.MatchString(s) {
			return fail("value is not a valid UUID", "%q is not a valid UUID")
		}
	}
	return nil
}

func (v *Validator) fail(b *jsonptr.Builder, format string, args ...any) ogerrors.Issue {
	return ogerrors.NewIssue(b.FragmentURI(), &ogerrors.SchemaValidationFailed{
		Section: ogerrors.Payload(ogerrors.PayloadBody),
		Pointer: b.FragmentURI(),
		Message: fmt.Sprintf(format, args...),
	})
}

// redactf returns withValue formatted with args, unless the factory was
// built with WithRedact, in which case it returns withoutValue (which
// carries no value) so sensitive data never reaches a log or error message.
func (v *Validator) redactf(withoutValue, withValue string, args ...any) string {
	if v.factory.redact {
		return withoutValue
	}
	return fmt.Sprintf(withValue, args...)
}

// minimumBound resolves the effective lower bound and whether it
// excludes the boundary itself. Draft4 (OAS 3.0) spells exclusivity as a
// bool sibling of "minimum"; 2020-12 (OAS 3.1) instead makes
// "exclusiveMinimum" carry the numeric bound directly, with no separate
// "minimum" required.
func (v *Validator) minimumBound(schema map[string]any) (bound float64, exclusive bool, ok bool) {
	if v.factory.draft == specversion.Draft202012 {
		if excl, ok := floatField(schema, "exclusiveMinimum"); ok {
			return excl, true, true
		}
		if min, ok := floatField(schema, "minimum"); ok {
			return min, false, true
		}
		return 0, false, false
	}
	min, ok := floatField(schema, "minimum")
	if !ok {
		return 0, false, false
	}
	excl, _ := schema["exclusiveMinimum"].(bool)
	return min, excl, true
}

func (v *Validator) maximumBound(schema map[string]any) (bound float64, exclusive bool, ok bool) {
	if v.factory.draft == specversion.Draft202012 {
		if excl, ok := floatField(schema, "exclusiveMaximum"); ok {
			return excl, true, true
		}
		if max, ok := floatField(schema, "maximum"); ok {
			return max, false, true
		}
		return 0, false, false
	}
	max, ok := floatField(schema, "maximum")
	if !ok {
		return 0, false, false
	}
	excl, _ := schema["exclusiveMaximum"].(bool)
	return max, excl, true
}
