// Package ogerrors provides the structured error taxonomy returned by
// oashttpguard's validation pipeline.
//
// Errors partition into three kinds, each with a category sentinel for use
// with [errors.Is]:
//
//   - InvalidPayload ([ErrInvalidPayload]): the request is wrong.
//   - MismatchingSchema ([ErrMismatchingSchema]): a bridge kind — treated as
//     "absent" by optional traverser accessors, "failure" by required ones.
//   - InvalidSpec ([ErrInvalidSpec]): the OpenAPI document itself is wrong.
//
// A fourth, ambient category ([ErrResourceLimit]) covers configured resource
// ceilings (max ref depth, max cached refs) hit while loading or resolving a
// document; it sits outside the three-kind taxonomy because it is a loader
// concern, not a validation outcome.
//
// A fifth, also ambient category ([ErrCache]) covers the outer validator
// cache's own bookkeeping failures (double insert, missing key, failed
// construction) — not a property of any one request or document.
//
// Every error also carries a [Section] describing where in the request or
// specification it originated, so callers can tell "your request is wrong"
// from "the spec is wrong" without string-matching messages.
//
// # Usage with errors.As
//
//	result, err := orchestrator.Validate(ctx, req, scopes)
//	var missing *ogerrors.RequiredPropertyMissing
//	if errors.As(err, &missing) {
//	    // missing.Property, missing.Section
//	}
package ogerrors

import "errors"

// Category sentinels for use with errors.Is().
var (
	// ErrInvalidPayload indicates the incoming request violates the spec.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrMismatchingSchema indicates a field is absent where a schema
	// expected it; optional accessors treat this as Absent, required
	// accessors treat it as failure.
	ErrMismatchingSchema = errors.New("mismatching schema")

	// ErrInvalidSpec indicates the OpenAPI document itself is malformed.
	ErrInvalidSpec = errors.New("invalid specification")

	// ErrResourceLimit indicates a configured resource ceiling was exceeded
	// while loading or resolving a document.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrCache indicates an outer validator cache operation failed for
	// reasons unrelated to any single request or document: a key collision,
	// a missing key, or a construction failure.
	ErrCache = errors.New("validator cache error")
)
