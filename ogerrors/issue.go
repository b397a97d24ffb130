package ogerrors

import "github.com/erraggy/oashttpguard/internal/severity"

// Issue is one finding from a multi-result validation pass (schema
// validation, parameter validation) where a single request or document node
// can fail more than one constraint at once. Err is always one of this
// package's typed errors; Pointer locates the offending node within the
// value under validation, not within the OpenAPI document.
//
// Most issues carry [severity.SeverityError] and should fail the request.
// Format keyword violations (email, uri, date, date-time, uuid) carry
// [severity.SeverityWarning]: OAS treats "format" as advisory, so a
// malformed email address does not by itself invalidate the request.
type Issue struct {
	Err      error
	Pointer  string
	Severity severity.Severity
}

// Error satisfies the error interface by delegating to the wrapped Err,
// so a single Issue can be returned or compared anywhere a plain error is
// expected.
func (i Issue) Error() string {
	if i.Err == nil {
		return "issue at " + i.Pointer
	}
	return i.Err.Error()
}

// Unwrap exposes the wrapped error to errors.Is/errors.As.
func (i Issue) Unwrap() error { return i.Err }

// NewIssue builds an error-severity Issue from err.
func NewIssue(pointer string, err error) Issue {
	return Issue{Err: err, Pointer: pointer, Severity: severity.SeverityError}
}

// NewWarning builds a warning-severity Issue from err.
func NewWarning(pointer string, err error) Issue {
	return Issue{Err: err, Pointer: pointer, Severity: severity.SeverityWarning}
}

// Issues is a collection of Issue, with a convenience predicate for the
// common case of asking "does this list contain anything that should fail
// the request".
type Issues []Issue

// HasErrors reports whether any issue in the list carries error (or
// higher) severity.
func (is Issues) HasErrors() bool {
	for _, i := range is {
		if i.Severity == severity.SeverityError || i.Severity == severity.SeverityCritical {
			return true
		}
	}
	return false
}
