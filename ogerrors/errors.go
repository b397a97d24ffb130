package ogerrors

import "fmt"

// --- InvalidPayload: the request is wrong. ---

// ValueExpected indicates a schema required a value to be present but the
// request supplied none (distinct from [FieldMissing], which concerns
// object properties specifically).
type ValueExpected struct {
	Section Section
	Pointer string
}

func (e *ValueExpected) Error() string {
	return fmt.Sprintf("value expected at %s (%s)", e.Pointer, e.Section)
}
func (e *ValueExpected) Unwrap() error { return nil }
func (e *ValueExpected) Is(target error) bool { return target == ErrInvalidPayload }

// RequiredPropertyMissing indicates an object body is missing a property
// its schema lists under "required".
type RequiredPropertyMissing struct {
	Section  Section
	Property string
	Pointer  string
}

func (e *RequiredPropertyMissing) Error() string {
	return fmt.Sprintf("required property %q missing at %s (%s)", e.Property, e.Pointer, e.Section)
}
func (e *RequiredPropertyMissing) Unwrap() error { return nil }
func (e *RequiredPropertyMissing) Is(target error) bool { return target == ErrInvalidPayload }

// RequiredParameterMissing indicates a required header, query, path, or
// cookie parameter was absent from the request.
type RequiredParameterMissing struct {
	Section Section
	Name    string
}

func (e *RequiredParameterMissing) Error() string {
	return fmt.Sprintf("required parameter %q missing (%s)", e.Name, e.Section)
}
func (e *RequiredParameterMissing) Unwrap() error { return nil }
func (e *RequiredParameterMissing) Is(target error) bool { return target == ErrInvalidPayload }

// SchemaValidationFailed indicates a value failed JSON-Schema validation
// (type, string/number/array/object constraints, enum, or composition).
type SchemaValidationFailed struct {
	Section Section
	Pointer string
	Message string
	Cause   error
}

func (e *SchemaValidationFailed) Error() string {
	msg := fmt.Sprintf("schema validation failed at %s (%s)", e.Pointer, e.Section)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}
func (e *SchemaValidationFailed) Unwrap() error { return e.Cause }
func (e *SchemaValidationFailed) Is(target error) bool { return target == ErrInvalidPayload }

// MissingOperation indicates the request's method/path combination does not
// match any path template and method pair in the document.
type MissingOperation struct {
	Method string
	Path   string
}

func (e *MissingOperation) Error() string {
	return fmt.Sprintf("no operation for %s %s", e.Method, e.Path)
}
func (e *MissingOperation) Unwrap() error { return nil }
func (e *MissingOperation) Is(target error) bool { return target == ErrInvalidPayload }

// UnableToParse indicates a primitive coercion of a raw string (path,
// query, header, or cookie value) failed against its declared type.
type UnableToParse struct {
	Section Section
	Raw     string
	Cause   error
}

func (e *UnableToParse) Error() string {
	msg := fmt.Sprintf("unable to parse %q (%s)", e.Raw, e.Section)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}
func (e *UnableToParse) Unwrap() error { return e.Cause }
func (e *UnableToParse) Is(target error) bool { return target == ErrInvalidPayload }

// PathNotFound indicates the trie walk reached a dead end for the request
// path (no static or coercible parameter edge matched).
type PathNotFound struct {
	Path   string
	Method string
}

func (e *PathNotFound) Error() string {
	return fmt.Sprintf("path not found: %s %s", e.Method, e.Path)
}
func (e *PathNotFound) Unwrap() error { return nil }
func (e *PathNotFound) Is(target error) bool { return target == ErrInvalidPayload }

// FieldExpected indicates a security requirement alternative could not be
// satisfied by the granted scopes (raised once every alternative in the
// operation's security array has been exhausted).
type FieldExpected struct {
	Section Section
	Field   string
}

func (e *FieldExpected) Error() string {
	return fmt.Sprintf("field %q expected (%s)", e.Field, e.Section)
}
func (e *FieldExpected) Unwrap() error { return nil }
func (e *FieldExpected) Is(target error) bool { return target == ErrInvalidPayload }

// --- MismatchingSchema: a bridge kind. ---

// FieldMissing indicates a property is absent from an object node. Optional
// accessors (GetOptional) treat this as Absent; required accessors
// (GetRequired) treat it as a failure.
type FieldMissing struct {
	Section Section
	Field   string
	Pointer string
}

func (e *FieldMissing) Error() string {
	return fmt.Sprintf("field %q missing at %s (%s)", e.Field, e.Pointer, e.Section)
}
func (e *FieldMissing) Unwrap() error { return nil }
func (e *FieldMissing) Is(target error) bool { return target == ErrMismatchingSchema }

// --- InvalidSpec: the document itself is wrong. ---

// UnsupportedSpecVersion indicates the document's openapi/swagger field did
// not match a recognized draft.
type UnsupportedSpecVersion struct {
	Version string
}

func (e *UnsupportedSpecVersion) Error() string {
	return fmt.Sprintf("unsupported spec version %q", e.Version)
}
func (e *UnsupportedSpecVersion) Unwrap() error { return nil }
func (e *UnsupportedSpecVersion) Is(target error) bool { return target == ErrInvalidSpec }

// DefinitionExpected indicates a $ref pointed at a location that does not
// contain a definition (the pointer resolves to nothing).
type DefinitionExpected struct {
	Pointer string
}

func (e *DefinitionExpected) Error() string {
	return fmt.Sprintf("definition expected at %s", e.Pointer)
}
func (e *DefinitionExpected) Unwrap() error { return nil }
func (e *DefinitionExpected) Is(target error) bool { return target == ErrInvalidSpec }

// UnexpectedType indicates a document node's JSON structure did not match
// what the schema keyword in play required (e.g. a $ref value that is not
// a string).
type UnexpectedType struct {
	Pointer string
	Want    string
	Got     string
}

func (e *UnexpectedType) Error() string {
	return fmt.Sprintf("unexpected type at %s: want %s, got %s", e.Pointer, e.Want, e.Got)
}
func (e *UnexpectedType) Unwrap() error { return nil }
func (e *UnexpectedType) Is(target error) bool { return target == ErrInvalidSpec }

// CircularReference indicates a $ref resolution chain re-entered a pointer
// already present in the current resolution's seen set.
type CircularReference struct {
	Pointer string
	Chain   []string
}

func (e *CircularReference) Error() string {
	return fmt.Sprintf("circular reference at %s (chain: %v)", e.Pointer, e.Chain)
}
func (e *CircularReference) Unwrap() error { return nil }
func (e *CircularReference) Is(target error) bool { return target == ErrInvalidSpec }

// InvalidRef indicates a $ref string itself could not be resolved into a
// pointer (malformed syntax, or an external/non-local reference).
type InvalidRef struct {
	Ref   string
	Cause error
}

func (e *InvalidRef) Error() string {
	msg := fmt.Sprintf("invalid ref %q", e.Ref)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}
func (e *InvalidRef) Unwrap() error { return e.Cause }
func (e *InvalidRef) Is(target error) bool { return target == ErrInvalidSpec }

// InvalidType indicates a schema's "type" keyword itself carries an
// unrecognized value (neither a known primitive name nor, for 3.1, an
// array of them).
type InvalidType struct {
	Pointer string
	Value   any
}

func (e *InvalidType) Error() string {
	return fmt.Sprintf("invalid type keyword at %s: %v", e.Pointer, e.Value)
}
func (e *InvalidType) Unwrap() error { return nil }
func (e *InvalidType) Is(target error) bool { return target == ErrInvalidSpec }

// TypeMismatch indicates a Traverser typed accessor (AsString, AsBool,
// AsObject, AsArray) found a node of a different JSON type than requested.
type TypeMismatch struct {
	Pointer string
	Want    string
	Got     string
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch at %s: want %s, got %s", e.Pointer, e.Want, e.Got)
}
func (e *TypeMismatch) Unwrap() error { return nil }
func (e *TypeMismatch) Is(target error) bool { return target == ErrInvalidSpec }

// --- Resource limits: ambient, outside the three-kind taxonomy. ---

// ResourceLimitExceeded indicates a configured ceiling (max $ref depth, max
// cached refs) was exceeded while loading or resolving a document.
type ResourceLimitExceeded struct {
	ResourceType string
	Limit        int64
	Actual       int64
}

func (e *ResourceLimitExceeded) Error() string {
	return fmt.Sprintf("resource limit exceeded: %s (limit %d, actual %d)", e.ResourceType, e.Limit, e.Actual)
}
func (e *ResourceLimitExceeded) Unwrap() error { return nil }
func (e *ResourceLimitExceeded) Is(target error) bool { return target == ErrResourceLimit }

// --- Validator cache: the outer collaborator's own bookkeeping. ---

// ValidatorAlreadyExists indicates an insert-if-absent call on the
// validator cache found id already present.
type ValidatorAlreadyExists struct {
	ID string
}

func (e *ValidatorAlreadyExists) Error() string {
	return fmt.Sprintf("validator %q already exists", e.ID)
}
func (e *ValidatorAlreadyExists) Unwrap() error { return nil }
func (e *ValidatorAlreadyExists) Is(target error) bool { return target == ErrCache }

// ValidatorNotFound indicates a get, replace, or remove call on the
// validator cache named an id that is not present.
type ValidatorNotFound struct {
	ID string
}

func (e *ValidatorNotFound) Error() string {
	return fmt.Sprintf("validator %q not found", e.ID)
}
func (e *ValidatorNotFound) Unwrap() error { return nil }
func (e *ValidatorNotFound) Is(target error) bool { return target == ErrCache }

// FailedToCreateValidator wraps whatever diagnostic the cache's
// construction function returned when building a new traverser failed.
type FailedToCreateValidator struct {
	ID    string
	Cause error
}

func (e *FailedToCreateValidator) Error() string {
	return fmt.Sprintf("failed to create validator %q: %s", e.ID, e.Cause)
}
func (e *FailedToCreateValidator) Unwrap() error { return e.Cause }
func (e *FailedToCreateValidator) Is(target error) bool { return target == ErrCache }
