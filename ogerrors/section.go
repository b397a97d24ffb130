package ogerrors

// SectionKind distinguishes whether a Section locates a problem in the
// specification document or in the payload of an incoming request.
type SectionKind int

const (
	// SectionSpecification marks a Section as describing a location inside
	// the OpenAPI document.
	SectionSpecification SectionKind = iota
	// SectionPayload marks a Section as describing a location inside the
	// request being validated.
	SectionPayload
)

// SpecPart enumerates the parts of a specification document a
// Specification Section can point at.
type SpecPart int

const (
	SpecPaths SpecPart = iota
	SpecComponents
	SpecSecurity
	SpecOther
)

func (p SpecPart) String() string {
	switch p {
	case SpecPaths:
		return "paths"
	case SpecComponents:
		return "components"
	case SpecSecurity:
		return "security"
	default:
		return "other"
	}
}

// PayloadPart enumerates the parts of an incoming request a Payload
// Section can point at.
type PayloadPart int

const (
	PayloadBody PayloadPart = iota
	PayloadHeader
	PayloadQuery
	PayloadPath
	PayloadSecurity
	PayloadOther
)

func (p PayloadPart) String() string {
	switch p {
	case PayloadBody:
		return "body"
	case PayloadHeader:
		return "header"
	case PayloadQuery:
		return "query"
	case PayloadPath:
		return "path"
	case PayloadSecurity:
		return "security"
	default:
		return "other"
	}
}

// Section tags an error with the location it came from: either a part of
// the specification document, or a part of the request payload.
type Section struct {
	kind        SectionKind
	specPart    SpecPart
	payloadPart PayloadPart
}

// Specification builds a Section describing a location in the OpenAPI
// document.
func Specification(part SpecPart) Section {
	return Section{kind: SectionSpecification, specPart: part}
}

// Payload builds a Section describing a location in the request under
// validation.
func Payload(part PayloadPart) Section {
	return Section{kind: SectionPayload, payloadPart: part}
}

// Kind reports whether this Section names a specification or payload
// location.
func (s Section) Kind() SectionKind {
	return s.kind
}

// String renders the Section as "specification:<part>" or "payload:<part>".
func (s Section) String() string {
	if s.kind == SectionSpecification {
		return "specification:" + s.specPart.String()
	}
	return "payload:" + s.payloadPart.String()
}
