// Package specversion maps an OpenAPI document's version string to the
// JSON-Schema draft its schema keywords follow.
package specversion

import (
	"strings"

	"github.com/erraggy/oashttpguard/ogerrors"
)

// Draft selects which JSON-Schema dialect schemabuild interprets keywords
// under.
type Draft int

const (
	// DraftUnknown is the zero value; Parse returns it only together with
	// an error.
	DraftUnknown Draft = iota
	// DraftSwagger2 is the Draft-4-compatible dialect used by Swagger 2.0.
	DraftSwagger2
	// Draft4 is the dialect used by OpenAPI 3.0.x (a JSON-Schema subset
	// with OAS-specific extensions such as "nullable").
	Draft4
	// Draft202012 is the dialect used by OpenAPI 3.1.x (plain
	// JSON-Schema 2020-12, including type arrays with "null").
	Draft202012
)

func (d Draft) String() string {
	switch d {
	case DraftSwagger2:
		return "swagger2"
	case Draft4:
		return "draft4"
	case Draft202012:
		return "2020-12"
	default:
		return "unknown"
	}
}

// Parse classifies an "openapi" (or, for Swagger 2.0, "swagger") version
// string into a Draft. "2.0" maps to DraftSwagger2; a "3.0" prefix maps to
// Draft4; a "3.1" prefix maps to Draft202012. Anything else is
// ogerrors.UnsupportedSpecVersion.
func Parse(version string) (Draft, error) {
	switch {
	case version == "2.0":
		return DraftSwagger2, nil
	case strings.HasPrefix(version, "3.0"):
		return Draft4, nil
	case strings.HasPrefix(version, "3.1"):
		return Draft202012, nil
	default:
		return DraftUnknown, &ogerrors.UnsupportedSpecVersion{Version: version}
	}
}

// DetectFromDocument inspects a decoded document root for "openapi" or
// "swagger" and returns the corresponding Draft and the raw version
// string that was found.
func DetectFromDocument(root map[string]any) (Draft, string, error) {
	if v, ok := root["openapi"].(string); ok {
		d, err := Parse(v)
		return d, v, err
	}
	if v, ok := root["swagger"].(string); ok {
		d, err := Parse(v)
		return d, v, err
	}
	return DraftUnknown, "", &ogerrors.UnsupportedSpecVersion{Version: ""}
}
