package reqguard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/ogerrors"
)

// ScopeValidator checks an operation's security requirements against a set
// of scopes the caller has already been granted (e.g. from a verified JWT).
// It does not itself perform authentication; it only checks the resulting
// scope set against what the operation declares it needs.
type ScopeValidator struct {
	tr *oastree.Traverser
}

// NewScopeValidator builds a ScopeValidator.
func NewScopeValidator(tr *oastree.Traverser) *ScopeValidator {
	return &ScopeValidator{tr: tr}
}

// Validate runs the spec.md §4.8 algorithm: operation-level "security"
// falling back to the document root's, an empty array always passing, and
// any one security-requirement alternative passing the whole check.
func (v *ScopeValidator) Validate(op *oastree.Operation, granted map[string]struct{}) ogerrors.Issues {
	defs, err := v.securityRequirements(op)
	if err != nil {
		return ogerrors.Issues{ogerrors.NewIssue("", err)}
	}
	if len(defs) == 0 {
		return nil
	}

	for _, alt := range defs {
		if v.alternativeSatisfied(alt, granted) {
			return nil
		}
	}

	return ogerrors.Issues{ogerrors.NewIssue("", &ogerrors.FieldExpected{
		Section: ogerrors.Payload(ogerrors.PayloadSecurity),
		Field:   grantedScopesString(granted),
	})}
}

func (v *ScopeValidator) securityRequirements(op *oastree.Operation) ([]map[string]any, error) {
	raw, present, err := v.tr.GetOptional(op.Node, "security")
	if err != nil {
		return nil, err
	}
	if !present {
		raw, present, err = v.tr.GetOptional(v.tr.Root(), "security")
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, nil
		}
	}
	arr, err := v.tr.AsArray(raw)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		m, err := v.tr.AsObject(item)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// alternativeSatisfied checks one security-requirement object: every
// scheme's listed scopes must all be present in granted.
func (v *ScopeValidator) alternativeSatisfied(alt map[string]any, granted map[string]struct{}) bool {
	for _, rawScopes := range alt {
		scopes, ok := rawScopes.([]any)
		if !ok {
			continue
		}
		for _, rawScope := range scopes {
			scope, ok := rawScope.(string)
			if !ok {
				continue
			}
			if _, has := granted[scope]; !has {
				return false
			}
		}
	}
	return true
}

func grantedScopesString(granted map[string]struct{}) string {
	scopes := make([]string, 0, len(granted))
	for s := range granted {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)
	return fmt.Sprintf("[%s]", strings.Join(scopes, " "))
}
