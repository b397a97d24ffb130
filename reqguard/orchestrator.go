package reqguard

import (
	"context"

	"github.com/erraggy/oashttpguard/internal/severity"
	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/schemabuild"
	"github.com/erraggy/oashttpguard/specversion"
)

// Logger is reqguard's structured logging interface, identical in shape to
// oastree.Logger so one adapter (e.g. oastree.NewSlogAdapter) serves both.
type Logger = oastree.Logger

// Result is what a successful (or partially successful) Orchestrator.Validate
// call reports back: the resolved operation and the issues collected by
// every stage that ran before validation stopped.
type Result struct {
	Operation *oastree.Operation
	Issues    ogerrors.Issues
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithStrictMode rejects query parameters, headers, and cookies present on
// the request but not declared in the specification.
func WithStrictMode() Option {
	return func(o *Orchestrator) { o.StrictMode = true }
}

// WithLogger attaches a Logger the Orchestrator reports resolution and
// validation outcomes through.
func WithLogger(l Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// Orchestrator resolves a request's operation and runs the full
// body → headers → query → path → cookies → scopes validation pipeline
// against it.
type Orchestrator struct {
	tr    *oastree.Traverser
	draft specversion.Draft

	body   *RequestBodyValidator
	header *ParameterValidator
	query  *ParameterValidator
	path   *ParameterValidator
	cookie *ParameterValidator
	scope  *ScopeValidator
	logger Logger

	StrictMode bool
}

// NewOrchestrator wires every validator against tr and draft. factory
// validates bodies and query/path parameters; sensitiveFactory (normally
// built with schemabuild.WithRedact) validates headers and cookies, so
// credential-bearing values never surface in an error message.
func NewOrchestrator(tr *oastree.Traverser, draft specversion.Draft, factory, sensitiveFactory *schemabuild.Factory, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		tr:     tr,
		draft:  draft,
		body:   NewRequestBodyValidator(tr, factory, draft),
		header: NewParameterValidator(tr, sensitiveFactory, Header),
		query:  NewParameterValidator(tr, factory, Query),
		path:   NewParameterValidator(tr, factory, Path),
		cookie: NewParameterValidator(tr, sensitiveFactory, Cookie),
		scope:  NewScopeValidator(tr),
		logger: oastree.NopLogger{},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.header.StrictMode = o.StrictMode
	o.query.StrictMode = o.StrictMode
	o.cookie.StrictMode = o.StrictMode
	return o
}

// Validate resolves req's operation and runs body, header, query, path,
// cookie, and scope validation in that fixed order, stopping at the first
// stage whose issues include at least one error-severity finding. Warnings
// from an otherwise-clean stage are carried into Result and checking
// continues. ctx is accepted for cancellation/deadline propagation by
// embedders; the validators themselves are CPU-only and never block.
func (o *Orchestrator) Validate(ctx context.Context, req Request, grantedScopes map[string]struct{}) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	op, err := o.tr.GetOperation(req.Path, req.Method)
	if err != nil {
		o.logger.Warn("operation resolution failed", "method", req.Method, "path", req.Path, "error", err)
		return nil, err
	}
	result := &Result{Operation: op}

	stages := []func() ogerrors.Issues{
		func() ogerrors.Issues { return o.body.Validate(op, req) },
		func() ogerrors.Issues { return o.header.Validate(op, req) },
		func() ogerrors.Issues { return o.query.Validate(op, req) },
		func() ogerrors.Issues { return o.path.Validate(op, req) },
		func() ogerrors.Issues { return o.cookie.Validate(op, req) },
		func() ogerrors.Issues { return o.scope.Validate(op, grantedScopes) },
	}

	for _, stage := range stages {
		issues := stage()
		result.Issues = append(result.Issues, issues...)
		if issues.HasErrors() {
			o.logger.Warn("request validation failed", "method", req.Method, "path", req.Path, "issues", len(issues))
			return result, firstError(issues)
		}
	}

	o.logger.Debug("request validated", "method", req.Method, "path", req.Path)
	return result, nil
}

func firstError(issues ogerrors.Issues) error {
	for _, issue := range issues {
		if issue.Severity == severity.SeverityError || issue.Severity == severity.SeverityCritical {
			return issue.Err
		}
	}
	return issues[0].Err
}
