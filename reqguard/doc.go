// Package reqguard validates an incoming HTTP request against an OpenAPI
// operation resolved by an [github.com/erraggy/oashttpguard/oastree.Traverser].
// It is the only package in this module that knows about net/http: everything
// else works against [github.com/erraggy/oashttpguard/schemabuild] schemas and
// plain Go values.
//
// [Orchestrator] ties together [RequestBodyValidator], [ParameterValidator]
// (one per [Location]), and [ScopeValidator] into a single fixed order:
// body, then header, query, path and cookie parameters, then scopes. [Request]
// is the neutral view every validator reads from; [FromHTTP] is the one
// adapter this module ships for net/http itself.
package reqguard
