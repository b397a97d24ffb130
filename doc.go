// Package oashttpguard provides a runtime OpenAPI 3.0.x/3.1.x request
// validator: given a parsed document and an incoming HTTP request, it
// resolves the matching operation and checks the request's body, headers,
// query parameters, path parameters, cookies, and security scopes against
// what that operation declares.
//
// # Overview
//
// The library is organized around a small pipeline:
//
//   - oasload: reads a document from a file, reader, or byte slice and
//     builds a [oastree.Traverser] over it.
//   - oastree: navigates the document — $ref resolution, operation lookup
//     by method and path (via routetrie), typed node accessors.
//   - schemabuild: compiles a schema node reachable from a Traverser into a
//     reusable [schemabuild.Validator].
//   - reqguard: the request-side orchestrator. [reqguard.NewOrchestrator]
//     wires a Traverser and two schemabuild Factories (one redacting,
//     for headers and cookies) into a fixed validation pipeline.
//   - guardcache: an optional collaborator for embedders hosting more than
//     one document (e.g. one per API version) behind a single process.
//   - ogerrors: the structured error taxonomy every validator in this
//     module returns findings through.
//
// # Quick start
//
//	tr, err := oasload.Load(oasload.WithFilePath("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	draft, _, err := specversion.DetectFromDocument(tr.Root())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	factory := schemabuild.NewFactory(tr, draft)
//	sensitive := schemabuild.NewFactory(tr, draft, schemabuild.WithRedact())
//	orch := reqguard.NewOrchestrator(tr, draft, factory, sensitive)
//
//	req, err := reqguard.FromHTTP(httpReq)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := orch.Validate(ctx, req, grantedScopes)
//	if err != nil {
//		// result.Issues still carries every finding collected before the
//		// failing stage, plus any warnings from stages that passed.
//	}
//
// # Command-line and MCP interfaces
//
// In addition to the library packages, oashttpguard provides a CLI
// (cmd/oashttpguard) with a validate subcommand, and an MCP server
// (internal/mcpserver) exposing the same validation as a tool over stdio.
package oashttpguard
