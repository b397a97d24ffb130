// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes oashttpguard's request validation as a tool over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oashttpguard"
)

const serverInstructions = `oashttpguard MCP server — validates an HTTP request against an OpenAPI 3.0.x/3.1.x operation.

Configuration: All defaults are configurable via OASHTTPGUARD_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASHTTPGUARD_CACHE_FILE_TTL (default: 15m) — cache TTL for local file specs
- OASHTTPGUARD_CACHE_URL_TTL (default: 5m) — cache TTL for URL-fetched specs
- OASHTTPGUARD_CACHE_ENABLED (default: true) — disable spec caching entirely
- OASHTTPGUARD_VALIDATE_STRICT (default: false) — reject undeclared query/header/cookie values by default
- OASHTTPGUARD_MAX_INLINE_SIZE (default: 10MiB) — ceiling on inline spec content and file/URL reads
- OASHTTPGUARD_ALLOW_PRIVATE_IPS (default: false) — allow URL-sourced specs to resolve to private/loopback IPs

Caching: resolved specs are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries use a shorter TTL. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oashttpguard", Version: oashttpguard.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "oasvalidate",
		Description: "Validate an HTTP request against the matching operation in an OpenAPI Specification document. Checks body, headers, query parameters, path parameters, cookies, and security scopes, in that order. Returns every issue collected before the first failing stage, including warnings from stages that otherwise passed. Strict mode (reject undeclared query/header/cookie values) defaults to OASHTTPGUARD_VALIDATE_STRICT but can be overridden per call.",
	}, handleOASValidate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.IssueLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.IssueLimit
	}
	if limit > cfg.MaxIssueLimit {
		limit = cfg.MaxIssueLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
