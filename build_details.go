package oashttpguard

import "fmt"

var (
	// version is set via ldflags during build by GoReleaser.
	// For development builds, this shows "dev".
	version = "dev"
)

// Version returns the compiled version, or "dev" when run from source.
func Version() string {
	return version
}

// UserAgent returns the User-Agent string an embedder's URL-fetching code
// (e.g. the MCP server resolving a spec by URL) should send.
func UserAgent() string {
	return fmt.Sprintf("oashttpguard/%s", version)
}
