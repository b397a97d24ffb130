package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings for resolved specs.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// oasvalidate tool defaults.
	ValidateStrict bool

	// IssueLimit is the default number of issues returned when a call
	// doesn't specify limit; MaxIssueLimit is the ceiling no limit value
	// can exceed, regardless of what the caller requests.
	IssueLimit    int
	MaxIssueLimit int

	// MaxInlineSize bounds both an inline "content" spec and the bytes read
	// from a file path or URL, mirroring oasload's own document-size guard.
	MaxInlineSize int64

	// AllowPrivateIPs disables the SSRF guard on URL-sourced specs. Off by
	// default since an MCP client can hand an agent-controlled URL to a
	// tool running on a trusted network.
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASHTTPGUARD_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASHTTPGUARD_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASHTTPGUARD_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OASHTTPGUARD_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:        envDuration("OASHTTPGUARD_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:    envDuration("OASHTTPGUARD_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASHTTPGUARD_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ValidateStrict:     envBool("OASHTTPGUARD_VALIDATE_STRICT", false),
		IssueLimit:         envInt("OASHTTPGUARD_ISSUE_LIMIT", 100),
		MaxIssueLimit:      envInt("OASHTTPGUARD_MAX_ISSUE_LIMIT", 1000),
		MaxInlineSize:      envInt64("OASHTTPGUARD_MAX_INLINE_SIZE", 10*1024*1024),
		AllowPrivateIPs:    envBool("OASHTTPGUARD_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int64 env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
