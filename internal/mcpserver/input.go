package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/oashttpguard/oasload"
	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/specversion"
)

// specInput represents the three ways an OpenAPI document can be handed to
// a tool. Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

// resolvedSpec bundles a built Traverser with its detected draft so callers
// don't need a second pass over the document to pick a schemabuild draft.
type resolvedSpec struct {
	tr    *oastree.Traverser
	draft specversion.Draft
}

// cacheKey derives a stable key for s, or "" when s can't be cached (e.g.
// a file that can't be stat'd).
func cacheKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return fmt.Sprintf("content:%s", hex.EncodeToString(h[:]))
	case s.URL != "":
		return fmt.Sprintf("url:%s", s.URL)
	default:
		return ""
	}
}

// resolve builds (or fetches from cache) the Traverser for whichever input
// was provided. A cache hit skips both the read and the document parse.
func (s specInput) resolve(ctx context.Context) (*resolvedSpec, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or raise OASHTTPGUARD_MAX_INLINE_SIZE",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key = cacheKey(s)
		switch {
		case s.File != "":
			ttl = cfg.CacheFileTTL
		case s.URL != "":
			ttl = cfg.CacheURLTTL
		default:
			ttl = cfg.CacheContentTTL
		}
	}

	if key != "" {
		if tr := specCache.get(key); tr != nil {
			return &resolvedSpec{tr: tr, draft: draftOf(tr)}, nil
		}
	}

	tr, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if key != "" {
		specCache.putWithTTL(key, tr, ttl)
	}
	return &resolvedSpec{tr: tr, draft: draftOf(tr)}, nil
}

func draftOf(tr *oastree.Traverser) specversion.Draft {
	draft, _, err := specversion.DetectFromDocument(tr.Root())
	if err != nil {
		return specversion.DraftUnknown
	}
	return draft
}

// load reads and parses the document fresh, without consulting specCache.
func (s specInput) load(ctx context.Context) (*oastree.Traverser, error) {
	opts := []oasload.Option{oasload.WithMaxFileSize(cfg.MaxInlineSize)}
	switch {
	case s.File != "":
		opts = append(opts, oasload.WithFilePath(s.File))
	case s.Content != "":
		opts = append(opts, oasload.WithBytes([]byte(s.Content)))
	case s.URL != "":
		data, err := fetchURL(ctx, s.URL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, oasload.WithBytes(data))
	}
	return oasload.Load(opts...)
}

// fetchURL retrieves a spec document over HTTP(S), routing through the
// SSRF-safe client unless private IPs are explicitly allowed.
func fetchURL(ctx context.Context, url string) ([]byte, error) {
	client := http.DefaultClient
	if !cfg.AllowPrivateIPs {
		client = newSafeHTTPClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, cfg.MaxInlineSize+1))
}
