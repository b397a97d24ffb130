package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oashttpguard/internal/testutil"
	"github.com/erraggy/oashttpguard/oastree"
)

func buildTestTraverser(t *testing.T) *oastree.Traverser {
	t.Helper()
	tr, err := oastree.New(testutil.NewSimpleOAS3Document())
	require.NoError(t, err)
	return tr
}

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	path := testutil.WriteTempYAML(t, testutil.NewSimpleOAS3Document())
	input := specInput{File: path}
	result, err := input.resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Test API", result.tr.Root()["info"].(map[string]any)["title"])
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	content := `openapi: "3.0.0"
info:
  title: Test
  version: "1.0"
paths: {}
`
	input := specInput{Content: content}
	result, err := input.resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "3.0.0", result.tr.Root()["openapi"])
}

func TestSpecInput_ResolveNoneProvided(t *testing.T) {
	input := specInput{}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveMultipleProvided(t *testing.T) {
	input := specInput{File: "foo.yaml", Content: "bar"}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file, url, or content must be provided")
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	specCache.reset()
	input := specInput{File: "/nonexistent/path.yaml"}
	_, err := input.resolve(context.Background())
	assert.Error(t, err)
}

func TestSpecInput_ResolveContentTooLarge(t *testing.T) {
	origCfg := cfg
	cfg = &serverConfig{CacheEnabled: true, CacheMaxSize: 10, MaxInlineSize: 4}
	t.Cleanup(func() { cfg = origCfg })

	input := specInput{Content: "way too long to fit"}
	_, err := input.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	path := testutil.WriteTempYAML(t, testutil.NewSimpleOAS3Document())
	input := specInput{File: path}

	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, result1.tr, result2.tr, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()

	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	content1 := []byte(`openapi: "3.0.0"
info:
  title: Test V1
  version: "1.0"
paths: {}
`)
	require.NoError(t, os.WriteFile(path, content1, 0600))

	input := specInput{File: path}
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Test V1", result1.tr.Root()["info"].(map[string]any)["title"])

	content2 := []byte(`openapi: "3.0.0"
info:
  title: Test V2
  version: "2.0"
paths: {}
`)
	require.NoError(t, os.WriteFile(path, content2, 0600))

	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, result1.tr, result2.tr)
	assert.Equal(t, "Test V2", result2.tr.Root()["info"].(map[string]any)["title"])
}

func TestSpecCache_ContentHash(t *testing.T) {
	specCache.reset()
	content := `openapi: "3.0.0"
info:
  title: Hash Test
  version: "1.0"
paths: {}
`
	input := specInput{Content: content}

	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, result1.tr, result2.tr)
}

func TestSpecCache_LRUEviction(t *testing.T) {
	specCache.reset()

	var firstKey string
	for i := range 11 {
		content := `openapi: "3.0.0"
info:
  title: "Spec ` + string(rune('A'+i)) + `"
  version: "1.0"
paths: {}
`
		if i == 0 {
			firstKey = cacheKey(specInput{Content: content})
		}
		input := specInput{Content: content}
		_, err := input.resolve(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 10, specCache.size())
	assert.Nil(t, specCache.get(firstKey), "expected oldest entry to be evicted")
}

func TestSpecInput_ResolveCacheDisabled(t *testing.T) {
	specCache.reset()
	origCfg := cfg
	cfg = &serverConfig{
		CacheEnabled:       false,
		CacheMaxSize:       10,
		CacheFileTTL:       15 * time.Minute,
		CacheURLTTL:        5 * time.Minute,
		CacheContentTTL:    15 * time.Minute,
		CacheSweepInterval: 60 * time.Second,
		MaxInlineSize:      10 * 1024 * 1024,
	}
	t.Cleanup(func() { cfg = origCfg })

	path := testutil.WriteTempYAML(t, testutil.NewSimpleOAS3Document())
	input := specInput{File: path}
	result1, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, specCache.size(), "cache should remain empty when disabled")

	result2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, result1.tr, result2.tr, "each resolve should parse fresh when cache disabled")
}

func TestSpecCacheStore_TTLExpiry(t *testing.T) {
	c := newSpecCacheStore(10)
	tr := buildTestTraverser(t)

	c.putWithTTL("key1", tr, 1*time.Millisecond)
	assert.Equal(t, 1, c.size())

	time.Sleep(5 * time.Millisecond)

	assert.Nil(t, c.get("key1"))
	assert.Equal(t, 0, c.size())
}

func TestSpecCacheStore_TTLNotExpired(t *testing.T) {
	c := newSpecCacheStore(10)
	tr := buildTestTraverser(t)

	c.putWithTTL("key1", tr, 1*time.Hour)
	assert.Same(t, tr, c.get("key1"))
}

func TestSpecCacheStore_Sweep(t *testing.T) {
	c := newSpecCacheStore(10)
	tr := buildTestTraverser(t)

	c.putWithTTL("expired", tr, 1*time.Millisecond)
	c.putWithTTL("valid", tr, 1*time.Hour)

	time.Sleep(5 * time.Millisecond)
	c.sweep()

	assert.Equal(t, 1, c.size())
	assert.Nil(t, c.get("expired"))
	assert.NotNil(t, c.get("valid"))
}

func TestSpecCacheStore_Sweeper(t *testing.T) {
	c := newSpecCacheStore(10)
	tr := buildTestTraverser(t)
	c.putWithTTL("sweep-me", tr, 1*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.startSweeper(ctx, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return c.size() == 0
	}, time.Second, 5*time.Millisecond, "sweeper should have removed expired entry")
}
