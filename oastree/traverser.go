// Package oastree owns the immutable raw JSON value tree decoded from an
// OpenAPI document and provides lazy, memoized $ref resolution plus typed
// accessors over it. It never parses YAML/JSON itself (see the oasload
// package for that) and never validates payloads (see schemabuild and
// reqguard); its only job is safe, cached traversal of the document the
// way [spec 4.4] describes.
package oastree

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/erraggy/oashttpguard/jsonptr"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/routetrie"
)

// RootID is the synthetic "$id" stamped onto the document root at
// construction, giving every resolved sub-tree a stable anchor even when
// the source document declares none.
const RootID = "@@root"

// Traverser owns the decoded document tree. It is safe for concurrent use;
// reference and operation lookups never mutate the tree, only the
// traverser's own caches.
type Traverser struct {
	root   map[string]any
	logger Logger

	maxRefDepth   int
	maxCachedRefs int

	refCache   sync.Map // pointer string -> any
	refCount   int64
	refGroup   singleflight.Group

	trie    *routetrie.Trie
	opCache sync.Map // "method path" -> *Operation
	opGroup singleflight.Group
}

// New builds a Traverser over doc, which must decode to a JSON object
// (map[string]any) at its root — typically the value returned by
// oasload.Load.
func New(doc any, opts ...Option) (*Traverser, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &ogerrors.UnexpectedType{Pointer: "#", Want: "object", Got: fmt.Sprintf("%T", doc)}
	}
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	stamped := make(map[string]any, len(root)+1)
	for k, v := range root {
		stamped[k] = v
	}
	stamped["$id"] = RootID

	t := &Traverser{
		root:          stamped,
		logger:        cfg.logger,
		maxRefDepth:   cfg.maxRefDepth,
		maxCachedRefs: cfg.maxCachedRefs,
	}

	trie, err := buildTrie(t, cfg.pathOrder)
	if err != nil {
		return nil, err
	}
	t.trie = trie

	t.logger.Debug("traverser constructed", "paths", trie.Len())
	return t, nil
}

// Root returns the raw document root, $id-stamped. Callers must not mutate
// the returned map; the traverser does not defensively copy it.
func (t *Traverser) Root() map[string]any {
	return t.root
}

// ResolveRef resolves a JSON-Pointer fragment ref (e.g. "#/components/
// schemas/Pet") to its terminal value, following any chain of nested $refs
// the target itself contains. Resolution is idempotent and memoized: a
// second call for the same ref returns the cached result without
// re-walking the tree. Concurrent first-resolutions of the same ref share
// one walk via singleflight; the loser of the race reuses the winner's
// value rather than redoing the work.
func (t *Traverser) ResolveRef(ref string) (any, error) {
	if v, ok := t.refCache.Load(ref); ok {
		return v, nil
	}

	v, err, _ := t.refGroup.Do(ref, func() (any, error) {
		if cached, ok := t.refCache.Load(ref); ok {
			return cached, nil
		}
		resolved, rerr := t.resolveChain(ref, make(map[string]bool, 4), 0)
		if rerr != nil {
			return nil, rerr
		}
		if atomic.LoadInt64(&t.refCount) >= int64(t.maxCachedRefs) {
			return nil, &ogerrors.ResourceLimitExceeded{
				ResourceType: "cached_refs",
				Limit:        int64(t.maxCachedRefs),
				Actual:       atomic.LoadInt64(&t.refCount),
			}
		}
		if _, loaded := t.refCache.LoadOrStore(ref, resolved); !loaded {
			atomic.AddInt64(&t.refCount, 1)
		}
		t.logger.Debug("resolved reference", "ref", ref)
		return resolved, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// resolveChain walks ref to its value, then — if that value is itself a
// bare {"$ref": ...} object — recurses into the nested ref. seen tracks
// every pointer visited in this chain; re-entering one means a cycle.
func (t *Traverser) resolveChain(ref string, seen map[string]bool, depth int) (any, error) {
	if depth > t.maxRefDepth {
		return nil, &ogerrors.ResourceLimitExceeded{ResourceType: "ref_depth", Limit: int64(t.maxRefDepth), Actual: int64(depth)}
	}
	if seen[ref] {
		chain := make([]string, 0, len(seen))
		for k := range seen {
			chain = append(chain, k)
		}
		t.logger.Debug("circular reference detected", "ref", ref)
		return nil, &ogerrors.CircularReference{Pointer: ref, Chain: chain}
	}
	seen[ref] = true

	node, err := t.lookupPointer(ref)
	if err != nil {
		return nil, err
	}
	if m, ok := node.(map[string]any); ok {
		if nested, ok := m["$ref"].(string); ok {
			return t.resolveChain(nested, seen, depth+1)
		}
	}
	return node, nil
}

// lookupPointer walks the document tree for a local "#/..." pointer,
// without following any $ref found at the destination.
func (t *Traverser) lookupPointer(ref string) (any, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, &ogerrors.InvalidRef{Ref: ref, Cause: fmt.Errorf("only local (\"#/...\") references are supported")}
	}
	segments := jsonptr.Split(strings.TrimPrefix(ref, "#"))
	var current any = t.root
	for i, seg := range segments {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, &ogerrors.DefinitionExpected{Pointer: jsonptr.Join(segments[:i+1]...)}
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, &ogerrors.DefinitionExpected{Pointer: jsonptr.Join(segments[:i+1]...)}
			}
			current = v[idx]
		default:
			return nil, &ogerrors.UnexpectedType{Pointer: jsonptr.Join(segments[:i]...), Want: "object or array", Got: fmt.Sprintf("%T", v)}
		}
	}
	return current, nil
}

// resolveNode resolves node if it is a bare {"$ref": ...} object, else
// returns it unchanged. Typed accessors call this before inspecting a
// value so callers never have to think about $ref themselves.
func (t *Traverser) resolveNode(node any) (any, error) {
	if m, ok := node.(map[string]any); ok {
		if ref, ok := m["$ref"].(string); ok {
			return t.ResolveRef(ref)
		}
	}
	return node, nil
}
