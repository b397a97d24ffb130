package schemabuild

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/specversion"
)

// maxPatternCacheSize bounds the compiled-regex cache shared by every
// Validator a Factory produces. Exceeding it clears the cache rather than
// growing it unboundedly; recompilation afterward is the accepted cost.
const maxPatternCacheSize = 1000

// Option configures a Factory at construction time.
type Option func(*Factory)

// WithRedact omits actual values from Issue messages. Use this for a
// Factory that will validate headers, cookies, or other values that may
// carry credentials.
func WithRedact() Option {
	return func(f *Factory) { f.redact = true }
}

// Factory builds and caches [Validator]s for schema nodes reachable from
// one document. It is safe for concurrent use.
type Factory struct {
	tr     *oastree.Traverser
	draft  specversion.Draft
	redact bool

	cache sync.Map // pointer or inline fingerprint -> *Validator

	patternCache sync.Map // regex source -> *regexp.Regexp
	patternCount atomic.Int32
}

// NewFactory returns a Factory resolving $ref through tr and interpreting
// schema keywords per draft.
func NewFactory(tr *oastree.Traverser, draft specversion.Draft, opts ...Option) *Factory {
	f := &Factory{tr: tr, draft: draft}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build resolves pointer (a "#/..." JSON Pointer into the document tr
// wraps) to a schema object and returns its Validator, building it once
// and reusing it for every later call with the same pointer.
func (f *Factory) Build(pointer string) (*Validator, error) {
	if v, ok := f.cache.Load(pointer); ok {
		return v.(*Validator), nil
	}
	resolved, err := f.tr.ResolveRef(pointer)
	if err != nil {
		return nil, err
	}
	schema, ok := resolved.(map[string]any)
	if !ok {
		return nil, &ogerrors.UnexpectedType{Pointer: pointer, Want: "object", Got: fmt.Sprintf("%T", resolved)}
	}
	validator := &Validator{schema: schema, factory: f}
	actual, _ := f.cache.LoadOrStore(pointer, validator)
	return actual.(*Validator), nil
}

// BuildInline builds a Validator for a schema node that has no stable
// document pointer of its own (e.g. one constructed on the fly for a
// parameter's "schema" field that was inlined rather than $ref'd). It is
// cached under a fingerprint of schema's JSON encoding, so two equal
// inline schemas share one Validator.
func (f *Factory) BuildInline(schema any) (*Validator, error) {
	m, ok := schema.(map[string]any)
	if !ok {
		return nil, &ogerrors.UnexpectedType{Pointer: "", Want: "object", Got: fmt.Sprintf("%T", schema)}
	}
	fp, err := fingerprint(m)
	if err != nil {
		return nil, err
	}
	if v, ok := f.cache.Load(fp); ok {
		return v.(*Validator), nil
	}
	validator := &Validator{schema: m, factory: f}
	actual, _ := f.cache.LoadOrStore(fp, validator)
	return actual.(*Validator), nil
}

func fingerprint(schema map[string]any) (string, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "inline:" + hex.EncodeToString(sum[:]), nil
}

// matchPattern compiles and matches a regex pattern, reusing a compiled
// Regexp across every Validator this factory produced.
//
// NOTE: the count check and clear below are not atomic — under high
// concurrency multiple goroutines may clear the cache at once. Acceptable,
// since the cache is purely a performance optimization; worst case is
// extra recompilation.
func (f *Factory) matchPattern(pattern, s string) (bool, error) {
	if cached, ok := f.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(s), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	if f.patternCount.Add(1) > maxPatternCacheSize {
		f.patternCache.Range(func(key, _ any) bool {
			f.patternCache.Delete(key)
			return true
		})
		f.patternCount.Store(1)
	}
	f.patternCache.Store(pattern, re)
	return re.MatchString(s), nil
}
