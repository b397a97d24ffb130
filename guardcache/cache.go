package guardcache

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/ogerrors"
)

// Cache is a thread-safe mapping from an id an embedder chooses (typically
// an API name and version) to a shared [*oastree.Traverser]. Entries are
// never evicted internally; spec.md §9 delegates that policy to the
// embedder.
//
// The zero value is not usable; construct one with [New].
type Cache struct {
	entries sync.Map // string -> *oastree.Traverser
	group   singleflight.Group
}

// New builds an empty Cache.
func New() *Cache {
	return &Cache{}
}

// Insert adds traverser under id, failing with [ogerrors.ValidatorAlreadyExists]
// if id is already present. Per spec.md §6 this is "insert-if-absent":
// on a contended insert the loser's traverser is discarded and an error
// returned, never silently overwritten.
func (c *Cache) Insert(id string, tr *oastree.Traverser) error {
	if _, loaded := c.entries.LoadOrStore(id, tr); loaded {
		return &ogerrors.ValidatorAlreadyExists{ID: id}
	}
	return nil
}

// GetOrInsert returns the traverser stored under id, building one with
// build and storing it if id is absent. Concurrent first-calls for the
// same id share one build invocation; a build failure surfaces as
// [ogerrors.FailedToCreateValidator] to every caller waiting on it, and
// nothing is stored.
func (c *Cache) GetOrInsert(id string, build func() (*oastree.Traverser, error)) (*oastree.Traverser, error) {
	if v, ok := c.entries.Load(id); ok {
		return v.(*oastree.Traverser), nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		if v, ok := c.entries.Load(id); ok {
			return v.(*oastree.Traverser), nil
		}
		tr, err := build()
		if err != nil {
			return nil, &ogerrors.FailedToCreateValidator{ID: id, Cause: err}
		}
		actual, _ := c.entries.LoadOrStore(id, tr)
		return actual.(*oastree.Traverser), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*oastree.Traverser), nil
}

// Get returns the traverser stored under id, or
// [ogerrors.ValidatorNotFound] if none is.
func (c *Cache) Get(id string) (*oastree.Traverser, error) {
	v, ok := c.entries.Load(id)
	if !ok {
		return nil, &ogerrors.ValidatorNotFound{ID: id}
	}
	return v.(*oastree.Traverser), nil
}

// Replace overwrites the entry at id with tr, failing with
// [ogerrors.ValidatorNotFound] if id was not already present — Replace
// never creates a new entry, only swaps an existing one.
func (c *Cache) Replace(id string, tr *oastree.Traverser) error {
	if _, ok := c.entries.Load(id); !ok {
		return &ogerrors.ValidatorNotFound{ID: id}
	}
	c.entries.Store(id, tr)
	return nil
}

// Remove deletes the entry at id, failing with [ogerrors.ValidatorNotFound]
// if it was not present.
func (c *Cache) Remove(id string) error {
	if _, ok := c.entries.LoadAndDelete(id); !ok {
		return &ogerrors.ValidatorNotFound{ID: id}
	}
	return nil
}

// Contains reports whether id is present.
func (c *Cache) Contains(id string) bool {
	_, ok := c.entries.Load(id)
	return ok
}

// Len reports the number of entries currently cached. It walks the whole
// map, so treat it as a diagnostic, not a hot-path check.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}
