// Package guardcache is the external validator cache collaborator spec.md
// §6 describes: a thread-safe `string id → shared traverser` mapping with
// insert-if-absent, get-or-insert, replace, remove, contains, len, and
// clear, sitting outside the core validation path so an embedder can host
// more than one OpenAPI document (e.g. one per API version) behind a
// single process without each request paying construction cost again.
//
// [Cache] itself holds no eviction policy; spec.md §9 leaves LRU/TTL
// eviction to the embedder, so bounding memory is the caller's job.
package guardcache
