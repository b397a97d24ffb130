// Package jsonptr implements RFC 6901 JSON Pointer construction and parsing
// for addressing nodes inside a decoded OpenAPI document tree.
//
// [Builder] is the incremental form used while walking the tree (push a
// segment per descent, pop on backtrack); [Join] and [Split] are one-shot
// helpers for callers that already have a full slice of segments or an
// existing pointer string.
package jsonptr
