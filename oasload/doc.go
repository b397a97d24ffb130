// Package oasload decodes an OpenAPI/Swagger document from a file, an
// io.Reader, or a raw byte slice into the map[string]any tree an
// [oastree.Traverser] wraps. It is the only package in this module that
// touches YAML/JSON decoding; every other package works on the already
// decoded tree.
//
// Loading also extracts the document's declared path order — the order
// "/paths" keys appear in the source, which a plain map[string]any
// iteration does not preserve — by walking the raw yaml.Node tree before
// decoding into maps. That order feeds oastree.WithPathOrder so
// declaration-order tie-breaking between overlapping path templates
// matches the source document rather than Go's randomized map iteration.
package oasload
