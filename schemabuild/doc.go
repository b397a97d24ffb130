// Package schemabuild implements the mini JSON-Schema validation engine
// request and response bodies, and parameter values, are checked against.
//
// A [Factory] is bound to one [oastree.Traverser] (for $ref resolution
// inside schemas) and one [specversion.Draft] (to decide whether
// exclusiveMinimum/exclusiveMaximum are booleans or numeric bounds;
// "nullable": true and a "null" type-array entry both mark a schema
// nullable under every draft). Factory.Build and Factory.BuildInline both cache the
// [Validator] they return, keyed by JSON pointer or by a hash of the
// inline schema, so that validating many requests against the same
// operation never rebuilds the same validator twice.
package schemabuild
