// Package routetrie implements a path-routing trie over OpenAPI path
// templates, classifying each segment as Static or Parameter and matching
// request paths against it with declaration-order tie-breaking between
// overlapping parameter templates.
package routetrie

import (
	"strings"

	"github.com/erraggy/oashttpguard/primitive"
)

// SchemaLookup resolves the declared primitive type of a path parameter,
// given the owning template and the parameter's name. ok is false when no
// operation under the template declares a schema for that parameter, in
// which case the edge accepts any non-empty segment unconstrained.
type SchemaLookup func(template, paramName string) (p primitive.Primitive, ok bool)

type paramEdge struct {
	name        string
	prim        primitive.Primitive
	constrained bool
	child       *node
}

type node struct {
	static    map[string]*node
	params    []*paramEdge // declaration order
	template  string       // non-empty iff a template terminates exactly here
	hasLeaf   bool
}

// Trie matches request paths against a fixed set of OpenAPI path
// templates. It is built once and is safe for concurrent read-only use.
type Trie struct {
	root *node
	size int
}

// Build constructs a Trie from path templates in declaration order.
// lookup resolves each parameter segment's schema; pass a SchemaLookup
// that always returns (0, false) to build an entirely unconstrained trie.
func Build(templates []string, lookup SchemaLookup) (*Trie, error) {
	t := &Trie{root: &node{static: make(map[string]*node)}}
	for _, tmpl := range templates {
		if err := t.insert(tmpl, lookup); err != nil {
			return nil, err
		}
		t.size++
	}
	return t, nil
}

func (t *Trie) insert(template string, lookup SchemaLookup) error {
	segs := splitPath(template)
	cur := t.root
	for _, seg := range segs {
		if name, isParam := paramName(seg); isParam {
			var edge *paramEdge
			for _, e := range cur.params {
				if e.name == name {
					edge = e
					break
				}
			}
			if edge == nil {
				prim, ok := lookup(template, name)
				edge = &paramEdge{name: name, prim: prim, constrained: ok, child: &node{static: make(map[string]*node)}}
				cur.params = append(cur.params, edge)
			}
			cur = edge.child
		} else {
			child, ok := cur.static[seg]
			if !ok {
				child = &node{static: make(map[string]*node)}
				cur.static[seg] = child
			}
			cur = child
		}
	}
	cur.template = template
	cur.hasLeaf = true
	return nil
}

// Match walks path against the trie, preferring static segments over
// parameter segments at every level, and trying parameter edges in
// declaration order. It returns the matched template, the extracted
// parameter values (raw, un-coerced strings), and whether a match was
// found.
func (t *Trie) Match(path string) (template string, params map[string]string, ok bool) {
	segs := splitPath(path)
	collected := make(map[string]string, 2)
	tmpl, matched := match(t.root, segs, 0, collected)
	if !matched {
		return "", nil, false
	}
	return tmpl, collected, true
}

func match(n *node, segs []string, i int, collected map[string]string) (string, bool) {
	if i == len(segs) {
		if n.hasLeaf {
			return n.template, true
		}
		return "", false
	}
	seg := segs[i]

	if child, ok := n.static[seg]; ok {
		if tmpl, matched := match(child, segs, i+1, collected); matched {
			return tmpl, true
		}
	}

	for _, edge := range n.params {
		if edge.constrained {
			if _, err := primitive.Coerce(edge.prim, seg); err != nil {
				continue
			}
		} else if seg == "" {
			continue // unconstrained parameters still require a non-empty segment
		}
		collected[edge.name] = seg
		if tmpl, matched := match(edge.child, segs, i+1, collected); matched {
			return tmpl, true
		}
		delete(collected, edge.name)
	}

	return "", false
}

// Len returns the number of templates the trie was built from.
func (t *Trie) Len() int {
	return t.size
}

// splitPath splits p into path segments, dropping empty segments produced
// by a leading/trailing/doubled slash so "/pets/", "/pets//123", and "/"
// all match the same templates as their slash-normalized form.
func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	parts := strings.Split(p, "/")
	segs := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func paramName(segment string) (string, bool) {
	if len(segment) >= 2 && segment[0] == '{' && segment[len(segment)-1] == '}' {
		return segment[1 : len(segment)-1], true
	}
	return "", false
}
