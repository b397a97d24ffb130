package oastree

import (
	"fmt"
	"strings"

	"github.com/erraggy/oashttpguard/internal/httputil"
	"github.com/erraggy/oashttpguard/ogerrors"
	"github.com/erraggy/oashttpguard/primitive"
	"github.com/erraggy/oashttpguard/routetrie"
)

var httpMethods = []string{
	httputil.MethodGet, httputil.MethodPut, httputil.MethodPost, httputil.MethodDelete,
	httputil.MethodOptions, httputil.MethodHead, httputil.MethodPatch, httputil.MethodTrace,
}

// Operation is a resolved method+path pair: the raw operation object, its
// owning path item (for path-level parameters), and the path parameter
// values the trie walk extracted from the request path.
type Operation struct {
	Method     string
	Template   string
	Pointer    string
	Node       map[string]any
	PathItem   map[string]any
	PathParams map[string]string
}

// GetOperation resolves method and path to an Operation. method is
// lowercased before lookup. Results are cached per "method path" key;
// concurrent first-lookups of the same key share one trie walk.
func (t *Traverser) GetOperation(path, method string) (*Operation, error) {
	method = strings.ToLower(method)
	key := method + " " + path

	if v, ok := t.opCache.Load(key); ok {
		return v.(*Operation), nil
	}

	v, err, _ := t.opGroup.Do(key, func() (any, error) {
		if cached, ok := t.opCache.Load(key); ok {
			return cached, nil
		}
		op, oerr := t.lookupOperation(path, method)
		if oerr != nil {
			return nil, oerr
		}
		t.opCache.Store(key, op)
		return op, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Operation), nil
}

func (t *Traverser) lookupOperation(path, method string) (*Operation, error) {
	template, params, ok := t.trie.Match(path)
	if !ok {
		return nil, &ogerrors.PathNotFound{Path: path, Method: method}
	}

	paths, _ := t.root["paths"].(map[string]any)
	rawItem, ok := paths[template]
	if !ok {
		return nil, &ogerrors.DefinitionExpected{Pointer: jsonPointerForPath(template)}
	}
	resolvedItem, err := t.resolveNode(rawItem)
	if err != nil {
		return nil, err
	}
	pathItem, ok := resolvedItem.(map[string]any)
	if !ok {
		return nil, &ogerrors.UnexpectedType{Pointer: jsonPointerForPath(template), Want: "object", Got: fmt.Sprintf("%T", resolvedItem)}
	}

	rawOp, ok := pathItem[method]
	if !ok {
		return nil, &ogerrors.MissingOperation{Method: method, Path: path}
	}
	resolvedOp, err := t.resolveNode(rawOp)
	if err != nil {
		return nil, err
	}
	opNode, ok := resolvedOp.(map[string]any)
	if !ok {
		return nil, &ogerrors.UnexpectedType{Pointer: jsonPointerForPath(template) + "/" + method, Want: "object", Got: fmt.Sprintf("%T", resolvedOp)}
	}

	return &Operation{
		Method:     method,
		Template:   template,
		Pointer:    jsonPointerForPath(template) + "/" + method,
		Node:       opNode,
		PathItem:   pathItem,
		PathParams: params,
	}, nil
}

// buildTrie walks /paths and constructs a routetrie.Trie, resolving each
// path parameter's schema by scanning the operation's (and path item's)
// "parameters" array for "in": "path" entries with a matching name. A
// parameter with no resolvable schema becomes an unconstrained trie edge.
func buildTrie(t *Traverser, pathOrder []string) (*routetrie.Trie, error) {
	pathsNode, _ := t.root["paths"].(map[string]any)

	templates := pathOrder
	if templates == nil {
		templates = make([]string, 0, len(pathsNode))
		for k := range pathsNode {
			templates = append(templates, k)
		}
	}

	lookup := func(template, paramName string) (primitive.Primitive, bool) {
		rawItem, ok := pathsNode[template]
		if !ok {
			return 0, false
		}
		resolvedItem, err := t.resolveNode(rawItem)
		if err != nil {
			return 0, false
		}
		pathItem, ok := resolvedItem.(map[string]any)
		if !ok {
			return 0, false
		}
		if prim, ok := findPathParamSchema(t, pathItem, "", paramName); ok {
			return prim, true
		}
		for _, method := range httpMethods {
			rawOp, ok := pathItem[method]
			if !ok {
				continue
			}
			resolvedOp, err := t.resolveNode(rawOp)
			if err != nil {
				continue
			}
			opNode, ok := resolvedOp.(map[string]any)
			if !ok {
				continue
			}
			if prim, ok := findPathParamSchema(t, opNode, "", paramName); ok {
				return prim, true
			}
		}
		return 0, false
	}

	return routetrie.Build(templates, lookup)
}

func findPathParamSchema(t *Traverser, container map[string]any, _ string, paramName string) (primitive.Primitive, bool) {
	rawParams, ok := container["parameters"]
	if !ok {
		return 0, false
	}
	params, ok := rawParams.([]any)
	if !ok {
		return 0, false
	}
	for _, rawParam := range params {
		resolvedParam, err := t.resolveNode(rawParam)
		if err != nil {
			continue
		}
		paramMap, ok := resolvedParam.(map[string]any)
		if !ok {
			continue
		}
		if paramMap["in"] != "path" || paramMap["name"] != paramName {
			continue
		}
		schema, ok := paramMap["schema"]
		if !ok {
			return 0, false
		}
		resolvedSchema, err := t.resolveNode(schema)
		if err != nil {
			return 0, false
		}
		return primitive.FromSchema(resolvedSchema), true
	}
	return 0, false
}

func jsonPointerForPath(template string) string {
	var b strings.Builder
	b.WriteString("#/paths/")
	b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(template))
	return b.String()
}
