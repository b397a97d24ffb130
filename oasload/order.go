package oasload

import "go.yaml.in/yaml/v4"

// extractPathOrder walks the raw yaml.Node tree for the decoded document and
// returns the "/paths" mapping's keys in the order they were declared in the
// source. A plain map[string]any decode loses this order entirely; this walk
// runs against the node tree before that information is gone.
//
// It returns nil when the document has no "paths" mapping, which callers
// should treat the same as "no ordering preference" rather than an error.
func extractPathOrder(root *yaml.Node) []string {
	if root == nil {
		return nil
	}
	doc := root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		doc = doc.Content[0]
	}
	paths := findMappingValue(doc, "paths")
	if paths == nil || paths.Kind != yaml.MappingNode {
		return nil
	}

	order := make([]string, 0, len(paths.Content)/2)
	for i := 0; i+1 < len(paths.Content); i += 2 {
		key := paths.Content[i]
		if key.Kind == yaml.ScalarNode {
			order = append(order, key.Value)
		}
	}
	return order
}

// findMappingValue returns the value node paired with key in a MappingNode,
// or nil if node is not a mapping or key is absent.
func findMappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
