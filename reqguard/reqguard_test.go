package reqguard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erraggy/oashttpguard/oastree"
)

// mustTraverser builds a Traverser over doc, failing the test on error.
func mustTraverser(t *testing.T, doc map[string]any) *oastree.Traverser {
	t.Helper()
	tr, err := oastree.New(doc)
	require.NoError(t, err)
	return tr
}
