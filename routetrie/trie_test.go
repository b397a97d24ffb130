package routetrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oashttpguard/primitive"
)

func noSchema(string, string) (primitive.Primitive, bool) { return 0, false }

func TestTrie_StaticBeforeParameter(t *testing.T) {
	trie, err := Build([]string{"/pets/{id}", "/pets/mine"}, noSchema)
	require.NoError(t, err)

	tmpl, params, ok := trie.Match("/pets/mine")
	require.True(t, ok)
	assert.Equal(t, "/pets/mine", tmpl)
	assert.Empty(t, params)

	tmpl, params, ok = trie.Match("/pets/42")
	require.True(t, ok)
	assert.Equal(t, "/pets/{id}", tmpl)
	assert.Equal(t, "42", params["id"])
}

func TestTrie_DeclarationOrderTieBreak(t *testing.T) {
	schemaByParam := map[string]primitive.Primitive{"id": primitive.Integer}
	lookup := func(_ string, name string) (primitive.Primitive, bool) {
		p, ok := schemaByParam[name]
		return p, ok
	}
	trie, err := Build([]string{"/pets/{id}", "/pets/{name}"}, lookup)
	require.NoError(t, err)

	// "123" coerces against the integer schema for {id}, so the
	// first-declared template wins.
	tmpl, params, ok := trie.Match("/pets/123")
	require.True(t, ok)
	assert.Equal(t, "/pets/{id}", tmpl)
	assert.Equal(t, "123", params["id"])

	// "abc" fails integer coercion for {id}; falls through to {name}.
	tmpl, params, ok = trie.Match("/pets/abc")
	require.True(t, ok)
	assert.Equal(t, "/pets/{name}", tmpl)
	assert.Equal(t, "abc", params["name"])
}

func TestTrie_NoMatch(t *testing.T) {
	trie, err := Build([]string{"/pets/{id}"}, noSchema)
	require.NoError(t, err)

	_, _, ok := trie.Match("/owners/1")
	assert.False(t, ok)

	_, _, ok = trie.Match("/pets")
	assert.False(t, ok)
}

func TestTrie_UnconstrainedRejectsEmptySegment(t *testing.T) {
	trie, err := Build([]string{"/pets/{id}"}, noSchema)
	require.NoError(t, err)

	_, _, ok := trie.Match("/pets/")
	assert.False(t, ok)
}

func TestTrie_RootPath(t *testing.T) {
	trie, err := Build([]string{"/"}, noSchema)
	require.NoError(t, err)

	tmpl, _, ok := trie.Match("/")
	require.True(t, ok)
	assert.Equal(t, "/", tmpl)
}

func TestTrie_Len(t *testing.T) {
	trie, err := Build([]string{"/a", "/b", "/c"}, noSchema)
	require.NoError(t, err)
	assert.Equal(t, 3, trie.Len())
}

func BenchmarkTrie_Match(b *testing.B) {
	trie, _ := Build([]string{"/pets/{id}", "/pets/{id}/owner", "/pets/mine", "/owners/{ownerId}"}, noSchema)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		trie.Match("/pets/42/owner")
	}
}
