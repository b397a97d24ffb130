package reqguard

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTTP(t *testing.T) {
	t.Run("drains and preserves body", func(t *testing.T) {
		raw := httptest.NewRequest(http.MethodPost, "/pets?limit=5", strings.NewReader(`{"name":"rex"}`))
		raw.Header.Set("Content-Type", "application/json")
		raw.AddCookie(&http.Cookie{Name: "session", Value: "abc123"})

		req, err := FromHTTP(raw)
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/pets", req.Path)
		assert.Equal(t, "limit=5", req.RawQuery)
		assert.Equal(t, "application/json", req.ContentType)
		assert.True(t, req.HasBody)
		assert.Equal(t, `{"name":"rex"}`, string(req.Body))

		value, ok := req.Cookie("session")
		assert.True(t, ok)
		assert.Equal(t, "abc123", value)

		replayed, err := io.ReadAll(raw.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"rex"}`, string(replayed))
	})

	t.Run("no body", func(t *testing.T) {
		raw := httptest.NewRequest(http.MethodGet, "/pets", nil)
		req, err := FromHTTP(raw)
		require.NoError(t, err)
		assert.False(t, req.HasBody)
		assert.Empty(t, req.Body)
	})

	t.Run("empty body reader counts as no body", func(t *testing.T) {
		raw := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(""))
		req, err := FromHTTP(raw)
		require.NoError(t, err)
		assert.False(t, req.HasBody)
	})
}

func TestRequest_HeaderValue(t *testing.T) {
	req := Request{Header: http.Header{"X-Api-Key": []string{"secret"}}}

	value, ok := req.HeaderValue("x-api-key")
	assert.True(t, ok)
	assert.Equal(t, "secret", value)

	_, ok = req.HeaderValue("x-missing")
	assert.False(t, ok)
}

func TestRequest_Cookie(t *testing.T) {
	req := Request{Cookies: []*http.Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}}

	value, ok := req.Cookie("b")
	assert.True(t, ok)
	assert.Equal(t, "2", value)

	_, ok = req.Cookie("missing")
	assert.False(t, ok)
}
