package reqguard

import (
	"bytes"
	"io"
	"net/http"
)

// Request is the neutral view every validator in this package reads from.
// It holds no behavior beyond what the validators need: the method, the
// matched path template's raw request path, the raw query string, headers,
// cookies, and a fully-read body.
type Request struct {
	Method      string
	Path        string
	RawQuery    string
	Header      http.Header
	Cookies     []*http.Cookie
	Body        []byte
	HasBody     bool
	ContentType string
}

// FromHTTP builds a Request from an *http.Request, draining its body. The
// caller's original req.Body is replaced with a fresh reader over the
// drained bytes so the request can still be forwarded to a handler after
// validation.
func FromHTTP(req *http.Request) (Request, error) {
	var body []byte
	hasBody := req.Body != nil && req.Body != http.NoBody
	if hasBody {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return Request{}, err
		}
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(data))
		body = data
		hasBody = len(data) > 0
	}

	return Request{
		Method:      req.Method,
		Path:        req.URL.Path,
		RawQuery:    req.URL.RawQuery,
		Header:      req.Header,
		Cookies:     req.Cookies(),
		Body:        body,
		HasBody:     hasBody,
		ContentType: req.Header.Get("Content-Type"),
	}, nil
}

// HeaderValue looks up a header by name, case-insensitively (http.Header
// already canonicalizes keys, so this is just CanonicalHeaderKey plus a
// presence check distinguishing "absent" from "present but empty").
func (r Request) HeaderValue(name string) (string, bool) {
	canonical := http.CanonicalHeaderKey(name)
	values, present := r.Header[canonical]
	if !present {
		return "", false
	}
	if len(values) == 0 {
		return "", true
	}
	return values[0], true
}

// Cookie looks up a cookie by name.
func (r Request) Cookie(name string) (string, bool) {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
