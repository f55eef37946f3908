package internal_test

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restify/internal"
)

type fakeTransport struct {
	method  string
	url     *url.URL
	headers map[string][]string
	closes  int
}

func newTransport(t *testing.T, method, target string, headers map[string]string) *fakeTransport {
	t.Helper()
	u, err := url.Parse(target)
	require.NoError(t, err)
	h := make(map[string][]string, len(headers))
	for k, v := range headers {
		h[k] = []string{v}
	}
	return &fakeTransport{method: method, url: u, headers: h}
}

func (f *fakeTransport) Method() string               { return f.method }
func (f *fakeTransport) URL() *url.URL                { return f.url }
func (f *fakeTransport) Headers() map[string][]string { return f.headers }
func (f *fakeTransport) Close()                       { f.closes++ }

type seededTransport struct {
	*fakeTransport
	seed map[string]any
}

func (s *seededTransport) Seed() map[string]any { return s.seed }

// recorder is an Outgoing that keeps everything it receives.
type recorder struct {
	status  int
	headers http.Header
	cookies []*http.Cookie
	body    bytes.Buffer
	ends    int
}

func newRecorder() *recorder {
	return &recorder{headers: make(http.Header)}
}

func (r *recorder) SetStatus(code int)           { r.status = code }
func (r *recorder) AddHeader(name, value string) { r.headers.Add(name, value) }
func (r *recorder) AddCookie(c *http.Cookie)     { r.cookies = append(r.cookies, c) }
func (r *recorder) Write(p []byte) (int, error)  { return r.body.Write(p) }

func (r *recorder) End() error {
	r.ends++
	return nil
}

func (r *recorder) cookie(name string) *http.Cookie {
	for _, c := range r.cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// serve pushes one request through srv, delivering body as separate chunks.
func serve(t *testing.T, srv *internal.Server, tr internal.Transport, chunks ...string) *recorder {
	t.Helper()
	rec := newRecorder()
	sink := srv.Serve(context.Background(), tr, rec)
	for _, c := range chunks {
		sink.Data([]byte(c))
	}
	sink.End()
	return rec
}

func ok(body string) internal.Stage {
	return func(_ *internal.Request, res *internal.Response, next internal.Next) error {
		if _, err := res.WriteString(body); err != nil {
			return err
		}
		return next()
	}
}
