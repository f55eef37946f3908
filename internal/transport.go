package internal

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

// Transport is the inbound side of one request.
type Transport interface {
	Method() string
	URL() *url.URL
	// Headers maps header names to all of their values.
	Headers() map[string][]string
	// Close stops delivery of further body chunks.
	Close()
}

// Seeder is implemented by transports that pre-populate request data.
// Seeded values win over parsed body fields of the same name.
type Seeder interface {
	Seed() map[string]any
}

// Outgoing receives a finished response. Calls arrive in order:
// SetStatus, AddHeader*, AddCookie*, Write*, End.
type Outgoing interface {
	SetStatus(code int)
	AddHeader(name, value string)
	AddCookie(c *http.Cookie)
	Write(p []byte) (int, error)
	End() error
}

// BodySink is fed by the transport driver. Chunks are copied, so the
// driver may reuse its buffer after Data returns.
type BodySink interface {
	Data(chunk []byte)
	End()
	// Done reports that the sink takes no more chunks.
	Done() bool
}

const readChunkSize = 32 << 10

// ServeHTTP drives one net/http request through the pipeline.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t := newHTTPTransport(r)
	out := newHTTPOutgoing(w)

	sink := s.Serve(r.Context(), t, out)
	pumpBody(r.Body, sink, t)

	select {
	case <-out.done:
	case <-r.Context().Done():
	}
}

// pumpBody reads body in chunks until EOF or a read error, and stops early
// once the transport is closed or the sink is done.
func pumpBody(body io.Reader, sink BodySink, t *httpTransport) {
	if sink.Done() {
		return
	}
	if body == nil || body == http.NoBody {
		sink.End()
		return
	}
	buf := make([]byte, readChunkSize)
	for !t.closed.Load() && !sink.Done() {
		n, err := body.Read(buf)
		if n > 0 {
			sink.Data(buf[:n])
		}
		if err != nil {
			sink.End()
			return
		}
	}
}

type httpTransport struct {
	r       *http.Request
	headers map[string][]string
	closed  atomic.Bool
}

func newHTTPTransport(r *http.Request) *httpTransport {
	headers := make(map[string][]string, len(r.Header)+1)
	for name, values := range r.Header {
		headers[name] = values
	}
	if r.Host != "" {
		headers["Host"] = []string{r.Host}
	}
	return &httpTransport{r: r, headers: headers}
}

func (t *httpTransport) Method() string               { return t.r.Method }
func (t *httpTransport) URL() *url.URL                { return t.r.URL }
func (t *httpTransport) Headers() map[string][]string { return t.headers }
func (t *httpTransport) Close()                       { t.closed.Store(true) }

type httpOutgoing struct {
	w           http.ResponseWriter
	status      int
	wroteHeader bool
	done        chan struct{}
}

func newHTTPOutgoing(w http.ResponseWriter) *httpOutgoing {
	return &httpOutgoing{w: w, status: http.StatusOK, done: make(chan struct{})}
}

func (o *httpOutgoing) SetStatus(code int) { o.status = code }

func (o *httpOutgoing) AddHeader(name, value string) {
	o.w.Header().Add(name, value)
}

func (o *httpOutgoing) AddCookie(c *http.Cookie) {
	if v := c.String(); v != "" {
		o.w.Header().Add("Set-Cookie", v)
	}
}

func (o *httpOutgoing) Write(p []byte) (int, error) {
	o.writeHeader()
	return o.w.Write(p)
}

func (o *httpOutgoing) End() error {
	o.writeHeader()
	close(o.done)
	return nil
}

func (o *httpOutgoing) writeHeader() {
	if o.wroteHeader {
		return
	}
	o.wroteHeader = true
	o.w.WriteHeader(o.status)
}

// requestContext returns ctx or Background when the transport gave none.
func requestContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func lowerHeaders(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for name, values := range in {
		key := strings.ToLower(name)
		out[key] = append(out[key], values...)
	}
	return out
}
