package internal

import (
	"context"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/restify/pkg/cookie"
)

// SessionCookie is the cookie carrying the session ID.
const SessionCookie = "id"

// Request is the per-request state handed to every stage.
// It is owned by one goroutine at a time and is not safe for concurrent use.
type Request struct {
	ctx       context.Context
	transport Transport
	logger    *slog.Logger
	headers   map[string][]string
	content   string
	data      *Values
	params    map[string]string
	allowed   []string
	events    *eventQueue
	err       error

	sessionID       string
	sessionResolved bool
}

func newRequest(ctx context.Context, t Transport, logger *slog.Logger) *Request {
	r := &Request{
		ctx:       requestContext(ctx),
		transport: t,
		logger:    logger,
		headers:   lowerHeaders(t.Headers()),
		data:      NewValues(),
		params:    make(map[string]string),
		events:    newEventQueue(),
	}
	if s, ok := t.(Seeder); ok {
		seed := s.Seed()
		for _, k := range slices.Sorted(maps.Keys(seed)) {
			r.data.Set(k, seed[k])
		}
	}
	return r
}

func (r *Request) Method() string {
	return r.transport.Method()
}

// Path returns the URL path, "/" when empty.
func (r *Request) Path() string {
	if u := r.transport.URL(); u != nil && u.Path != "" {
		return u.Path
	}
	return "/"
}

// Query returns the first value of the query parameter key.
func (r *Request) Query(key string) string {
	return r.QueryValues().Get(key)
}

func (r *Request) QueryValues() url.Values {
	u := r.transport.URL()
	if u == nil {
		return url.Values{}
	}
	return u.Query()
}

// Header returns the first value of the named header, case-insensitively.
func (r *Request) Header(name string) string {
	if v := r.headers[strings.ToLower(name)]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Headers returns a copy of all headers with lowercased names.
func (r *Request) Headers() map[string][]string {
	out := make(map[string][]string, len(r.headers))
	for k, v := range r.headers {
		out[k] = slices.Clone(v)
	}
	return out
}

// Content returns the raw body as received. It is "" for bodiless requests
// and for bodies that failed to parse.
func (r *Request) Content() string {
	return r.content
}

// Data returns the parsed body merged with seeded values and route params.
func (r *Request) Data() *Values {
	return r.data
}

func (r *Request) Get(key string) (any, bool) {
	return r.data.Get(key)
}

func (r *Request) String(key string) string {
	return r.data.String(key)
}

func (r *Request) Set(key string, val any) {
	r.data.Set(key, val)
}

// Merge adds the keys of v that the request data does not hold yet.
func (r *Request) Merge(v *Values) {
	r.data.Merge(v)
}

// AllowedMethods lists the methods of routes whose pattern matched the path
// when the request method did not. It is nil outside the MethodNotAllowed chain.
func (r *Request) AllowedMethods() []string {
	return slices.Clone(r.allowed)
}

// Param returns the path parameter declared as name in the matched pattern.
func (r *Request) Param(name string) string {
	return r.params[name]
}

func (r *Request) Params() map[string]string {
	return maps.Clone(r.params)
}

func (r *Request) setParams(params map[string]string) {
	for name, val := range params {
		r.params[name] = val
		r.data.Set(name, val)
	}
}

// IsJSON reports whether the first content-type value is exactly application/json.
func (r *Request) IsJSON() bool {
	v := r.headers["content-type"]
	return len(v) > 0 && v[0] == contentTypeJSON
}

// Cookie returns the decoded value of the named cookie.
func (r *Request) Cookie(name string) (string, error) {
	return cookie.Lookup(r.headers["cookie"], name)
}

// SessionID returns the session ID, read from the cookie on first use.
func (r *Request) SessionID() string {
	if !r.sessionResolved {
		r.sessionResolved = true
		r.sessionID, _ = r.Cookie(SessionCookie)
	}
	return r.sessionID
}

func (r *Request) HasSession() bool {
	return r.SessionID() != ""
}

// SetSessionID fixes the session ID for the rest of the request.
func (r *Request) SetSessionID(id string) {
	r.sessionID = id
	r.sessionResolved = true
}

// Err returns the body parse failure, if any.
func (r *Request) Err() error {
	return r.err
}

func (r *Request) Context() context.Context {
	return r.ctx
}

// WithContext replaces the request context.
func (r *Request) WithContext(ctx context.Context) {
	if ctx != nil {
		r.ctx = ctx
	}
}

func (r *Request) Logger() *slog.Logger {
	return r.logger
}

// completeBody parses an accumulated body and emits end or error.
func (r *Request) completeBody(res bodyResult) {
	if res.err != nil {
		r.fail(res.err)
		return
	}
	if !res.received {
		r.events.emit(event{kind: eventEnd})
		return
	}

	var contentType string
	if v := r.headers["content-type"]; len(v) > 0 {
		contentType = v[0]
	}
	data, err := parseBody(contentType, res.raw)
	if err != nil {
		r.fail(err)
		return
	}
	r.content = string(res.raw)
	r.data.Merge(data)
	r.events.emit(event{kind: eventEnd})
}

func (r *Request) fail(err error) {
	pe := newParseError(err)
	r.err = pe
	r.events.emit(event{kind: eventError, err: pe})
}
