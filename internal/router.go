package internal

import (
	"fmt"
	"net/http"
	"slices"
)

// Named event chains run through the same continuation contract as routes.
const (
	EventNotFound         = "NotFound"
	EventMethodNotAllowed = "MethodNotAllowed"
	EventParseError       = "ParseError"
)

// Router is the registration surface handed to Handler.Routes and Group callbacks.
type Router interface {
	GET(pattern string, stage Stage, chain ...Stage)
	POST(pattern string, stage Stage, chain ...Stage)
	PUT(pattern string, stage Stage, chain ...Stage)
	DELETE(pattern string, stage Stage, chain ...Stage)

	// Group prefixes every route fn registers. Groups nest.
	Group(prefix string, fn func(r Router))
}

// Route is an immutable registration.
type Route struct {
	Method   string
	Pattern  string
	segments []segment
	chain    []Stage
}

// Outcome is the result class of a match.
type Outcome uint8

const (
	Matched Outcome = iota
	NotFound
	MethodNotAllowed
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "Matched"
	case NotFound:
		return EventNotFound
	case MethodNotAllowed:
		return EventMethodNotAllowed
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Match describes how a method and path resolved against the table.
type Match struct {
	Outcome Outcome
	Route   *Route
	Params  map[string]string
	// Allowed lists methods of structurally matching routes on MethodNotAllowed.
	Allowed []string
}

// RouteTable is an ordered route list with build-time prefix groups.
//
// Registration must finish before serving starts. The table is read
// concurrently during dispatch and must not be mutated afterwards.
type RouteTable struct {
	routes   []*Route
	prefixes []string
	events   map[string][]Stage
}

func NewRouteTable() *RouteTable {
	return &RouteTable{events: make(map[string][]Stage)}
}

// AddRoute appends a route under the currently open group prefixes.
func (t *RouteTable) AddRoute(method, pattern string, chain ...Stage) (*Route, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	chain = slices.DeleteFunc(slices.Clone(chain), func(s Stage) bool { return s == nil })
	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}

	full := joinPath(append(slices.Clone(t.prefixes), pattern)...)
	r := &Route{
		Method:   method,
		Pattern:  full,
		segments: compilePattern(full),
		chain:    chain,
	}
	t.routes = append(t.routes, r)
	return r, nil
}

func (t *RouteTable) OpenGroup(prefix string) {
	t.prefixes = append(t.prefixes, prefix)
}

func (t *RouteTable) CloseGroup() error {
	if len(t.prefixes) == 0 {
		return ErrGroupUnbalanced
	}
	t.prefixes = t.prefixes[:len(t.prefixes)-1]
	return nil
}

// Prefix returns the combined prefix of the open groups.
func (t *RouteTable) Prefix() string {
	return joinPath(t.prefixes...)
}

// Routes returns the registered routes in insertion order.
func (t *RouteTable) Routes() []*Route {
	return slices.Clone(t.routes)
}

// On installs the chain for a named event, replacing any previous one.
func (t *RouteTable) On(name string, stage Stage, chain ...Stage) {
	t.events[name] = slices.DeleteFunc(append([]Stage{stage}, chain...), func(s Stage) bool { return s == nil })
}

// Match resolves method and path. The first route matching both wins;
// otherwise any structural match yields MethodNotAllowed.
func (t *RouteTable) Match(method, path string) Match {
	parts := splitPath(path)
	var allowed []string
	for _, r := range t.routes {
		params, ok := matchSegments(r.segments, parts)
		if !ok {
			continue
		}
		if r.Method == method {
			return Match{Outcome: Matched, Route: r, Params: params}
		}
		if !slices.Contains(allowed, r.Method) {
			allowed = append(allowed, r.Method)
		}
	}
	if len(allowed) > 0 {
		return Match{Outcome: MethodNotAllowed, Allowed: allowed}
	}
	return Match{Outcome: NotFound}
}

// Dispatch runs the matched route chain, or the NotFound / MethodNotAllowed
// event chain, with final as the continuation after the last stage.
// Path parameters are written into the request data before the chain runs.
func (t *RouteTable) Dispatch(req *Request, res *Response, final Next) error {
	if len(t.prefixes) > 0 {
		return ErrGroupOpen
	}

	m := t.Match(req.Method(), req.Path())
	switch m.Outcome {
	case Matched:
		req.setParams(m.Params)
		return runChain(m.Route.chain, req, res, final)
	case MethodNotAllowed:
		req.allowed = m.Allowed
		return t.DispatchEvent(EventMethodNotAllowed, req, res, final)
	default:
		return t.DispatchEvent(EventNotFound, req, res, final)
	}
}

// DispatchEvent runs the chain registered for name. Without one, final runs directly.
func (t *RouteTable) DispatchEvent(name string, req *Request, res *Response, final Next) error {
	return runChain(t.events[name], req, res, final)
}

func (t *RouteTable) GET(pattern string, stage Stage, chain ...Stage) {
	t.mustAdd(http.MethodGet, pattern, stage, chain)
}

func (t *RouteTable) POST(pattern string, stage Stage, chain ...Stage) {
	t.mustAdd(http.MethodPost, pattern, stage, chain)
}

func (t *RouteTable) PUT(pattern string, stage Stage, chain ...Stage) {
	t.mustAdd(http.MethodPut, pattern, stage, chain)
}

func (t *RouteTable) DELETE(pattern string, stage Stage, chain ...Stage) {
	t.mustAdd(http.MethodDelete, pattern, stage, chain)
}

// Group opens prefix, runs fn and closes the group even if fn panics.
func (t *RouteTable) Group(prefix string, fn func(r Router)) {
	t.OpenGroup(prefix)
	defer func() { _ = t.CloseGroup() }()
	fn(t)
}

// mustAdd panics on invalid registrations; they are programming errors.
func (t *RouteTable) mustAdd(method, pattern string, stage Stage, chain []Stage) {
	if _, err := t.AddRoute(method, pattern, append([]Stage{stage}, chain...)...); err != nil {
		panic(fmt.Sprintf("restify: %s %s: %v", method, pattern, err))
	}
}
