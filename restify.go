package restify

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/restify/internal"
	"github.com/dmitrymomot/restify/pkg/cookie"
	"github.com/dmitrymomot/restify/pkg/health"
	"github.com/dmitrymomot/restify/pkg/logger"
	"github.com/dmitrymomot/restify/pkg/session"
)

// Type aliases - public API
type (
	// Server composes the route table, body parsing and sessions into one
	// request pipeline. It serves plain net/http through Handler or Run.
	Server = internal.Server

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Handler declares routes on a router.
	Handler = internal.Handler

	// Stage is one step of a handler chain.
	Stage = internal.Stage

	// Next continues a chain with the following stage.
	Next = internal.Next

	// Request is the per-request state handed to every stage.
	Request = internal.Request

	// Response buffers status, headers, cookies and body until End.
	Response = internal.Response

	// Values is an insertion-ordered map holding parsed request data.
	Values = internal.Values

	// RouteTable stores routes and named event chains.
	RouteTable = internal.RouteTable

	// Route is a registered method and compiled pattern.
	Route = internal.Route

	// Match describes how a method and path resolved against a RouteTable.
	Match = internal.Match

	// Outcome is the result class of a Match.
	Outcome = internal.Outcome

	// Option configures the server.
	Option = internal.Option

	// RunOption configures Server.Run.
	RunOption = internal.RunOption

	// HTTPError lets a stage choose the failure status and message.
	HTTPError = internal.HTTPError

	// ParseError is the request error after a body failed to parse.
	ParseError = internal.ParseError

	// Transport is the incoming side of a connection driven through Server.Serve.
	Transport = internal.Transport

	// Outgoing receives a finished response from Server.Serve.
	Outgoing = internal.Outgoing

	// BodySink is fed the request body by the transport.
	BodySink = internal.BodySink

	// Seeder is implemented by transports that pre-populate request data.
	Seeder = internal.Seeder

	// Extractor tries sources in order and returns the first non-empty value.
	Extractor = internal.Extractor

	// ExtractorSource reads one candidate value from a request.
	ExtractorSource = internal.ExtractorSource

	// Scalar is the set of types the typed lookups convert into.
	Scalar = internal.Scalar

	// SessionManager loads and saves session bags keyed by the "id" cookie.
	SessionManager = internal.SessionManager

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// SessionValues is the key/value bag of a session.
	SessionValues = session.Values

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// HealthOption configures the health endpoints.
	HealthOption = health.Option

	// HealthCheck reports the readiness of one dependency.
	HealthCheck = health.CheckFunc

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Named event chains.
const (
	EventNotFound         = internal.EventNotFound
	EventMethodNotAllowed = internal.EventMethodNotAllowed
	EventParseError       = internal.EventParseError
)

// Match outcomes.
const (
	Matched          = internal.Matched
	NotFound         = internal.NotFound
	MethodNotAllowed = internal.MethodNotAllowed
)

const (
	// SessionCookie is the cookie carrying the session ID.
	SessionCookie = internal.SessionCookie

	// DefaultMaxBodyBytes caps request bodies unless WithMaxBodyBytes says otherwise.
	DefaultMaxBodyBytes = internal.DefaultMaxBodyBytes
)

// Errors
var (
	ErrResponseEnded   = internal.ErrResponseEnded
	ErrGroupUnbalanced = internal.ErrGroupUnbalanced
	ErrGroupOpen       = internal.ErrGroupOpen
	ErrNextCalledTwice = internal.ErrNextCalledTwice
	ErrBodyTooLarge    = internal.ErrBodyTooLarge
	ErrInvalidMethod   = internal.ErrInvalidMethod
	ErrEmptyChain      = internal.ErrEmptyChain
)

// Constructors

// New creates a server with the default NotFound, MethodNotAllowed and
// ParseError chains installed.
//
// Example:
//
//	srv := restify.New(
//	    restify.WithLogger(log),
//	    restify.WithSessions(session.NewMemoryStore()),
//	    restify.WithHandlers(handlers.NewUsers(repo)),
//	)
//
//	err := srv.Run(restify.Address(":8080"))
func New(opts ...Option) *Server {
	return internal.New(opts...)
}

// NewRouteTable creates an empty route table.
func NewRouteTable() *RouteTable {
	return internal.NewRouteTable()
}

// NewValues creates an empty ordered map.
func NewValues() *Values {
	return internal.NewValues()
}

// NewSessionManager creates a session manager backed by store.
func NewSessionManager(store SessionStore, opts ...SessionOption) *SessionManager {
	return internal.NewSessionManager(store, opts...)
}

// NewExtractor creates an extractor trying sources in order.
//
// Example:
//
//	token := restify.NewExtractor(
//	    restify.FromBearerToken(),
//	    restify.FromQuery("token"),
//	)
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// Server options

// WithLogger sets the server logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during New.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithMiddleware adds global stages run before every route and event chain.
// Stages run in the order provided.
func WithMiddleware(stages ...Stage) Option {
	return internal.WithMiddleware(stages...)
}

// WithAllowOrigin sets the Access-Control-Allow-Origin value stamped on
// every routed response. Defaults to "*".
func WithAllowOrigin(origin string) Option {
	return internal.WithAllowOrigin(origin)
}

// WithMaxBodyBytes caps the accepted request body size.
// Larger bodies fail with 413 through the ParseError chain.
func WithMaxBodyBytes(n int64) Option {
	return internal.WithMaxBodyBytes(n)
}

// WithSessions enables sessions backed by store.
//
// Example:
//
//	store, _ := session.NewFileStore("/var/lib/app/sessions")
//	restify.New(
//	    restify.WithSessions(store, restify.WithSessionMaxAge(3600)),
//	)
func WithSessions(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSessions(store, opts...)
}

// WithCookieOptions configures the cookie manager used for response cookies.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithHealthCheck adds a named readiness check to /health/ready.
//
// Example:
//
//	restify.WithHealthCheck("db", db.Healthcheck(pool))
func WithHealthCheck(name string, fn HealthCheck) Option {
	return internal.WithHealthCheck(name, fn)
}

// WithHealthOptions configures the health endpoints.
func WithHealthOptions(opts ...HealthOption) Option {
	return internal.WithHealthOptions(opts...)
}

// Session options

// WithSessionIDGenerator replaces the default session ID generator.
func WithSessionIDGenerator(fn func() string) SessionOption {
	return internal.WithSessionIDGenerator(fn)
}

// WithSessionMaxAge sets the session cookie Max-Age in seconds.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

// Run options

// Address sets the HTTP server address.
// Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the runtime logger.
// If nil, the server logger is used.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the graceful shutdown deadline.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the listener opens. A failing hook aborts Run.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn after the server stopped accepting requests.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError creates an HTTPError. An empty message falls back to the status text.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// ErrBadRequest creates a 400 error.
func ErrBadRequest(message string) *HTTPError {
	return internal.ErrBadRequest(message)
}

// ErrUnauthorized creates a 401 error.
func ErrUnauthorized(message string) *HTTPError {
	return internal.ErrUnauthorized(message)
}

// ErrForbidden creates a 403 error.
func ErrForbidden(message string) *HTTPError {
	return internal.ErrForbidden(message)
}

// ErrNotFound creates a 404 error.
func ErrNotFound(message string) *HTTPError {
	return internal.ErrNotFound(message)
}

// ErrConflict creates a 409 error.
func ErrConflict(message string) *HTTPError {
	return internal.ErrConflict(message)
}

// ErrInternal creates a 500 error.
func ErrInternal(message string) *HTTPError {
	return internal.ErrInternal(message)
}

// AsHTTPError returns the *HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// Extractor sources

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

// FromCookie reads a request cookie.
func FromCookie(name string) ExtractorSource {
	return internal.FromCookie(name)
}

// FromParam reads a route parameter.
func FromParam(name string) ExtractorSource {
	return internal.FromParam(name)
}

// FromData reads a scalar from the parsed request data.
func FromData(key string) ExtractorSource {
	return internal.FromData(key)
}

// FromSession reads a scalar from the request's session.
func FromSession(m *SessionManager, key string) ExtractorSource {
	return internal.FromSession(m, key)
}

// FromBearerToken reads the token of an "Authorization: Bearer" header.
func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}

// Typed lookups

// Param returns route parameter name converted to T, or T's zero value.
//
// Example:
//
//	id := restify.Param[int64](req, "id")
func Param[T Scalar](req *Request, name string) T {
	return internal.Param[T](req, name)
}

// Query returns query parameter name converted to T, or T's zero value.
func Query[T Scalar](req *Request, name string) T {
	return internal.Query[T](req, name)
}

// QueryDefault returns query parameter name converted to T, or defaultValue
// when it is missing or does not convert.
func QueryDefault[T Scalar](req *Request, name string, defaultValue T) T {
	return internal.QueryDefault(req, name, defaultValue)
}

// DataValue returns the parsed body value at key converted to T.
func DataValue[T Scalar](req *Request, key string) (T, bool) {
	return internal.DataValue[T](req, key)
}

// Value returns the value at key when it holds a T.
func Value[T any](v *Values, key string) (T, bool) {
	return internal.Value[T](v, key)
}
