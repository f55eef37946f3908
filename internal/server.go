package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/restify/pkg/cookie"
	"github.com/dmitrymomot/restify/pkg/health"
	"github.com/dmitrymomot/restify/pkg/logger"
	"github.com/dmitrymomot/restify/pkg/session"
)

const (
	defaultAllowOrigin = "*"
	allowedMethods     = "POST, GET, PUT, DEL"
	// dateRFC822 matches the classic "D, d M y H:i:s O" layout.
	dateRFC822 = "Mon, 02 Jan 06 15:04:05 -0700"
)

// Server wires transports into requests and responses and dispatches them.
type Server struct {
	routes      *RouteTable
	middlewares []Stage
	handlers    []Handler
	logger      *slog.Logger

	allowOrigin  string
	maxBodyBytes int64

	cookieOpts []cookie.Option
	cookies    *cookie.Manager

	sessionStore session.Store
	sessionOpts  []SessionOption
	sessions     *SessionManager

	checks     health.Checks
	healthOpts []health.Option

	now func() time.Time
}

// New creates a Server. Handlers passed with WithHandlers are registered
// immediately; more routes may be added until serving starts.
func New(opts ...Option) *Server {
	s := &Server{
		routes:       NewRouteTable(),
		logger:       logger.NewNope(),
		allowOrigin:  defaultAllowOrigin,
		maxBodyBytes: DefaultMaxBodyBytes,
		checks:       health.Checks{},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cookies = cookie.New(s.cookieOpts...)
	if s.sessionStore != nil {
		s.sessions = NewSessionManager(s.sessionStore, s.sessionOpts...)
	}

	s.routes.On(EventNotFound, notFound)
	s.routes.On(EventMethodNotAllowed, methodNotAllowed)
	s.routes.On(EventParseError, parseFailed)

	for _, h := range s.handlers {
		h.Routes(s)
	}
	return s
}

func notFound(_ *Request, res *Response, next Next) error {
	if _, err := res.WriteString("Not found"); err != nil {
		return err
	}
	if err := res.SetStatus(http.StatusNotFound); err != nil {
		return err
	}
	return next()
}

func methodNotAllowed(req *Request, res *Response, next Next) error {
	if err := res.SetHeader("Allow", strings.Join(req.AllowedMethods(), ", ")); err != nil {
		return err
	}
	if _, err := res.WriteString("Method Not Allowed"); err != nil {
		return err
	}
	if err := res.SetStatus(http.StatusMethodNotAllowed); err != nil {
		return err
	}
	return next()
}

func parseFailed(req *Request, res *Response, next Next) error {
	code, msg := http.StatusBadRequest, http.StatusText(http.StatusBadRequest)
	var pe *ParseError
	if errors.As(req.Err(), &pe) {
		code, msg = pe.Code, pe.Message
	}
	if _, err := res.WriteString(msg); err != nil {
		return err
	}
	if err := res.SetStatus(code); err != nil {
		return err
	}
	return next()
}

func (s *Server) GET(pattern string, stage Stage, chain ...Stage) {
	s.routes.GET(pattern, stage, chain...)
}

func (s *Server) POST(pattern string, stage Stage, chain ...Stage) {
	s.routes.POST(pattern, stage, chain...)
}

func (s *Server) PUT(pattern string, stage Stage, chain ...Stage) {
	s.routes.PUT(pattern, stage, chain...)
}

func (s *Server) DELETE(pattern string, stage Stage, chain ...Stage) {
	s.routes.DELETE(pattern, stage, chain...)
}

func (s *Server) Group(prefix string, fn func(r Router)) {
	s.routes.OpenGroup(prefix)
	defer func() { _ = s.routes.CloseGroup() }()
	fn(s)
}

// On replaces the chain of a named event such as EventNotFound.
func (s *Server) On(name string, stage Stage, chain ...Stage) {
	s.routes.On(name, stage, chain...)
}

// SetAccessControlAllowOrigin changes the Access-Control-Allow-Origin value.
// Call it before serving.
func (s *Server) SetAccessControlAllowOrigin(origin string) {
	s.allowOrigin = origin
}

// Routes exposes the route table.
func (s *Server) Routes() *RouteTable {
	return s.routes
}

// Sessions returns the session manager, or nil without WithSessions.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Handler returns the HTTP entry point: health checks plus the pipeline
// mounted on every other path.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	health.Mount(r, s.checks, append([]health.Option{health.WithLogger(s.logger)}, s.healthOpts...)...)
	r.Handle("/*", s)
	return r
}

// Serve starts processing one request. The returned sink must be fed the
// request body; for methods without a body the request may already be
// answered when Serve returns.
func (s *Server) Serve(ctx context.Context, t Transport, out Outgoing) BodySink {
	start := s.now()
	req := newRequest(ctx, t, s.logger)
	res := newResponse(out, s.cookies)

	final := func() error {
		return s.finish(res, start)
	}

	body := newBodyAccumulator(t.Method(), req.headers["content-length"], s.maxBodyBytes, t, req.completeBody)
	body.start()

	req.events.subscribe(func(ev event) {
		switch ev.kind {
		case eventEnd:
			s.run(req, res, func() error {
				return s.routes.Dispatch(req, res, final)
			})
		case eventError:
			s.run(req, res, func() error {
				return s.routes.DispatchEvent(EventParseError, req, res, final)
			})
		}
	})
	return body
}

// finish stamps the standard headers and ends the response.
func (s *Server) finish(res *Response, start time.Time) error {
	elapsed := s.now().Sub(start).Seconds()
	for _, h := range [][2]string{
		{"X-Response-Time", strconv.FormatFloat(elapsed, 'f', -1, 64)},
		{"Date", s.now().Format(dateRFC822)},
		{"Access-Control-Request-Method", allowedMethods},
		{"Access-Control-Allow-Origin", s.allowOrigin},
	} {
		if err := res.AddHeader(h[0], h[1]); err != nil {
			return err
		}
	}
	return res.End()
}

// run executes a dispatch through the global middlewares and guarantees
// the response is ended, converting errors and panics into failure responses.
func (s *Server) run(req *Request, res *Response, dispatch func() error) {
	defer func() {
		if v := recover(); v != nil {
			s.fail(req, res, &panicError{value: v})
		}
	}()

	if err := runChain(s.middlewares, req, res, dispatch); err != nil {
		s.fail(req, res, err)
		return
	}
	if !res.Ended() {
		if err := res.End(); err != nil {
			s.logger.ErrorContext(req.Context(), "failed to end response", slog.Any("error", err))
		}
	}
}

// fail replaces the response with the error status and message.
func (s *Server) fail(req *Request, res *Response, err error) {
	log := s.logger.With(
		slog.String("method", req.Method()),
		slog.String("path", req.Path()),
		slog.Any("error", err),
	)
	if res.Ended() {
		log.ErrorContext(req.Context(), "handler failed after response ended")
		return
	}

	code, msg := http.StatusInternalServerError, err.Error()
	if he := AsHTTPError(err); he != nil {
		code, msg = he.Code, he.Message
	}
	if code >= http.StatusInternalServerError {
		log.ErrorContext(req.Context(), "request failed", slog.Int("status", code))
	}

	_ = res.ResetBody()
	_ = res.SetStatus(code)
	_, _ = res.WriteString(msg)
	if err := res.End(); err != nil {
		log.ErrorContext(req.Context(), "failed to end response", slog.Any("end_error", err))
	}
}
