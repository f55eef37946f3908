package internal

import (
	"log/slog"

	"github.com/dmitrymomot/restify/pkg/cookie"
	"github.com/dmitrymomot/restify/pkg/health"
	"github.com/dmitrymomot/restify/pkg/session"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return func(s *Server) {
		s.handlers = append(s.handlers, h...)
	}
}

// WithMiddleware adds stages that run before every dispatch, including the
// NotFound, MethodNotAllowed and ParseError chains. They run in the order given.
func WithMiddleware(stages ...Stage) Option {
	return func(s *Server) {
		for _, st := range stages {
			if st != nil {
				s.middlewares = append(s.middlewares, st)
			}
		}
	}
}

// WithAllowOrigin sets the Access-Control-Allow-Origin value. Default: "*"
func WithAllowOrigin(origin string) Option {
	return func(s *Server) {
		if origin != "" {
			s.allowOrigin = origin
		}
	}
}

// WithMaxBodyBytes caps accumulated request bodies. Default: 10 MiB
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithSessions enables the session manager backed by store.
//
// Example:
//
//	store, err := session.NewFileStore("/var/lib/app/sessions")
//	if err != nil {
//	    return err
//	}
//	srv := restify.New(restify.WithSessions(store))
func WithSessions(store session.Store, opts ...SessionOption) Option {
	return func(s *Server) {
		if store != nil {
			s.sessionStore = store
			s.sessionOpts = append(s.sessionOpts, opts...)
		}
	}
}

// WithCookieOptions sets attributes of cookies added to responses.
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(s *Server) {
		s.cookieOpts = append(s.cookieOpts, opts...)
	}
}

// WithHealthCheck adds a named readiness check served at /health/ready.
func WithHealthCheck(name string, fn health.CheckFunc) Option {
	return func(s *Server) {
		if name != "" && fn != nil {
			s.checks[name] = fn
		}
	}
}

// WithHealthOptions configures readiness runs.
func WithHealthOptions(opts ...health.Option) Option {
	return func(s *Server) {
		s.healthOpts = append(s.healthOpts, opts...)
	}
}
