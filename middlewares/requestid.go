package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/restify/internal"
	"github.com/dmitrymomot/restify/pkg/logger"
)

// requestIDKey is the context key for storing the request ID.
type requestIDKey struct{}

// DefaultRequestIDHeaders are the headers checked (in order) for an existing request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string // ID generator function
	ResponseHeader string        // Response header name
	Headers        []string      // Headers to check for existing ID (in order)
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers to check for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Generator = gen
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID returns a stage that assigns an ID to each request.
// An ID supplied by the client in one of the configured headers is reused,
// otherwise a UUIDv4 is generated. The ID is echoed as a response header and
// attached to the request context, so loggers built with
// logger.WithExtractors(logger.FromContext) print it as "request_id".
func RequestID(opts ...RequestIDOption) internal.Stage {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      uuid.NewString,
		ResponseHeader: "X-Request-ID",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	sources := make([]internal.ExtractorSource, 0, len(cfg.Headers))
	for _, h := range cfg.Headers {
		sources = append(sources, internal.FromHeader(h))
	}
	extractor := internal.NewExtractor(sources...)

	return func(req *internal.Request, res *internal.Response, next internal.Next) error {
		reqID, ok := extractor.Extract(req)
		if !ok {
			reqID = cfg.Generator()
		}

		ctx := context.WithValue(req.Context(), requestIDKey{}, reqID)
		req.WithContext(logger.WithAttrs(ctx, slog.String("request_id", reqID)))

		if err := res.SetHeader(cfg.ResponseHeader, reqID); err != nil {
			return err
		}
		return next()
	}
}

// GetRequestID returns the ID assigned by RequestID, or "" when none is set.
func GetRequestID(req *internal.Request) string {
	return RequestIDFromContext(req.Context())
}

// RequestIDFromContext returns the request ID stored in ctx.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDExtractor returns a ContextExtractor adding "request_id" to log records.
// Use it instead of logger.FromContext when only the request ID is wanted.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := RequestIDFromContext(ctx); v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
