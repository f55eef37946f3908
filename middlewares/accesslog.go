package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/restify/internal"
)

// AccessLogConfig configures the access log middleware.
type AccessLogConfig struct {
	Logger *slog.Logger // Defaults to the request logger
	Level  slog.Level   // Level for successful requests (default: Info)
	now    func() time.Time
}

// AccessLogOption configures AccessLogConfig.
type AccessLogOption func(*AccessLogConfig)

// WithAccessLogger sets the logger access records are written to.
func WithAccessLogger(l *slog.Logger) AccessLogOption {
	return func(cfg *AccessLogConfig) {
		cfg.Logger = l
	}
}

// WithAccessLogLevel sets the level used for requests that did not fail.
func WithAccessLogLevel(level slog.Level) AccessLogOption {
	return func(cfg *AccessLogConfig) {
		cfg.Level = level
	}
}

// AccessLog returns a stage that writes one record per request once the
// rest of the chain has run. Failed chains are logged at error level; the
// status they end up with is chosen by the server afterwards and is not
// part of the record.
func AccessLog(opts ...AccessLogOption) internal.Stage {
	cfg := &AccessLogConfig{
		Level: slog.LevelInfo,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(req *internal.Request, res *internal.Response, next internal.Next) error {
		start := cfg.now()
		err := next()

		log := cfg.Logger
		if log == nil {
			log = req.Logger()
		}

		attrs := []slog.Attr{
			slog.String("method", req.Method()),
			slog.String("path", req.Path()),
			slog.Duration("duration", cfg.now().Sub(start)),
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			log.LogAttrs(req.Context(), slog.LevelError, "request failed", attrs...)
			return err
		}

		attrs = append(attrs, slog.Int("status", res.Status()))
		log.LogAttrs(req.Context(), cfg.Level, "request", attrs...)
		return nil
	}
}
