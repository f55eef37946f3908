package middlewares

import (
	"log/slog"
	"runtime"

	"github.com/dmitrymomot/restify/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables capturing the stack trace.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns a stage that turns panics in later stages into a *PanicError.
// The server answers it with a 500 unless the response has already ended.
func Recover(opts ...RecoverOption) internal.Stage {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(req *internal.Request, _ *internal.Response, next internal.Next) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			attrs := []any{slog.Any("panic", r), slog.String("path", req.Path())}
			var stack []byte
			if !cfg.DisablePrintStack && cfg.StackSize > 0 {
				stack = make([]byte, cfg.StackSize)
				stack = stack[:runtime.Stack(stack, false)]
				attrs = append(attrs, slog.String("stack", string(stack)))
			}
			req.Logger().ErrorContext(req.Context(), "panic recovered", attrs...)

			err = &PanicError{Value: r, Stack: stack, Method: req.Method(), Path: req.Path()}
		}()

		return next()
	}
}
