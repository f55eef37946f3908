package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/restify/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns a stage that puts a deadline on the request context.
// Stages run on the request's own goroutine and are never preempted; the
// deadline cancels context-aware work such as store calls. When the chain
// fails after the deadline passed, the error is replaced by a 504 wrapping
// a *TimeoutError.
func Timeout(timeout time.Duration) internal.Stage {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(req *internal.Request, _ *internal.Response, next internal.Next) error {
		parent := req.Context()
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		req.WithContext(ctx)
		err := next()
		req.WithContext(parent)

		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			req.Logger().WarnContext(parent, "request timeout",
				slog.String("path", req.Path()),
				slog.Duration("timeout", timeout),
			)
			return internal.NewHTTPError(http.StatusGatewayTimeout, "Gateway Timeout").
				WithCause(&TimeoutError{Limit: timeout, Path: req.Path()})
		}
		return err
	}
}
