package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restify/internal"
	"github.com/dmitrymomot/restify/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("fails context-aware work past the deadline with 504", func(t *testing.T) {
		t.Parallel()

		var got error
		h := newServer(func(r internal.Router) {
			r.GET("/slow", func(req *internal.Request, _ *internal.Response, _ internal.Next) error {
				<-req.Context().Done()
				return req.Context().Err()
			})
		}, internal.WithMiddleware(capture(&got), middlewares.Timeout(10*time.Millisecond)))

		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/slow", nil))
		require.Equal(t, http.StatusGatewayTimeout, rec.Code)
		require.Equal(t, "Gateway Timeout", rec.Body.String())
		te, ok := middlewares.AsTimeoutError(got)
		require.True(t, ok)
		require.Equal(t, 10*time.Millisecond, te.Limit)
		require.Equal(t, "/slow", te.Path)
		require.ErrorIs(t, got, context.DeadlineExceeded)
	})

	t.Run("completes within the deadline", func(t *testing.T) {
		t.Parallel()

		var deadline bool
		h := newServer(func(r internal.Router) {
			r.GET("/fast", func(req *internal.Request, res *internal.Response, next internal.Next) error {
				_, deadline = req.Context().Deadline()
				return next()
			}, text("fast"))
		}, internal.WithMiddleware(middlewares.Timeout(time.Second)))

		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/fast", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "fast", rec.Body.String())
		require.True(t, deadline)
	})

	t.Run("non-positive timeout uses the default", func(t *testing.T) {
		t.Parallel()

		var remaining time.Duration
		h := newServer(func(r internal.Router) {
			r.GET("/", func(req *internal.Request, _ *internal.Response, next internal.Next) error {
				dl, _ := req.Context().Deadline()
				remaining = time.Until(dl)
				return next()
			})
		}, internal.WithMiddleware(middlewares.Timeout(0)))

		do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Greater(t, remaining, middlewares.DefaultTimeout-time.Second)
	})

	t.Run("errors before the deadline pass through", func(t *testing.T) {
		t.Parallel()

		h := newServer(func(r internal.Router) {
			r.GET("/", func(*internal.Request, *internal.Response, internal.Next) error {
				return internal.ErrForbidden("nope")
			})
		}, internal.WithMiddleware(middlewares.Timeout(time.Second)))

		rec := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "nope", rec.Body.String())
	})
}
