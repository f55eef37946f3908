package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/restify/internal"
)

// routes registers fixed stages for tests.
type routes func(r internal.Router)

func (fn routes) Routes(r internal.Router) { fn(r) }

func newServer(fn func(r internal.Router), opts ...internal.Option) http.Handler {
	opts = append(opts, internal.WithHandlers(routes(fn)))
	return internal.New(opts...).Handler()
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func text(body string) internal.Stage {
	return func(_ *internal.Request, res *internal.Response, next internal.Next) error {
		if _, err := res.WriteString(body); err != nil {
			return err
		}
		return next()
	}
}

// capture records the error the rest of the chain returned.
func capture(dst *error) internal.Stage {
	return func(_ *internal.Request, _ *internal.Response, next internal.Next) error {
		err := next()
		*dst = err
		return err
	}
}
