package internal_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restify/internal"
	"github.com/dmitrymomot/restify/pkg/session"
)

func TestServeHTTP(t *testing.T) {
	t.Parallel()

	srv := internal.New(internal.WithSessions(session.NewMemoryStore()))
	srv.POST("/items", srv.Sessions().Stage(), func(req *internal.Request, res *internal.Response, next internal.Next) error {
		if err := res.JSON(http.StatusCreated, req.Data()); err != nil {
			return err
		}
		return next()
	})
	srv.GET("/items/:id", func(req *internal.Request, res *internal.Response, next internal.Next) error {
		if err := res.SetHeader("X-Item", req.Param("id")); err != nil {
			return err
		}
		return next()
	})

	t.Run("body, status, headers and cookies reach the writer", func(t *testing.T) {
		t.Parallel()

		body := `{"name":"lamp","qty":2}`
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Content-Length", strconv.Itoa(len(body)))
		rec := httptest.NewRecorder()

		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.JSONEq(t, body, rec.Body.String())
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, "id", cookies[0].Name)
	})

	t.Run("form body without content length", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader("tags[]=a&tags[]=b"))
		rec := httptest.NewRecorder()

		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.JSONEq(t, `{"tags":["a","b"]}`, rec.Body.String())
	})

	t.Run("empty POST body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		rec := httptest.NewRecorder()

		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.JSONEq(t, `{}`, rec.Body.String())
	})

	t.Run("read failure still answers", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/items", io.NopCloser(failingReader{}))
		req.Header.Set("Content-Length", "10")
		rec := httptest.NewRecorder()

		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/3", nil))

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, "GET", rec.Header().Get("Allow"))
		require.Equal(t, "Method Not Allowed", rec.Body.String())
	})
}

func TestServeHTTP_BodylessMethods(t *testing.T) {
	t.Parallel()

	srv := internal.New()
	srv.GET("/items", func(_ *internal.Request, res *internal.Response, next internal.Next) error {
		if _, err := res.WriteString("listed"); err != nil {
			return err
		}
		return next()
	})
	srv.DELETE("/items", func(_ *internal.Request, res *internal.Response, next internal.Next) error {
		if err := res.SetStatus(http.StatusNoContent); err != nil {
			return err
		}
		return next()
	})

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		t.Run(method+" body is never read", func(t *testing.T) {
			t.Parallel()

			body := &countingReader{}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(method, "/items", body))

			require.Zero(t, body.reads.Load())
			require.NotEqual(t, http.StatusInternalServerError, rec.Code)
		})
	}
}

// countingReader is an endless body that records every Read call.
type countingReader struct {
	reads atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads.Add(1)
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestHandler(t *testing.T) {
	t.Parallel()

	srv := internal.New(
		internal.WithHealthCheck("store", func(context.Context) error { return errors.New("offline") }),
	)
	srv.GET("/", func(_ *internal.Request, res *internal.Response, next internal.Next) error {
		_, _ = res.WriteString("home")
		return next()
	})
	srv.PUT("/docs/:name", func(req *internal.Request, res *internal.Response, next internal.Next) error {
		_, _ = res.WriteString(req.Param("name") + "=" + req.String("body"))
		return next()
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(ts.URL + "/health/live")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("readiness reports failing checks", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(ts.URL + "/health/ready")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("root path reaches the pipeline", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "home", string(data))
		require.NotEmpty(t, resp.Header.Get("X-Response-Time"))
	})

	t.Run("body over the wire", func(t *testing.T) {
		t.Parallel()

		req, err := http.NewRequest(http.MethodPut, ts.URL+"/docs/readme", strings.NewReader("body=hello+there"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "readme=hello there", string(data))
	})

	t.Run("unknown path", func(t *testing.T) {
		t.Parallel()

		resp, err := http.Get(ts.URL + "/nowhere")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
