package restify_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restify"
	"github.com/dmitrymomot/restify/pkg/session"
)

type accountHandler struct {
	sessions func() *restify.SessionManager
}

func (h *accountHandler) Routes(r restify.Router) {
	r.Group("/account", func(r restify.Router) {
		r.POST("/login", h.login)
		r.GET("/me", h.me)
		r.GET("/orders/:id", h.order)
	})
}

func (h *accountHandler) login(req *restify.Request, res *restify.Response, next restify.Next) error {
	user := req.String("user")
	if user == "" {
		return restify.ErrBadRequest("user required")
	}
	if err := h.sessions().Start(req, res); err != nil {
		return err
	}
	if err := h.sessions().Set(req, "user", user); err != nil {
		return err
	}
	if err := res.String(http.StatusCreated, "welcome "+user); err != nil {
		return err
	}
	return next()
}

func (h *accountHandler) me(req *restify.Request, res *restify.Response, next restify.Next) error {
	user, err := h.sessions().Get(req, "user")
	if err != nil {
		return err
	}
	if user == nil {
		return restify.ErrUnauthorized("")
	}
	if err := res.JSON(http.StatusOK, map[string]any{"user": user}); err != nil {
		return err
	}
	return next()
}

func (h *accountHandler) order(req *restify.Request, res *restify.Response, next restify.Next) error {
	id := restify.Param[int](req, "id")
	if id <= 0 {
		return restify.ErrNotFound("no such order")
	}
	page := restify.QueryDefault(req, "page", 1)
	if err := res.JSON(http.StatusOK, map[string]int{"id": id, "page": page}); err != nil {
		return err
	}
	return next()
}

func newTestServer() *restify.Server {
	h := &accountHandler{}
	srv := restify.New(
		restify.WithSessions(session.NewMemoryStore(), restify.WithSessionIDGenerator(func() string { return "s1" })),
		restify.WithHandlers(h),
		restify.WithAllowOrigin("https://app.example.com"),
	)
	h.sessions = srv.Sessions
	return srv
}

func TestServerEndToEnd(t *testing.T) {
	t.Parallel()

	srv := newTestServer()
	handler := srv.Handler()

	t.Run("login starts a session from a JSON body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/account/login", strings.NewReader(`{"user":"ann"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "welcome ann", rec.Body.String())
		require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		require.NotEmpty(t, rec.Header().Get("X-Response-Time"))

		var id *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == restify.SessionCookie {
				id = c
			}
		}
		require.NotNil(t, id)
		require.Equal(t, "s1", id.Value)
	})

	t.Run("session cookie resolves the user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/account/me", nil)
		req.AddCookie(&http.Cookie{Name: restify.SessionCookie, Value: "s1"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"user":"ann"}`, rec.Body.String())
	})

	t.Run("no session is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account/me", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Unauthorized", rec.Body.String())
	})

	t.Run("form body without user is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/account/login", strings.NewReader("name=bob"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "user required", rec.Body.String())
	})

	t.Run("typed params and query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account/orders/42?page=3", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"id":42,"page":3}`, rec.Body.String())
	})

	t.Run("events", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Not found", rec.Body.String())

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/account/me", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, "GET", rec.Header().Get("Allow"))

		req := httptest.NewRequest(http.MethodPost, "/account/login", strings.NewReader(`{"user":`))
		req.Header.Set("Content-Type", "application/json")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("health endpoints are mounted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestValues(t *testing.T) {
	t.Parallel()

	v := restify.NewValues()
	v.Set("b", 1.0)
	v.Set("a", "x")

	require.Equal(t, []string{"b", "a"}, v.Keys())
	s, ok := restify.Value[string](v, "a")
	require.True(t, ok)
	require.Equal(t, "x", s)
}

func TestRouteTableMatch(t *testing.T) {
	t.Parallel()

	rt := restify.NewRouteTable()
	_, err := rt.AddRoute(http.MethodGet, "/a/:id",
		func(*restify.Request, *restify.Response, restify.Next) error { return nil },
	)
	require.NoError(t, err)

	require.Equal(t, restify.Matched, rt.Match(http.MethodGet, "/a/1").Outcome)
	require.Equal(t, restify.MethodNotAllowed, rt.Match(http.MethodPut, "/a/1").Outcome)
	require.Equal(t, restify.NotFound, rt.Match(http.MethodGet, "/b").Outcome)
}
