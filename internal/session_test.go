package internal_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restify/internal"
	"github.com/dmitrymomot/restify/pkg/session"
)

func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

// sessionServer exposes login (start + set) and whoami (get) routes.
func sessionServer(store session.Store, opts ...internal.SessionOption) *internal.Server {
	srv := internal.New(internal.WithSessions(store, opts...))
	sm := srv.Sessions()

	srv.POST("/login", func(req *internal.Request, res *internal.Response, next internal.Next) error {
		if err := sm.Start(req, res); err != nil {
			return err
		}
		if err := sm.Start(req, res); err != nil {
			return err
		}
		if err := sm.Set(req, "user", req.String("user")); err != nil {
			return err
		}
		return next()
	})
	srv.GET("/whoami", func(req *internal.Request, res *internal.Response, next internal.Next) error {
		user, err := sm.Get(req, "user")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(res, "%v", user)
		return next()
	})
	srv.PUT("/prefs", func(req *internal.Request, res *internal.Response, next internal.Next) error {
		if err := sm.Set(req, "theme", req.String("theme")); err != nil {
			return err
		}
		return next()
	})
	return srv
}

func TestSessionManager(t *testing.T) {
	t.Parallel()

	t.Run("start sets exactly one cookie and get round-trips", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		srv := sessionServer(store, internal.WithSessionIDGenerator(sequence("1001", "1002")))

		login := serve(t, srv, newTransport(t, http.MethodPost, "/login", nil), "user=ada")
		require.Len(t, login.cookies, 1)
		require.Equal(t, "id", login.cookies[0].Name)
		require.Equal(t, "1001", login.cookies[0].Value)
		require.Equal(t, 1, store.Len())

		bag, err := store.Load(context.Background(), "1001")
		require.NoError(t, err)
		require.Equal(t, "ada", bag.Get("user"))

		who := serve(t, srv, newTransport(t, http.MethodGet, "/whoami", map[string]string{"Cookie": "id=1001"}))
		require.Equal(t, "ada", who.body.String())
		require.Empty(t, who.cookies)
	})

	t.Run("start with an existing cookie is a no-op", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		srv := sessionServer(store, internal.WithSessionIDGenerator(sequence("should-not-be-used")))

		rec := serve(t, srv, newTransport(t, http.MethodPost, "/login", map[string]string{"Cookie": "id=77"}), "user=bob")
		require.Empty(t, rec.cookies)

		bag, err := store.Load(context.Background(), "77")
		require.NoError(t, err)
		require.Equal(t, "bob", bag.Get("user"))
	})

	t.Run("absent key reads as nil", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		require.NoError(t, store.Create(context.Background(), "5"))
		srv := sessionServer(store)

		rec := serve(t, srv, newTransport(t, http.MethodGet, "/whoami", map[string]string{"Cookie": "id=5"}))
		require.Equal(t, "<nil>", rec.body.String())
	})

	t.Run("without a session get and set do nothing", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		srv := sessionServer(store)

		who := serve(t, srv, newTransport(t, http.MethodGet, "/whoami", nil))
		require.Equal(t, "<nil>", who.body.String())

		prefs := serve(t, srv, newTransport(t, http.MethodPut, "/prefs", nil), "theme=dark")
		require.Equal(t, http.StatusOK, prefs.status)
		require.Zero(t, store.Len())
		require.Empty(t, prefs.cookies)
	})

	t.Run("missing record reads empty and set creates it", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		srv := sessionServer(store)
		cookie := map[string]string{"Cookie": "id=404"}

		who := serve(t, srv, newTransport(t, http.MethodGet, "/whoami", cookie))
		require.Equal(t, http.StatusOK, who.status)
		require.Equal(t, "<nil>", who.body.String())

		serve(t, srv, newTransport(t, http.MethodPut, "/prefs", cookie), "theme=dark")
		bag, err := store.Load(context.Background(), "404")
		require.NoError(t, err)
		require.Equal(t, session.Values{"theme": "dark"}, bag)
	})

	t.Run("storage failures surface as 500", func(t *testing.T) {
		t.Parallel()

		srv := sessionServer(failingStore{err: errors.New("disk full")})
		rec := serve(t, srv, newTransport(t, http.MethodGet, "/whoami", map[string]string{"Cookie": "id=1"}))
		require.Equal(t, http.StatusInternalServerError, rec.status)
		require.Equal(t, "disk full", rec.body.String())
	})

	t.Run("default IDs are decimal 31-bit numbers", func(t *testing.T) {
		t.Parallel()

		srv := sessionServer(session.NewMemoryStore())
		rec := serve(t, srv, newTransport(t, http.MethodPost, "/login", nil), "user=x")
		require.Len(t, rec.cookies, 1)

		n, err := strconv.ParseInt(rec.cookies[0].Value, 10, 64)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, int64(0))
		require.Less(t, n, int64(math.MaxInt32))
	})

	t.Run("stage starts a session and max age applies", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		srv := internal.New(internal.WithSessions(store,
			internal.WithSessionIDGenerator(sequence("s1")),
			internal.WithSessionMaxAge(3600),
		))
		srv.GET("/", srv.Sessions().Stage(), func(req *internal.Request, res *internal.Response, next internal.Next) error {
			_, _ = res.WriteString(req.SessionID())
			return next()
		})

		rec := serve(t, srv, newTransport(t, http.MethodGet, "/", nil))
		require.Equal(t, "s1", rec.body.String())
		require.Len(t, rec.cookies, 1)
		require.Equal(t, 3600, rec.cookies[0].MaxAge)
	})

	t.Run("unusable cookie id counts as no session", func(t *testing.T) {
		t.Parallel()

		store, err := session.NewFileStore(t.TempDir())
		require.NoError(t, err)
		srv := sessionServer(store, internal.WithSessionIDGenerator(sequence("fresh")))
		bad := map[string]string{"Cookie": "id=a%2Fb"}

		who := serve(t, srv, newTransport(t, http.MethodGet, "/whoami", bad))
		require.Equal(t, http.StatusOK, who.status)
		require.Equal(t, "<nil>", who.body.String())

		prefs := serve(t, srv, newTransport(t, http.MethodPut, "/prefs", bad), "theme=dark")
		require.Equal(t, http.StatusOK, prefs.status)

		login := serve(t, srv, newTransport(t, http.MethodPost, "/login", bad), "user=eve")
		require.Equal(t, http.StatusOK, login.status)
		require.NotNil(t, login.cookie("id"))
		require.Equal(t, "fresh", login.cookie("id").Value)

		bag, err := store.Load(context.Background(), "fresh")
		require.NoError(t, err)
		require.Equal(t, "eve", bag.Get("user"))
	})

	t.Run("file store keeps value types across requests", func(t *testing.T) {
		t.Parallel()

		store, err := session.NewFileStore(t.TempDir())
		require.NoError(t, err)
		srv := internal.New(internal.WithSessions(store, internal.WithSessionIDGenerator(sequence("42"))))
		sm := srv.Sessions()

		srv.POST("/cart", sm.Stage(), func(req *internal.Request, res *internal.Response, next internal.Next) error {
			if err := sm.Set(req, "count", 3); err != nil {
				return err
			}
			if err := sm.Set(req, "cart", sessionCart{Items: []string{"book"}, Total: 1200}); err != nil {
				return err
			}
			return next()
		})
		srv.GET("/cart", func(req *internal.Request, res *internal.Response, next internal.Next) error {
			count, err := sm.Get(req, "count")
			if err != nil {
				return err
			}
			cart, err := sm.Get(req, "cart")
			if err != nil {
				return err
			}
			c := cart.(sessionCart)
			_, _ = fmt.Fprintf(res, "%d %v %d", count.(int), c.Items, c.Total)
			return next()
		})

		rec := serve(t, srv, newTransport(t, http.MethodPost, "/cart", nil))
		require.Equal(t, http.StatusOK, rec.status)

		rec = serve(t, srv, newTransport(t, http.MethodGet, "/cart", map[string]string{"Cookie": "id=42"}))
		require.Equal(t, http.StatusOK, rec.status)
		require.Equal(t, "3 [book] 1200", rec.body.String())
	})

	t.Run("no sessions configured", func(t *testing.T) {
		t.Parallel()

		require.Nil(t, internal.New().Sessions())
	})
}

type sessionCart struct {
	Items []string
	Total int64
}

func init() {
	session.Register(sessionCart{})
}

type failingStore struct{ err error }

func (f failingStore) Create(context.Context, string) error { return f.err }

func (f failingStore) Load(context.Context, string) (session.Values, error) { return nil, f.err }

func (f failingStore) Save(context.Context, string, session.Values) error { return f.err }
