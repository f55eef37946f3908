package internal

import (
	"errors"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/dmitrymomot/restify/pkg/session"
)

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithSessionIDGenerator replaces the default ID source.
func WithSessionIDGenerator(fn func() string) SessionOption {
	return func(m *SessionManager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithSessionMaxAge sets the cookie Max-Age in seconds. 0 keeps a browser-session cookie.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(m *SessionManager) {
		if seconds >= 0 {
			m.maxAge = seconds
		}
	}
}

// SessionManager keeps a key/value bag per client, keyed by the "id" cookie.
//
// A record missing from the store reads as an empty bag; Set then creates
// it. A cookie holding an ID the store cannot key on counts as no session.
// Other store failures are returned. Concurrent Set calls for one ID
// are not serialized and the last write wins.
type SessionManager struct {
	store  session.Store
	newID  func() string
	maxAge int
}

func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	m := &SessionManager{store: store, newID: randomSessionID}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// randomSessionID returns a decimal 31-bit random number. It is neither
// unpredictable nor collision-checked.
func randomSessionID() string {
	return strconv.Itoa(rand.IntN(math.MaxInt32))
}

// Start creates a session for a request that has none and sets the ID cookie.
func (m *SessionManager) Start(req *Request, res *Response) error {
	if m.active(req) {
		return nil
	}
	id := m.newID()
	req.SetSessionID(id)
	if err := m.store.Create(req.Context(), id); err != nil {
		return err
	}
	return res.AddCookieMaxAge(SessionCookie, id, m.maxAge)
}

// Get returns the value under key, or nil when absent or without a session.
func (m *SessionManager) Get(req *Request, key string) (any, error) {
	if !m.active(req) {
		return nil, nil
	}
	bag, err := m.load(req)
	if err != nil {
		return nil, err
	}
	return bag.Get(key), nil
}

// Set stores value under key and rewrites the whole bag.
// Without a session it does nothing.
func (m *SessionManager) Set(req *Request, key string, value any) error {
	if !m.active(req) {
		return nil
	}
	bag, err := m.load(req)
	if err != nil {
		return err
	}
	bag[key] = value
	return m.store.Save(req.Context(), req.SessionID(), bag)
}

// Stage returns a chain stage that starts a session before continuing.
func (m *SessionManager) Stage() Stage {
	return func(req *Request, res *Response, next Next) error {
		if err := m.Start(req, res); err != nil {
			return err
		}
		return next()
	}
}

func (m *SessionManager) active(req *Request) bool {
	return req.HasSession() && session.ValidID(req.SessionID())
}

func (m *SessionManager) load(req *Request) (session.Values, error) {
	bag, err := m.store.Load(req.Context(), req.SessionID())
	if errors.Is(err, session.ErrNotFound) {
		return session.Values{}, nil
	}
	if err != nil {
		return nil, err
	}
	if bag == nil {
		bag = session.Values{}
	}
	return bag, nil
}
