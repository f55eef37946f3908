package cookie

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// ErrNotFound is returned when a cookie does not exist.
var ErrNotFound = errors.New("cookie: not found")

// Manager builds cookies with a shared set of attributes.
type Manager struct {
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// Build returns a cookie carrying the manager's attributes.
// A maxAge of 0 produces a session cookie; a negative maxAge deletes it.
func (m *Manager) Build(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     url.QueryEscape(name),
		Value:    url.QueryEscape(value),
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}

// Pair is a single name/value entry of a Cookie header.
type Pair struct {
	Name  string
	Value string
}

// Parse splits raw Cookie header values into decoded pairs, in header order.
// Each value may hold one pair or a "; " separated list. Entries without
// an "=" are skipped.
func Parse(headerValues []string) []Pair {
	var pairs []Pair
	for _, line := range headerValues {
		for part := range strings.SplitSeq(line, ";") {
			name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
			if !ok {
				continue
			}
			pairs = append(pairs, Pair{
				Name:  decode(name),
				Value: decode(value),
			})
		}
	}
	return pairs
}

// Lookup returns the decoded value of the first cookie named name.
func Lookup(headerValues []string, name string) (string, error) {
	for _, p := range Parse(headerValues) {
		if p.Name == name {
			return p.Value, nil
		}
	}
	return "", ErrNotFound
}

// decode URL-decodes s, keeping the raw text when it is not valid encoding.
func decode(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}
