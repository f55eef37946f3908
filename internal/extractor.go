package internal

import (
	"fmt"
	"strings"
)

// ExtractorSource reads one candidate value from a request.
type ExtractorSource = func(*Request) (string, bool)

// Extractor tries sources in order and returns the first non-empty value.
type Extractor struct {
	sources []ExtractorSource
}

func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

func (e Extractor) Extract(req *Request) (string, bool) {
	for _, src := range e.sources {
		if src == nil {
			continue
		}
		if v, ok := src(req); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func nonEmpty(v string) (string, bool) {
	return v, v != ""
}

func FromHeader(name string) ExtractorSource {
	return func(req *Request) (string, bool) {
		return nonEmpty(req.Header(name))
	}
}

func FromQuery(name string) ExtractorSource {
	return func(req *Request) (string, bool) {
		return nonEmpty(req.Query(name))
	}
}

func FromCookie(name string) ExtractorSource {
	return func(req *Request) (string, bool) {
		v, err := req.Cookie(name)
		if err != nil {
			return "", false
		}
		return nonEmpty(v)
	}
}

func FromParam(name string) ExtractorSource {
	return func(req *Request) (string, bool) {
		return nonEmpty(req.Param(name))
	}
}

// FromData reads a parsed body field. Nested values are not extracted.
func FromData(key string) ExtractorSource {
	return func(req *Request) (string, bool) {
		v, ok := req.Get(key)
		if !ok {
			return "", false
		}
		switch v.(type) {
		case *Values, []any:
			return "", false
		}
		return nonEmpty(req.String(key))
	}
}

// FromSession reads a session value, formatting non-strings with fmt.Sprint.
// Storage errors count as a miss.
func FromSession(m *SessionManager, key string) ExtractorSource {
	return func(req *Request) (string, bool) {
		if m == nil {
			return "", false
		}
		val, err := m.Get(req, key)
		if err != nil || val == nil {
			return "", false
		}
		if s, ok := val.(string); ok {
			return nonEmpty(s)
		}
		return nonEmpty(fmt.Sprint(val))
	}
}

// FromBearerToken reads the token of an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func FromBearerToken() ExtractorSource {
	return func(req *Request) (string, bool) {
		auth := req.Header("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return "", false
		}
		return nonEmpty(auth[7:])
	}
}
