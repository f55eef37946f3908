package session

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"maps"
	"strings"
	"time"
)

func init() {
	Register(Values{})
	Register(map[string]any{})
	Register([]any{})
	Register(time.Time{})
	Register(json.Number(""))
}

// Register records a concrete type that may be stored in a bag by the
// encoding stores (file, Redis, PostgreSQL). Built-in scalars, []byte and
// slices of scalars need no registration. Values keep their exact type on
// the way back, so a struct registered by value loads as that struct.
//
// Example:
//
//	type Cart struct{ Items []string }
//
//	func init() { session.Register(Cart{}) }
func Register(value any) {
	gob.Register(value)
}

// Values is the key/value bag stored for one session.
type Values map[string]any

// Get returns the value for key, or nil when absent.
func (v Values) Get(key string) any {
	if v == nil {
		return nil
	}
	return v[key]
}

// Clone returns a shallow copy of the bag.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	maps.Copy(out, v)
	return out
}

// encode serializes a bag for storage. An empty bag encodes to no bytes.
func encode(v Values) ([]byte, error) {
	if len(v) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(map[string]any(v)); err != nil {
		return nil, errors.Join(ErrUnencodable, err)
	}
	return buf.Bytes(), nil
}

// decode parses a stored record. An empty record is an empty bag.
func decode(data []byte) (Values, error) {
	if len(data) == 0 {
		return Values{}, nil
	}
	var m map[string]any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, errors.Join(ErrCorrupted, err)
	}
	if m == nil {
		return Values{}, nil
	}
	return Values(m), nil
}

// ValidID reports whether id is usable as a storage key.
// Empty ids, ids over 128 bytes and ids that could escape a key namespace are rejected.
func ValidID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00") && id != "." && id != ".."
}

// Value is a typed helper to retrieve session values with type safety.
// Returns an error if the key doesn't exist or type assertion fails.
func Value[T any](v Values, key string) (T, error) {
	var zero T
	raw, ok := v[key]
	if !ok {
		return zero, ErrNotFound
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, errors.New("session: type mismatch for key: " + key)
	}
	return typed, nil
}

// ValueOr is a typed helper that returns a default value if the key
// doesn't exist or type assertion fails.
func ValueOr[T any](v Values, key string, defaultVal T) T {
	val, err := Value[T](v, key)
	if err != nil {
		return defaultVal
	}
	return val
}
