package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Values is an insertion-ordered string-keyed map holding parsed request data.
// Nested objects are *Values, lists are []any, scalars are string, json.Number, bool or nil.
type Values struct {
	keys []string
	m    map[string]any
}

// NewValues returns an empty Values.
func NewValues() *Values {
	return &Values{m: make(map[string]any)}
}

// Get returns the value stored under key.
func (v *Values) Get(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	val, ok := v.m[key]
	return val, ok
}

// String returns the value under key formatted as text, or "" if absent.
func (v *Values) String(key string) string {
	val, ok := v.Get(key)
	if !ok {
		return ""
	}
	return formatScalar(val)
}

// Set stores val under key. An existing key keeps its position.
func (v *Values) Set(key string, val any) {
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = val
}

// SetDefault stores val only if key is absent and reports whether it did.
func (v *Values) SetDefault(key string, val any) bool {
	if _, ok := v.m[key]; ok {
		return false
	}
	v.keys = append(v.keys, key)
	v.m[key] = val
	return true
}

// Merge copies every key of other that v does not already hold.
func (v *Values) Merge(other *Values) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		v.SetDefault(k, other.m[k])
	}
}

func (v *Values) Delete(key string) {
	if _, ok := v.m[key]; !ok {
		return
	}
	delete(v.m, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.keys...)
}

func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// Map converts v to a plain map, recursively converting nested Values.
func (v *Values) Map() map[string]any {
	out := make(map[string]any, v.Len())
	if v == nil {
		return out
	}
	for _, k := range v.keys {
		out[k] = plain(v.m[k])
	}
	return out
}

// MarshalJSON encodes v as an object with keys in insertion order.
func (v *Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range v.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Value returns the value under key as T. JSON numbers convert to int, int64 or float64.
func Value[T any](v *Values, key string) (T, bool) {
	var zero T
	raw, ok := v.Get(key)
	if !ok {
		return zero, false
	}
	if typed, ok := raw.(T); ok {
		return typed, true
	}
	if n, ok := raw.(json.Number); ok {
		return numberAs[T](n)
	}
	return zero, false
}

// numberAs converts a parsed JSON number to the numeric type T.
func numberAs[T any](n json.Number) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case int64:
		v, err := n.Int64()
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case int:
		v, err := strconv.Atoi(n.String())
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case float64:
		v, err := n.Float64()
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	}
	return zero, false
}

func plain(val any) any {
	switch t := val.(type) {
	case *Values:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		return val
	}
}

func formatScalar(val any) string {
	switch t := val.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
