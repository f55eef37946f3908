package internal

import "strconv"

// Scalar is the set of types typed lookups convert to.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Param returns the path parameter converted to T, or the zero value.
func Param[T Scalar](req *Request, name string) T {
	v, _ := convertScalar[T](req.Param(name))
	return v
}

// Query returns the query parameter converted to T, or the zero value.
func Query[T Scalar](req *Request, name string) T {
	v, _ := convertScalar[T](req.Query(name))
	return v
}

// QueryDefault returns defaultValue when the parameter is empty or unparsable.
func QueryDefault[T Scalar](req *Request, name string, defaultValue T) T {
	raw := req.Query(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := convertScalar[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

// DataValue returns a body field converted to T. JSON numbers and booleans
// convert through their text form, so "42" and 42 both read as int 42.
func DataValue[T Scalar](req *Request, key string) (T, bool) {
	var zero T
	raw, ok := req.Get(key)
	if !ok {
		return zero, false
	}
	switch raw.(type) {
	case *Values, []any, nil:
		return zero, false
	}
	return convertScalar[T](req.String(key))
}

func convertScalar[T Scalar](raw string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	}
	return zero, false
}
