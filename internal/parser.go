package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
)

const contentTypeJSON = "application/json"

var (
	errJSONTopLevel  = errors.New("json: top-level value must be an object or array")
	errJSONTrailing  = errors.New("json: unexpected data after top-level value")
	errJSONEmpty     = errors.New("unexpected end of JSON input")
	errJSONDelimiter = errors.New("json: unexpected delimiter")
)

// parseBody decodes raw as JSON when contentType is exactly
// "application/json" and as form data otherwise.
func parseBody(contentType string, raw []byte) (*Values, error) {
	if contentType == contentTypeJSON {
		return parseJSON(raw)
	}
	return parseForm(string(raw)), nil
}

// parseJSON decodes an object or array, keeping object key order.
// Arrays at the top level are keyed "0", "1", ...
// Numbers stay json.Number so large integers keep every digit.
func parseJSON(raw []byte) (*Values, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	top, err := decodeJSONValue(dec)
	if errors.Is(err, io.EOF) {
		return nil, errJSONEmpty
	}
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errJSONTrailing
	}

	switch t := top.(type) {
	case *Values:
		return t, nil
	case []any:
		out := NewValues()
		for i, item := range t {
			out.Set(strconv.Itoa(i), item)
		}
		return out, nil
	default:
		return nil, errJSONTopLevel
	}
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewValues()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := []any{}
		for dec.More() {
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, errJSONDelimiter
	}
}
