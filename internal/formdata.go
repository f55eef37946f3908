package internal

import (
	"net/url"
	"strconv"
	"strings"
)

// maxFormDepth bounds bracket nesting; deeper keys are dropped.
const maxFormDepth = 64

// parseForm decodes an application/x-www-form-urlencoded body.
//
// Keys follow the classic query-string array syntax: "a[]=1&a[]=2" builds a
// list, "a[b]=1" a nested map. A repeated flat key keeps the last value.
// Dots and spaces in the base name become underscores.
func parseForm(body string) *Values {
	root := NewValues()
	for pair := range strings.SplitSeq(body, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key := unescapeForm(rawKey)
		if key == "" {
			continue
		}
		base, path, ok := splitFormKey(key)
		if !ok {
			continue
		}
		insertForm(root, base, path, unescapeForm(rawVal))
	}

	for _, k := range root.keys {
		root.m[k] = normalizeForm(root.m[k])
	}
	return root
}

func unescapeForm(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

// splitFormKey separates "a[b][]" into base "a" and path ["b", ""].
func splitFormKey(key string) (string, []string, bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return sanitizeFormName(key), nil, true
	}
	if open == 0 {
		return "", nil, false
	}
	if !strings.Contains(key[open:], "]") {
		// An unmatched bracket is part of the name.
		return sanitizeFormName(key[:open]) + "_" + key[open+1:], nil, true
	}

	base := sanitizeFormName(key[:open])
	var path []string
	rest := key[open:]
	for len(rest) > 0 && rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	if len(path) > maxFormDepth {
		return "", nil, false
	}
	return base, path, true
}

func sanitizeFormName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' {
			return '_'
		}
		return r
	}, name)
}

func insertForm(root *Values, base string, path []string, value string) {
	container, key := root, base
	for _, seg := range path {
		child, ok := container.m[key].(*Values)
		if !ok {
			child = NewValues()
			container.Set(key, child)
		}
		if seg == "" {
			seg = strconv.Itoa(nextFormIndex(child))
		}
		container, key = child, seg
	}
	container.Set(key, value)
}

// nextFormIndex returns one past the largest non-negative integer key.
func nextFormIndex(v *Values) int {
	next := 0
	for _, k := range v.keys {
		if n, ok := formIndex(k); ok && n >= next {
			next = n + 1
		}
	}
	return next
}

func formIndex(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 || strconv.Itoa(n) != key {
		return 0, false
	}
	return n, true
}

// normalizeForm turns maps keyed exactly 0..n-1 into lists.
func normalizeForm(val any) any {
	v, ok := val.(*Values)
	if !ok {
		return val
	}
	for _, k := range v.keys {
		v.m[k] = normalizeForm(v.m[k])
	}
	for i, k := range v.keys {
		if n, ok := formIndex(k); !ok || n != i {
			return v
		}
	}
	list := make([]any, len(v.keys))
	for i, k := range v.keys {
		list[i] = v.m[k]
	}
	return list
}
