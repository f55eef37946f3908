package internal

import "strings"

type segmentKind uint8

const (
	segmentLiteral segmentKind = iota
	segmentParam
	segmentWildcard
)

type segment struct {
	kind  segmentKind
	value string
}

// joinPath concatenates path pieces into "/a/b" form: one leading slash,
// no empty segments, no trailing slash.
func joinPath(parts ...string) string {
	var segs []string
	for _, p := range parts {
		for s := range strings.SplitSeq(p, "/") {
			if s != "" {
				segs = append(segs, s)
			}
		}
	}
	return "/" + strings.Join(segs, "/")
}

// compilePattern splits a normalized pattern into segments.
// ":name" and "{name}" capture one segment, "*" matches one without capturing.
func compilePattern(pattern string) []segment {
	parts := splitPath(pattern)
	segs := make([]segment, len(parts))
	for i, p := range parts {
		switch {
		case p == "*":
			segs[i] = segment{kind: segmentWildcard}
		case len(p) > 1 && p[0] == ':':
			segs[i] = segment{kind: segmentParam, value: p[1:]}
		case len(p) > 2 && p[0] == '{' && p[len(p)-1] == '}':
			segs[i] = segment{kind: segmentParam, value: p[1 : len(p)-1]}
		default:
			segs[i] = segment{kind: segmentLiteral, value: p}
		}
	}
	return segs
}

// splitPath drops leading and trailing slashes and splits on the rest.
// Inner empty segments are kept, so "/a//b" has three.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// matchSegments reports a structural match and collects parameter values.
func matchSegments(segs []segment, parts []string) (map[string]string, bool) {
	if len(segs) != len(parts) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range segs {
		switch seg.kind {
		case segmentLiteral:
			if parts[i] != seg.value {
				return nil, false
			}
		case segmentParam:
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, len(segs))
			}
			params[seg.value] = parts[i]
		case segmentWildcard:
			if parts[i] == "" {
				return nil, false
			}
		}
	}
	return params, true
}
