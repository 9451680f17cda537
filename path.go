package jsondict

import (
	"fmt"
	"strconv"
	"strings"
)

// PathSeg is one step of a path: an object key or an array index.
type PathSeg struct {
	Key     string
	Index   int
	IsIndex bool
}

func (seg PathSeg) String() string {
	if seg.IsIndex {
		return appendIndexSeg("", seg.Index)
	}
	return appendKeySeg("", seg.Key)
}

// FormatPath is the inverse of ParsePath.
func FormatPath(segs []PathSeg) string {
	var path string
	for _, seg := range segs {
		if seg.IsIndex {
			path = appendIndexSeg(path, seg.Index)
		} else {
			path = appendKeySeg(path, seg.Key)
		}
	}
	return path
}

func appendKeySeg(path, key string) string {
	if !isPlainKey(key) {
		return path + "[" + strconv.Quote(key) + "]"
	}
	if path == "" {
		return key
	}
	return path + "." + key
}

func appendIndexSeg(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if !(c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// ParsePath parses paths like `x.y[0].p` or `["odd key"][-1]`. The empty
// path addresses the root.
func ParsePath(path string) ([]PathSeg, error) {
	var segs []PathSeg
	s := path
	first := true
	for s != "" {
		switch {
		case s[0] == '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return nil, fmt.Errorf("invalid path %q: unterminated [", path)
			}
			inner := s[1:end]
			if inner != "" && inner[0] == '"' {
				// a quoted key may itself contain ']'
				q, err := strconv.QuotedPrefix(s[1:])
				if err != nil || len(s) < 2+len(q) || s[1+len(q)] != ']' {
					return nil, fmt.Errorf("invalid path %q: bad quoted key", path)
				}
				key, _ := strconv.Unquote(q)
				segs = append(segs, PathSeg{Key: key})
				s = s[2+len(q):]
			} else {
				i, err := strconv.Atoi(inner)
				if err != nil {
					return nil, fmt.Errorf("invalid path %q: bad index %q", path, inner)
				}
				segs = append(segs, PathSeg{Index: i, IsIndex: true})
				s = s[end+1:]
			}
		case s[0] == '.' && !first:
			s = s[1:]
			fallthrough
		default:
			n := 0
			for n < len(s) && s[n] != '.' && s[n] != '[' {
				n++
			}
			if n == 0 || !isPlainKey(s[:n]) {
				return nil, fmt.Errorf("invalid path %q: bad key near %q", path, s)
			}
			segs = append(segs, PathSeg{Key: s[:n]})
			s = s[n:]
		}
		first = false
	}
	return segs, nil
}

// Resolve walks segs starting at e.
func Resolve(e Elem, segs []PathSeg) (Elem, error) {
	var err error
	for i, seg := range segs {
		switch c := e.(type) {
		case *Map:
			if seg.IsIndex {
				return nil, nodeErrf(c.Path(), ErrWrongKind, "cannot index an object with %d", seg.Index)
			}
			e, err = c.Get(seg.Key)
		case *List:
			if !seg.IsIndex {
				return nil, nodeErrf(c.Path(), ErrWrongKind, "cannot look up %q in an array", seg.Key)
			}
			e, err = c.Get(seg.Index)
		default:
			return nil, nodeErrf(FormatPath(segs[:i]), ErrWrongKind, "cannot descend into %v", e.Kind())
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Lookup resolves a path relative to m.
func (m *Map) Lookup(path string) (Elem, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return Resolve(m, segs)
}
