package jsondict

import (
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		path string
		segs []PathSeg
		fmt  string
	}{
		{"", nil, ""},
		{"a", []PathSeg{{Key: "a"}}, "a"},
		{"a.b_c.d-e", []PathSeg{{Key: "a"}, {Key: "b_c"}, {Key: "d-e"}}, "a.b_c.d-e"},
		{"x.y[0].p", []PathSeg{{Key: "x"}, {Key: "y"}, {Index: 0, IsIndex: true}, {Key: "p"}}, "x.y[0].p"},
		{"[2][-1]", []PathSeg{{Index: 2, IsIndex: true}, {Index: -1, IsIndex: true}}, "[2][-1]"},
		{`["odd key"].z`, []PathSeg{{Key: "odd key"}, {Key: "z"}}, `["odd key"].z`},
		{`a["]"]`, []PathSeg{{Key: "a"}, {Key: "]"}}, `a["]"]`},
		{`[""]`, []PathSeg{{Key: ""}}, `[""]`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			segs, err := ParsePath(tt.path)
			noerr(t, err)
			deepEqual(t, segs, tt.segs)
			eq(t, FormatPath(segs), tt.fmt)
		})
	}
}

func TestParsePath_invalid(t *testing.T) {
	for _, path := range []string{
		".a",
		"a.",
		"a..b",
		"a[",
		"a[x]",
		"a[1.5]",
		`a["b]`,
		`a["b"x]`,
		"a b",
		`a.["b"]`,
	} {
		if segs, err := ParsePath(path); err == nil {
			t.Errorf("ParsePath(%q) = %v, wanted error", path, segs)
		}
	}
}

func TestPathSeg_String(t *testing.T) {
	eq(t, PathSeg{Key: "a"}.String(), "a")
	eq(t, PathSeg{Key: "a.b"}.String(), `["a.b"]`)
	eq(t, PathSeg{Index: 3, IsIndex: true}.String(), "[3]")
}

func TestResolve(t *testing.T) {
	_, root, _ := setup(t)
	noerr(t, root.Set("odd key", arr{obj{"v": 1}}))
	noerr(t, root.Set("s", "str"))

	same(t, must(root.Lookup(`["odd key"][-1].v`)), 1)
	m := must(root.Lookup(`["odd key"][0]`)).(*Map)
	eq(t, m.Path(), `["odd key"][0]`)

	_, err := root.Lookup("s.x")
	isErr(t, err, ErrWrongKind)
	if ne, ok := err.(*NodeError); !ok || ne.Path != "s" {
		t.Errorf("err = %#v, wanted NodeError at s", err)
	}

	_, err = root.Lookup(`["odd key"].v`)
	isErr(t, err, ErrWrongKind)

	_, err = Resolve(Int(1), []PathSeg{{Key: "a"}})
	isErr(t, err, ErrWrongKind)
	e := must(Resolve(Int(1), nil))
	same(t, e, 1)
}
