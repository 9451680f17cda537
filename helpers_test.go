package jsondict

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func init() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

// failingStore wraps a MemStore and fails saves while failSaves is set.
type failingStore struct {
	*MemStore
	failSaves bool
	failLoads bool
}

var errInjected = errors.New("injected failure")

func (s *failingStore) Load(key string) ([]byte, bool, error) {
	if s.failLoads {
		return nil, false, errInjected
	}
	return s.MemStore.Load(key)
}

func (s *failingStore) Save(key string, data []byte) error {
	if s.failSaves {
		return errInjected
	}
	return s.MemStore.Save(key, data)
}

func setup(t testing.TB) (*Doc, *Map, *MemStore) {
	t.Helper()
	store := NewMemStore()
	doc := Open(store, "test", Options{
		Verbose: testing.Verbose(),
		Logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	return doc, must(doc.Root()), store
}

func eq[T comparable](t testing.TB, a, e T) {
	if a != e {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func noerr(t testing.TB, err error) {
	if err != nil {
		t.Helper()
		t.Fatalf("** unexpected error: %v", err)
	}
}

func isErr(t testing.TB, err, target error) {
	if !errors.Is(err, target) {
		t.Helper()
		t.Errorf("** got error %v, wanted %v", err, target)
	}
}

// same compares a tree against its plain equivalent, printing a diff of the
// native representations on mismatch.
func same(t testing.TB, a any, e any) {
	if !Equal(a, e) {
		t.Helper()
		t.Errorf("** mismatch (-got +wanted):\n%s", cmp.Diff(MustFrom(a).Native(), MustFrom(e).Native()))
	}
}

// stored decodes what the store currently holds for the doc.
func stored(t testing.TB, doc *Doc) Value {
	t.Helper()
	data, found, err := doc.Store().Load(doc.Key())
	noerr(t, err)
	if !found {
		t.Fatalf("** no record stored under %q", doc.Key())
	}
	return must(doc.Encoding().Decode(data))
}

// inSync checks that the store holds exactly the encoding of the tree.
func inSync(t testing.TB, doc *Doc) {
	t.Helper()
	data, found, err := doc.Store().Load(doc.Key())
	noerr(t, err)
	if !found {
		t.Fatalf("** no record stored under %q", doc.Key())
	}
	root := must(doc.Root())
	enc := must(doc.Encoding().Encode(root.Detach()))
	if !bytes.Equal(data, enc) {
		t.Errorf("** stored %s, tree encodes to %s", data, enc)
	}
}

type obj = map[string]any
type arr = []any
