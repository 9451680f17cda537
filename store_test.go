package jsondict

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.etcd.io/bbolt"
)

type testStore interface {
	Store
	io.Closer
}

var storeFactories = []struct {
	name string
	open func(t testing.TB, dir string) testStore
}{
	{"mem", func(t testing.TB, dir string) testStore {
		return NewMemStore()
	}},
	{"bolt", func(t testing.TB, dir string) testStore {
		return must(OpenBolt(filepath.Join(dir, "test.db"), BoltOptions{IsTesting: true}))
	}},
	{"leveldb", func(t testing.TB, dir string) testStore {
		return must(OpenLevel(filepath.Join(dir, "level"), LevelOptions{}))
	}},
	{"redis", func(t testing.TB, dir string) testStore {
		mr := miniredis.RunT(t)
		return NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), RedisOptions{Prefix: "t:"})
	}},
}

func TestStores(t *testing.T) {
	for _, f := range storeFactories {
		t.Run(f.name, func(t *testing.T) {
			store := f.open(t, t.TempDir())
			defer store.Close()

			_, found, err := store.Load("a")
			noerr(t, err)
			eq(t, found, false)

			noerr(t, store.Save("a", []byte("one")))
			noerr(t, store.Save("b", []byte("other")))
			data, found, err := store.Load("a")
			noerr(t, err)
			eq(t, found, true)
			eq(t, string(data), "one")

			data, found, err = store.Load("b")
			noerr(t, err)
			eq(t, found, true)
			eq(t, string(data), "other")

			noerr(t, store.Save("a", []byte("two")))
			data, _, err = store.Load("a")
			noerr(t, err)
			eq(t, string(data), "two")

			// the returned slice belongs to the caller
			data[0] = 'X'
			data, _, err = store.Load("a")
			noerr(t, err)
			eq(t, string(data), "two")
		})
	}
}

func TestStores_documents(t *testing.T) {
	for _, f := range storeFactories {
		for _, enc := range []Encoding{JSON, MsgPack} {
			t.Run(f.name+"/"+enc.String(), func(t *testing.T) {
				store := f.open(t, t.TempDir())
				defer store.Close()

				doc := Open(store, "doc", Options{Encoding: enc})
				root := must(doc.Root())
				noerr(t, root.Set("proposal", obj{"runs": arr{obj{"id": 1}}}))
				runs := must(must(root.Map("proposal")).List("runs"))
				noerr(t, runs.Append(obj{"id": 2.5}))
				noerr(t, must(runs.Map(0)).Set("ok", true))
				inSync(t, doc)

				again := must(Open(store, "doc", Options{Encoding: enc}).Root())
				same(t, again, obj{"proposal": obj{"runs": arr{obj{"id": 1, "ok": true}, obj{"id": 2.5}}}})
			})
		}
	}
}

func TestBoltStore_reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store := must(OpenBolt(path, BoltOptions{IsTesting: true}))
	root := must(Open(store, "doc", Options{}).Root())
	noerr(t, root.Set("x", arr{1, 2}))
	noerr(t, store.Close())

	store = must(OpenBolt(path, BoltOptions{IsTesting: true}))
	defer store.Close()
	root = must(Open(store, "doc", Options{}).Root())
	same(t, root, obj{"x": arr{1, 2}})
}

func TestBoltStore_shared_db(t *testing.T) {
	bdb := must(bbolt.Open(filepath.Join(t.TempDir(), "shared.db"), 0666, nil))
	defer bdb.Close()

	a := must(NewBoltStore(bdb, "a"))
	b := must(NewBoltStore(bdb, "b"))
	noerr(t, a.Save("k", []byte("in a")))
	_, found, err := b.Load("k")
	noerr(t, err)
	eq(t, found, false)

	// not owned, so the database stays open
	noerr(t, a.Close())
	data, _, err := a.Load("k")
	noerr(t, err)
	eq(t, string(data), "in a")
	eq(t, a.Bolt(), bdb)
}

func TestRedisStore_prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), RedisOptions{Prefix: "app:"})
	defer store.Close()

	root := must(Open(store, "doc", Options{}).Root())
	noerr(t, root.Set("a", 1))
	eq(t, must(mr.Get("app:doc")), `{"a":1}`)

	// writes by another client are picked up by Observe
	noerr(t, mr.Set("app:doc", `{"a":2}`))
	doc := Open(store, "doc", Options{})
	root = must(doc.Root())
	noerr(t, mr.Set("app:doc", `{"a":3}`))
	noerr(t, doc.Observe())
	same(t, root, obj{"a": 3})
}

func TestMemStore_closed(t *testing.T) {
	store := NewMemStore()
	noerr(t, store.Close())
	_, _, err := store.Load("a")
	isErr(t, err, errStoreClosed)
	isErr(t, store.Save("a", nil), errStoreClosed)
}
