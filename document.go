package jsondict

import (
	"context"
	"log/slog"

	"github.com/cespare/xxhash/v2"
)

type Options struct {
	Encoding Encoding
	Logger   *slog.Logger
	Verbose  bool
}

// Doc binds a tree to one key of a Store. It is the only thing that talks
// to the store: it loads the record on first access and saves the whole
// tree after every mutation made anywhere inside it.
//
// Reads are served from memory. They always reflect the writes made through
// this Doc; to pick up writes made by others, call Observe. Concurrent
// writers of the same key overwrite each other (last writer wins).
type Doc struct {
	store   Store
	key     string
	enc     Encoding
	logger  *slog.Logger
	verbose bool

	root    *Map
	synced  uint64 // digest of the bytes last loaded or saved
	dirty   bool   // the tree differs from synced after a failed save
	commits int
}

// Open binds a Doc to key. No I/O happens until the first call to Root.
func Open(store Store, key string, opt Options) *Doc {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &Doc{
		store:   store,
		key:     key,
		enc:     opt.Encoding,
		logger:  opt.Logger,
		verbose: opt.Verbose,
	}
}

func (d *Doc) Key() string         { return d.key }
func (d *Doc) Encoding() Encoding { return d.enc }
func (d *Doc) Store() Store       { return d.store }
func (d *Doc) IsLoaded() bool     { return d.root != nil }

// Commits is the number of successful saves made by this Doc.
func (d *Doc) Commits() int { return d.commits }

// Root returns the root object, loading it on the first call. An absent
// record reads as an empty object.
func (d *Doc) Root() (*Map, error) {
	if d.root != nil {
		return d.root, nil
	}
	v, digest, err := d.load()
	if err != nil {
		return nil, err
	}
	d.root = newMap(v, nil, locator{})
	d.root.doc = d
	d.synced = digest
	return d.root, nil
}

func (d *Doc) load() (Value, uint64, error) {
	data, found, err := d.store.Load(d.key)
	if err != nil {
		return Value{}, 0, &StoreError{"load", d.key, err}
	}
	if !found {
		if d.verbose {
			d.logger.LogAttrs(context.Background(), slog.LevelDebug, "jsondict: LOAD.NOTFOUND", slog.String("key", d.key))
		}
		return Object(nil), 0, nil
	}
	v, err := d.enc.Decode(data)
	if err == nil && v.kind != KindObject {
		err = dataErrf(data, 0, nil, "failed to load %q: root is %v, wanted object", d.key, v.kind)
	}
	if err != nil {
		d.logger.LogAttrs(context.Background(), slog.LevelError, "jsondict: LOAD.FAILED", slog.String("key", d.key), hexAttr("data", data), slog.Any("err", err))
		return Value{}, 0, err
	}
	if d.verbose {
		d.logger.LogAttrs(context.Background(), slog.LevelDebug, "jsondict: LOAD", slog.String("key", d.key), slog.Int("size", len(data)))
	}
	return v, xxhash.Sum64(data), nil
}

// Observe fetches the current record and merges it into the live tree in
// place. Nodes whose position still holds a container of the same kind stay
// live, so references held by callers see the new data; others are cut off.
func (d *Doc) Observe() error {
	if d.root == nil {
		_, err := d.Root()
		return err
	}
	v, digest, err := d.load()
	if err != nil {
		return err
	}
	if digest != 0 && digest == d.synced && !d.dirty {
		if d.verbose {
			d.logger.LogAttrs(context.Background(), slog.LevelDebug, "jsondict: OBSERVE.NOOP", slog.String("key", d.key))
		}
		return nil
	}
	d.root.reconcile(v)
	d.synced = digest
	d.dirty = false
	return nil
}

// Commit saves the whole tree. Mutations call it automatically; calling it
// directly is only useful to retry after a failed save.
func (d *Doc) Commit() error {
	if _, err := d.Root(); err != nil {
		return err
	}
	return d.commit("COMMIT", d.root)
}

func (d *Doc) commit(op string, origin node) error {
	data, err := d.enc.Encode(d.root.Detach())
	if err != nil {
		d.dirty = true
		return nodeErrf(pathOf(origin), err, "")
	}
	if err := d.store.Save(d.key, data); err != nil {
		d.dirty = true
		d.logger.LogAttrs(context.Background(), slog.LevelWarn, "jsondict: COMMIT.FAILED", slog.String("key", d.key), slog.String("op", op), slog.String("path", pathOf(origin)), slog.Any("err", err))
		return &StoreError{"save", d.key, err}
	}
	d.synced = xxhash.Sum64(data)
	d.dirty = false
	d.commits++
	if d.verbose {
		d.logger.LogAttrs(context.Background(), slog.LevelDebug, "jsondict: "+op, slog.String("key", d.key), slog.String("path", pathOf(origin)), slog.Int("size", len(data)))
	}
	return nil
}

// Snapshot returns a detached copy of the whole document.
func (d *Doc) Snapshot() (Value, error) {
	root, err := d.Root()
	if err != nil {
		return Value{}, err
	}
	return root.Detach(), nil
}

// Lookup resolves a path from the root, e.g. `proposal.runs[0]`.
func (d *Doc) Lookup(path string) (Elem, error) {
	root, err := d.Root()
	if err != nil {
		return nil, err
	}
	return root.Lookup(path)
}
