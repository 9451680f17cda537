package jsondict

import (
	"iter"
)

// Map is a live object node. Every mutation re-encodes the whole document
// and saves it before returning. Reading a key holding an object or an array
// returns a live *Map or *List that stays attached to this one.
//
// Iteration order is unspecified and differs between calls. A Map is not
// safe for concurrent use.
type Map struct {
	nodeBase
	items map[string]*slot
}

// Item is one key/value pair of a Map snapshot.
type Item struct {
	Key  string
	Elem Elem
}

func (m *Map) Kind() Kind { return KindObject }
func (*Map) isElem()      {}

func (m *Map) Path() string { return pathOf(m) }

func (m *Map) Len() int { return len(m.items) }

func (m *Map) Has(key string) bool {
	_, ok := m.items[key]
	return ok
}

func (m *Map) elemAt(key string, s *slot) Elem {
	if s.child == nil && s.v.kind.IsContainer() {
		s.child = newNode(s.v, m, locator{key: key})
		s.v = Value{}
	}
	if s.child != nil {
		return s.child
	}
	return s.v
}

func (m *Map) Get(key string) (Elem, error) {
	s := m.items[key]
	if s == nil {
		return nil, nodeErrf(appendKeySeg(m.Path(), key), ErrKeyNotFound, "")
	}
	return m.elemAt(key, s), nil
}

// GetOr never fails; it returns fallback when key is absent.
func (m *Map) GetOr(key string, fallback Elem) Elem {
	s := m.items[key]
	if s == nil {
		return fallback
	}
	return m.elemAt(key, s)
}

// Map returns the live object stored under key.
func (m *Map) Map(key string) (*Map, error) {
	e, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	if c, ok := e.(*Map); ok {
		return c, nil
	}
	return nil, nodeErrf(appendKeySeg(m.Path(), key), ErrWrongKind, "%v is not an object", e.Kind())
}

// List returns the live array stored under key.
func (m *Map) List(key string) (*List, error) {
	e, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	if c, ok := e.(*List); ok {
		return c, nil
	}
	return nil, nodeErrf(appendKeySeg(m.Path(), key), ErrWrongKind, "%v is not an array", e.Kind())
}

func fromEntry(key string, x any) (Value, error) {
	if err := validKey(key); err != nil {
		return Value{}, err
	}
	return From(x)
}

func (m *Map) put(key string, v Value) {
	if old := m.items[key]; old != nil {
		old.sever()
	}
	m.items[key] = &slot{v: v}
}

// Set stores a copy of x under key. Live nodes are copied, not moved.
func (m *Map) Set(key string, x any) error {
	v, err := fromEntry(key, x)
	if err != nil {
		return nodeErrf(appendKeySeg(m.Path(), key), err, "")
	}
	m.put(key, v)
	return commit(m, "SET")
}

// SetDefault returns the existing element under key without touching the
// store, or stores x and returns it.
func (m *Map) SetDefault(key string, x any) (Elem, error) {
	if s := m.items[key]; s != nil {
		return m.elemAt(key, s), nil
	}
	v, err := fromEntry(key, x)
	if err != nil {
		return nil, nodeErrf(appendKeySeg(m.Path(), key), err, "")
	}
	m.put(key, v)
	s := m.items[key]
	if err := commit(m, "SETDEFAULT"); err != nil {
		return nil, err
	}
	return m.elemAt(key, s), nil
}

// Pop removes key and returns a detached copy of what it held.
func (m *Map) Pop(key string) (Value, error) {
	s := m.items[key]
	if s == nil {
		return Value{}, nodeErrf(appendKeySeg(m.Path(), key), ErrKeyNotFound, "")
	}
	v := m.remove(key, s)
	return v, commit(m, "POP")
}

// PopOr is like Pop, but returns fallback when key is absent. It only fails
// when the store does.
func (m *Map) PopOr(key string, fallback Value) (Value, error) {
	s := m.items[key]
	if s == nil {
		return fallback, nil
	}
	v := m.remove(key, s)
	return v, commit(m, "POP")
}

// PopItem removes and returns an arbitrary entry.
func (m *Map) PopItem() (string, Value, error) {
	for key, s := range m.items {
		v := m.remove(key, s)
		return key, v, commit(m, "POPITEM")
	}
	return "", Value{}, nodeErrf(m.Path(), ErrEmptyCollection, "")
}

func (m *Map) remove(key string, s *slot) Value {
	v := s.value()
	s.sever()
	delete(m.items, key)
	return v
}

// Update copies all entries of other (an object Value, a *Map or a Go map)
// into m, overwriting existing keys, and commits once.
func (m *Map) Update(other any) error {
	v, err := From(other)
	if err != nil {
		return nodeErrf(m.Path(), err, "")
	}
	if v.kind != KindObject {
		return nodeErrf(m.Path(), ErrWrongKind, "cannot update from %v", v.kind)
	}
	if len(v.obj) == 0 {
		return nil
	}
	for k, e := range v.obj {
		m.put(k, e)
	}
	return commit(m, "UPDATE")
}

// Clear removes all entries and commits once.
func (m *Map) Clear() error {
	if len(m.items) == 0 {
		return nil
	}
	for _, s := range m.items {
		s.sever()
	}
	clear(m.items)
	return commit(m, "CLEAR")
}

func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}

func (m *Map) Values() []Elem {
	values := make([]Elem, 0, len(m.items))
	for k, s := range m.items {
		values = append(values, m.elemAt(k, s))
	}
	return values
}

func (m *Map) Items() []Item {
	items := make([]Item, 0, len(m.items))
	for k, s := range m.items {
		items = append(items, Item{k, m.elemAt(k, s)})
	}
	return items
}

// All iterates over a snapshot of the entries, so the loop body may mutate m.
func (m *Map) All() iter.Seq2[string, Elem] {
	items := m.Items()
	return func(yield func(string, Elem) bool) {
		for _, item := range items {
			if !yield(item.Key, item.Elem) {
				return
			}
		}
	}
}

func (m *Map) Detach() Value {
	obj := make(map[string]Value, len(m.items))
	for k, s := range m.items {
		obj[k] = s.value()
	}
	return Value{kind: KindObject, obj: obj}
}

// Native returns a detached copy as map[string]any.
func (m *Map) Native() map[string]any {
	return m.Detach().Native().(map[string]any)
}

func (m *Map) Equal(other any) bool {
	return Equal(m, other)
}

func (m *Map) String() string {
	return m.Detach().String()
}

func (m *Map) MarshalJSON() ([]byte, error) {
	return appendJSON(nil, m.Detach())
}

func (m *Map) reconcile(v Value) {
	for k, s := range m.items {
		if _, ok := v.obj[k]; !ok {
			s.sever()
			delete(m.items, k)
		}
	}
	for k, e := range v.obj {
		if s := m.items[k]; s != nil {
			reconcileSlot(s, e)
		} else {
			m.items[k] = &slot{v: e}
		}
	}
}
