package jsondict

import (
	"iter"
	"slices"
)

// List is a live array node. Like Map, every mutation saves the whole
// document. Negative indexes count from the end.
//
// Live children keep track of their index: inserting or removing an element
// renumbers the nodes after it.
type List struct {
	nodeBase
	items []*slot
}

func (l *List) Kind() Kind { return KindArray }
func (*List) isElem()      {}

func (l *List) Path() string { return pathOf(l) }

func (l *List) Len() int { return len(l.items) }

func (l *List) elemAt(i int) Elem {
	s := l.items[i]
	if s.child == nil && s.v.kind.IsContainer() {
		s.child = newNode(s.v, l, locator{index: i})
		s.v = Value{}
	}
	if s.child != nil {
		return s.child
	}
	return s.v
}

func (l *List) outOfRange(i int) error {
	return nodeErrf(appendIndexSeg(l.Path(), i), ErrIndexOutOfRange, "length %d", len(l.items))
}

func (l *List) Get(i int) (Elem, error) {
	j, ok := normIndex(i, len(l.items))
	if !ok {
		return nil, l.outOfRange(i)
	}
	return l.elemAt(j), nil
}

// Map returns the live object at index i.
func (l *List) Map(i int) (*Map, error) {
	e, err := l.Get(i)
	if err != nil {
		return nil, err
	}
	if c, ok := e.(*Map); ok {
		return c, nil
	}
	return nil, nodeErrf(appendIndexSeg(l.Path(), i), ErrWrongKind, "%v is not an object", e.Kind())
}

// List returns the live array at index i.
func (l *List) List(i int) (*List, error) {
	e, err := l.Get(i)
	if err != nil {
		return nil, err
	}
	if c, ok := e.(*List); ok {
		return c, nil
	}
	return nil, nodeErrf(appendIndexSeg(l.Path(), i), ErrWrongKind, "%v is not an array", e.Kind())
}

// renumber fixes the locators of live children from index start onwards.
func (l *List) renumber(start int) {
	for i := start; i < len(l.items); i++ {
		if c := l.items[i].child; c != nil {
			c.base().loc.index = i
		}
	}
}

func (l *List) Set(i int, x any) error {
	j, ok := normIndex(i, len(l.items))
	if !ok {
		return l.outOfRange(i)
	}
	v, err := From(x)
	if err != nil {
		return nodeErrf(appendIndexSeg(l.Path(), i), err, "")
	}
	l.items[j].sever()
	l.items[j] = &slot{v: v}
	return commit(l, "SET")
}

func (l *List) Append(x any) error {
	v, err := From(x)
	if err != nil {
		return nodeErrf(appendIndexSeg(l.Path(), len(l.items)), err, "")
	}
	l.items = append(l.items, &slot{v: v})
	return commit(l, "APPEND")
}

// Extend appends all xs and commits once. Nothing is appended if any of
// them cannot be converted.
func (l *List) Extend(xs ...any) error {
	if len(xs) == 0 {
		return nil
	}
	values := make([]Value, len(xs))
	for i, x := range xs {
		v, err := From(x)
		if err != nil {
			return nodeErrf(appendIndexSeg(l.Path(), len(l.items)+i), err, "")
		}
		values[i] = v
	}
	for _, v := range values {
		l.items = append(l.items, &slot{v: v})
	}
	return commit(l, "EXTEND")
}

// Insert puts x before index i. Like list insertion elsewhere, it never
// fails on the index: out-of-range positions stick to the nearest end.
func (l *List) Insert(i int, x any) error {
	v, err := From(x)
	if err != nil {
		return nodeErrf(appendIndexSeg(l.Path(), i), err, "")
	}
	i = clampIndex(i, len(l.items))
	l.items = slices.Insert(l.items, i, &slot{v: v})
	l.renumber(i + 1)
	return commit(l, "INSERT")
}

// Pop removes the element at index i and returns a detached copy of it.
func (l *List) Pop(i int) (Value, error) {
	j, ok := normIndex(i, len(l.items))
	if !ok {
		return Value{}, l.outOfRange(i)
	}
	v := l.removeAt(j)
	return v, commit(l, "POP")
}

// Remove deletes the first element structurally equal to x.
func (l *List) Remove(x any) error {
	i, err := l.Index(x)
	if err != nil {
		return err
	}
	l.removeAt(i)
	return commit(l, "REMOVE")
}

func (l *List) removeAt(i int) Value {
	s := l.items[i]
	v := s.value()
	s.sever()
	l.items = slices.Delete(l.items, i, i+1)
	l.renumber(i)
	return v
}

// Index returns the position of the first element structurally equal to x.
func (l *List) Index(x any) (int, error) {
	v, err := From(x)
	if err != nil {
		return -1, nodeErrf(l.Path(), err, "")
	}
	for i, s := range l.items {
		if s.value().Equal(v) {
			return i, nil
		}
	}
	return -1, nodeErrf(l.Path(), ErrValueNotFound, "%v", v)
}

func (l *List) Contains(x any) bool {
	_, err := l.Index(x)
	return err == nil
}

func (l *List) Values() []Elem {
	values := make([]Elem, len(l.items))
	for i := range l.items {
		values[i] = l.elemAt(i)
	}
	return values
}

// All iterates over a snapshot of the elements.
func (l *List) All() iter.Seq2[int, Elem] {
	values := l.Values()
	return func(yield func(int, Elem) bool) {
		for i, e := range values {
			if !yield(i, e) {
				return
			}
		}
	}
}

func (l *List) Detach() Value {
	arr := make([]Value, len(l.items))
	for i, s := range l.items {
		arr[i] = s.value()
	}
	return Value{kind: KindArray, arr: arr}
}

// Native returns a detached copy as []any.
func (l *List) Native() []any {
	return l.Detach().Native().([]any)
}

func (l *List) Equal(other any) bool {
	return Equal(l, other)
}

func (l *List) String() string {
	return l.Detach().String()
}

func (l *List) MarshalJSON() ([]byte, error) {
	return appendJSON(nil, l.Detach())
}

func (l *List) reconcile(v Value) {
	n := len(v.arr)
	for i := n; i < len(l.items); i++ {
		l.items[i].sever()
	}
	if len(l.items) > n {
		clear(l.items[n:])
		l.items = l.items[:n]
	}
	for i, e := range v.arr {
		if i < len(l.items) {
			reconcileSlot(l.items[i], e)
		} else {
			l.items = append(l.items, &slot{v: e})
		}
	}
}
