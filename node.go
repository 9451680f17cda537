package jsondict

// node is a live container inside a document tree: *Map or *List.
type node interface {
	Elem
	base() *nodeBase

	// reconcile makes the node hold v (of the same kind) in place, keeping
	// the identity of children whose kind did not change.
	reconcile(v Value)
}

// nodeBase links a node back to the container holding it. The link does not
// own anything: a parent is kept alive by its own parent (or by the Doc).
type nodeBase struct {
	doc    *Doc // root only
	parent node
	loc    locator
}

func (b *nodeBase) base() *nodeBase { return b }

// locator is the position of a node within its parent: key for a *Map
// parent, index for a *List parent.
type locator struct {
	key   string
	index int
}

// slot holds one element of a container: either a plain value or, once a
// container value has been read, the live node that replaced it.
type slot struct {
	v     Value
	child node
}

func (s *slot) value() Value {
	if s.child != nil {
		return s.child.Detach()
	}
	return s.v
}

// sever disconnects the slot's node, if any, from the tree. A severed node
// stays usable but no longer writes to the store.
func (s *slot) sever() {
	if s.child != nil {
		b := s.child.base()
		b.parent = nil
		b.doc = nil
		s.child = nil
	}
}

func newNode(v Value, parent node, loc locator) node {
	switch v.kind {
	case KindObject:
		return newMap(v, parent, loc)
	case KindArray:
		return newList(v, parent, loc)
	default:
		panic("newNode: not a container")
	}
}

func newMap(v Value, parent node, loc locator) *Map {
	m := &Map{
		nodeBase: nodeBase{parent: parent, loc: loc},
		items:    make(map[string]*slot, len(v.obj)),
	}
	for k, e := range v.obj {
		m.items[k] = &slot{v: e}
	}
	return m
}

func newList(v Value, parent node, loc locator) *List {
	l := &List{
		nodeBase: nodeBase{parent: parent, loc: loc},
		items:    make([]*slot, len(v.arr)),
	}
	for i, e := range v.arr {
		l.items[i] = &slot{v: e}
	}
	return l
}

// reconcileSlot updates s to hold v, reusing the live child when it is
// still a container of the same kind.
func reconcileSlot(s *slot, v Value) {
	if s.child != nil && s.child.Kind() == v.kind {
		s.child.reconcile(v)
		return
	}
	s.sever()
	s.v = v
}

// commit writes the whole document owning n. The tree is found by climbing
// parent links; no ancestor needs updating because children are held by
// identity.
func commit(n node, op string) error {
	root := n
	for p := root.base().parent; p != nil; p = root.base().parent {
		root = p
	}
	doc := root.base().doc
	if doc == nil {
		return nil
	}
	return doc.commit(op, n)
}

func pathOf(n node) string {
	b := n.base()
	if b.parent == nil {
		return ""
	}
	return childPath(pathOf(b.parent), b.parent, b.loc)
}

func childPath(parentPath string, parent node, loc locator) string {
	if _, ok := parent.(*List); ok {
		return appendIndexSeg(parentPath, loc.index)
	}
	return appendKeySeg(parentPath, loc.key)
}
