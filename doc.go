/*
Package jsondict keeps a JSON-shaped tree of objects and arrays mirrored to a
single record of a key-value store (Bolt, LevelDB, Redis, or anything
implementing Store).

The tree behaves like a plain mutable container: *Map and *List support the
usual keyed and indexed reads, mutation and iteration. Every mutation, at any
depth, re-encodes the entire document and saves it before returning.

	doc := jsondict.Open(store, "metadata", jsondict.Options{})
	root, err := doc.Root()
	...
	err = root.Set("proposal", map[string]any{"pi": "Jane Doe"})
	proposal, err := root.Map("proposal")
	err = proposal.Set("title", "Cool experiment")  // saves the whole document

# Technical Details

**Nodes.**
Decoded data is held as plain Values. The first time an object or an array
is read out of a node, it is wrapped in a child node that replaces the plain
value in its parent's slot, so later reads return the very same node. Each
node remembers its parent and its position (key or index) there.

**Write-back.**
Children are held by identity, so a mutation of any node is already visible
from the root. Committing is just: climb to the root, encode, save. Nothing
is ever merged into ancestors, and partial updates are never written.

**Positions.**
Inserting or removing array elements renumbers the live nodes after them.
Overwritten or removed nodes are cut off from the tree: they keep their data
but their mutations no longer reach the store.

**Detaching.**
Detach (and Native) produce plain copies with no connection to the store.
Values handed to consumers that must not change later should be detached,
since a live node keeps reflecting subsequent mutations.

**Encoding.**
JSON (default) or MsgPack, both with sorted object keys, so equal trees
produce equal bytes. Integers and floats survive a round trip as such.
Object iteration order is unspecified.

**Staleness.**
The record is loaded on first access and then served from memory; reads
always reflect writes made through the same Doc. Doc.Observe merges in
changes made by other writers. There is no locking between writers: the last
save wins.
*/
package jsondict
