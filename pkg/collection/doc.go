// Package collection provides the immutable collection model shared by the
// selection, grid, layout and drag-and-drop packages.
//
// # Overview
//
// A [Collection] is a read-only snapshot of a logical item tree: list items,
// sections, table rows, cells and columns. Every entry is a [Node] identified
// by a [Key]. Keys are the only identity that survives across snapshots, so
// everything above this package (focus, selection, layout caches, drop
// targets) refers to nodes by key rather than by pointer.
//
// A new snapshot is built whenever source data or hierarchy changes. Old
// snapshots remain valid and can be diffed against the new one:
//
//	old := collection.NewList(collection.Item("a", "Apple"))
//	cur := collection.NewList(collection.Item("a", "Apple"), collection.Item("b", "Banana"))
//	collection.InsertedKeys(old, cur) // [b]
//
// # Building
//
// [NewList] builds a [ListCollection] from [Spec] values created with the
// [Item], [Section] and [Loader] helpers. Nodes are linked in document order
// (PrevKey/NextKey) so [Collection.KeyAfter] walks into sections. The grid
// package builds table-shaped collections with sibling linkage instead.
//
// # Keyboard Delegates
//
// [ListKeyboardDelegate] implements [KeyboardDelegate] over any collection.
// Higher layers never compute spatial navigation themselves; they only
// sequence keys returned by a delegate.
//
// # Concurrency
//
// Collections are immutable after construction and safe for concurrent
// reads. Nodes returned by [Collection.Item] must be treated as read-only.
package collection
