// Package grid provides table and tree collections and the state that keeps
// focus and selection consistent while they change.
//
// # Collections
//
// [NewTable] builds a [TableCollection] from [ColumnSpec] and [RowSpec]
// values. Nested columns produce several header rows, with placeholders
// filling the gaps. Rows may carry children; only rows under expanded
// parents are part of a snapshot. [NewTree] does the same for list-shaped
// trees. Both produce new node records on every build and never modify
// nodes of a previous snapshot.
//
// # State
//
// [State] wraps a [selection.Manager]. When the collection is replaced and
// the focused row is gone, focus moves to the nearest surviving row:
//
//	st := grid.NewState(table, grid.StateOptions{})
//	st.SetFocusedKey("row-5", selection.FocusFirst)
//	st.SetCollection(withoutRow5) // focus is now on row-6
//
// [TreeState] and [TreeGridState] add expansion on top; collapsing a row
// that contains the focus moves focus to that row.
//
// # Keyboard
//
// [KeyboardDelegate] implements vertical and horizontal navigation over
// body rows and cells, preserving the column when moving between rows.
package grid
