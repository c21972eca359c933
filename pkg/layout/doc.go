// Package layout computes virtualized layouts for collections.
//
// A [Layout] holds the state every virtualized layout needs: cached layout
// nodes, the valid rect already laid out, persisted keys and the content
// size. What a layout looks like is supplied by a [Strategy]:
// [ListStrategy] stacks items and sections vertically, [TableStrategy]
// lays out a header of columns and a body of rows and cells with column
// widths from the columns package.
//
//	l := layout.New(layout.NewTableStrategy(layout.TableOptions{RowHeight: 32}), layout.Options{})
//	l.SetCollection(table)
//	l.SetVisibleRect(layout.NewRect(0, 0, 800, 600))
//	l.Validate(layout.InvalidationContext{})
//	for _, info := range l.VisibleInfos(l.VisibleRect()) {
//	    // render info
//	}
//
// Only rows intersecting the valid rect are laid out; rows below it are
// estimated in bulk, and queries for rects outside it extend it lazily.
package layout
