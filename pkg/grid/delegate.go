package grid

import (
	"github.com/matzehuels/gridkit/pkg/collection"
)

// KeyboardDelegate navigates the body rows and cells of a grid. Moving
// vertically from a cell keeps its column; moving horizontally walks the
// cells of the row.
type KeyboardDelegate struct {
	Collection Collection
	IsDisabled func(Key) bool
	FocusMode  FocusMode

	// NavigationDisabled, when it reports true, makes every method return
	// the empty key.
	NavigationDisabled func() bool

	Rects    collection.ItemRects
	PageSize int
}

func (d *KeyboardDelegate) off() bool {
	return d.NavigationDisabled != nil && d.NavigationDisabled()
}

func (d *KeyboardDelegate) rowOf(key Key) (row, cell *collection.Node) {
	n := d.Collection.Item(key)
	if n == nil {
		return nil, nil
	}
	if n.Type == collection.TypeCell {
		return d.Collection.Item(n.ParentKey), n
	}
	if n.Type.IsRow() {
		return n, nil
	}
	return nil, nil
}

func (d *KeyboardDelegate) usableRow(n *collection.Node) bool {
	return n != nil && n.Type.IsRow() && (d.IsDisabled == nil || !d.IsDisabled(n.Key))
}

// step walks rows from key in the given direction until a usable row.
func (d *KeyboardDelegate) step(key Key, next func(Key) Key) *collection.Node {
	for k := next(key); k != ""; k = next(k) {
		if n := d.Collection.Item(k); d.usableRow(n) {
			return n
		}
	}
	return nil
}

// cellAt returns the cell of row covering column col, or the row itself.
func (d *KeyboardDelegate) cellAt(row *collection.Node, col int) Key {
	for _, c := range d.Collection.Children(row.Key) {
		if col >= c.ColIndex && col < c.ColIndex+c.Span() {
			return c.Key
		}
	}
	return row.Key
}

func (d *KeyboardDelegate) vertical(key Key, next func(Key) Key) Key {
	if d.off() {
		return ""
	}
	row, cell := d.rowOf(key)
	if row == nil {
		return ""
	}
	target := d.step(row.Key, next)
	if target == nil {
		return ""
	}
	if cell != nil {
		return d.cellAt(target, cell.ColIndex)
	}
	return target.Key
}

func (d *KeyboardDelegate) KeyBelow(key Key) Key { return d.vertical(key, d.Collection.KeyAfter) }
func (d *KeyboardDelegate) KeyAbove(key Key) Key { return d.vertical(key, d.Collection.KeyBefore) }

func (d *KeyboardDelegate) FirstKey() Key {
	if d.off() {
		return ""
	}
	k := d.Collection.FirstKey()
	if n := d.Collection.Item(k); d.usableRow(n) {
		return k
	}
	if n := d.step(k, d.Collection.KeyAfter); n != nil {
		return n.Key
	}
	return ""
}

func (d *KeyboardDelegate) LastKey() Key {
	if d.off() {
		return ""
	}
	k := d.Collection.LastKey()
	if n := d.Collection.Item(k); d.usableRow(n) {
		return k
	}
	if n := d.step(k, d.Collection.KeyBefore); n != nil {
		return n.Key
	}
	return ""
}

// KeyRightOf moves to the next cell. From a row in cell focus mode it
// enters the first cell.
func (d *KeyboardDelegate) KeyRightOf(key Key) Key {
	if d.off() {
		return ""
	}
	row, cell := d.rowOf(key)
	switch {
	case row == nil:
		return ""
	case cell == nil:
		if d.FocusMode == FocusCell {
			if first := collection.FirstChild(d.Collection, row.Key); first != nil {
				return first.Key
			}
		}
		return ""
	}
	return d.Collection.KeyAfter(cell.Key)
}

// KeyLeftOf moves to the previous cell. Leaving the first cell returns to
// the row in row focus mode.
func (d *KeyboardDelegate) KeyLeftOf(key Key) Key {
	if d.off() {
		return ""
	}
	row, cell := d.rowOf(key)
	switch {
	case row == nil:
		return ""
	case cell == nil:
		if d.FocusMode == FocusCell {
			if last := collection.LastChild(d.Collection, row.Key); last != nil {
				return last.Key
			}
		}
		return ""
	}
	if prev := d.Collection.KeyBefore(cell.Key); prev != "" {
		return prev
	}
	if d.FocusMode == FocusRow {
		return row.Key
	}
	return ""
}

func (d *KeyboardDelegate) pageSize() int {
	if d.PageSize < 1 {
		return collection.DefaultPageSize
	}
	return d.PageSize
}

func (d *KeyboardDelegate) page(key Key, move func(Key) Key, within func(y, target float64) bool, dir float64) Key {
	if d.off() {
		return ""
	}
	if d.Rects != nil {
		row, _ := d.rowOf(key)
		if row != nil {
			if y, _, ok := d.Rects.ItemRect(row.Key); ok {
				target := y + dir*d.Rects.PageHeight()
				last := key
				for k := move(key); k != ""; k = move(k) {
					r, _ := d.rowOf(k)
					ky, _, ok := d.Rects.ItemRect(r.Key)
					if !ok || !within(ky, target) {
						break
					}
					last = k
				}
				if last == key {
					return move(key)
				}
				return last
			}
		}
	}
	cur := key
	for i := 0; i < d.pageSize(); i++ {
		next := move(cur)
		if next == "" {
			break
		}
		cur = next
	}
	if cur == key {
		return ""
	}
	return cur
}

func (d *KeyboardDelegate) KeyPageBelow(key Key) Key {
	return d.page(key, d.KeyBelow, func(y, t float64) bool { return y <= t }, 1)
}

func (d *KeyboardDelegate) KeyPageAbove(key Key) Key {
	return d.page(key, d.KeyAbove, func(y, t float64) bool { return y >= t }, -1)
}

var (
	_ collection.KeyboardDelegate   = (*KeyboardDelegate)(nil)
	_ collection.HorizontalDelegate = (*KeyboardDelegate)(nil)
)
