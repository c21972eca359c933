package collection

// KeyboardDelegate supplies keyboard navigation primitives. An empty key
// means "no such key".
type KeyboardDelegate interface {
	KeyBelow(key Key) Key
	KeyAbove(key Key) Key
	FirstKey() Key
	LastKey() Key
	KeyPageBelow(key Key) Key
	KeyPageAbove(key Key) Key
}

// HorizontalDelegate is implemented by delegates that can move between
// columns (grids) as well as rows.
type HorizontalDelegate interface {
	KeyRightOf(key Key) Key
	KeyLeftOf(key Key) Key
}

// ItemRects gives a keyboard delegate access to laid-out item positions so
// that page navigation can move by viewport height rather than item count.
type ItemRects interface {
	// ItemRect returns the vertical extent of key, or ok=false if the key has
	// no layout.
	ItemRect(key Key) (y, height float64, ok bool)
	// PageHeight is the height of the visible viewport.
	PageHeight() float64
}

// DefaultPageSize is the number of rows moved by page navigation when no
// ItemRects is available.
const DefaultPageSize = 10

// ListKeyboardDelegate navigates the row-like nodes (items and rows) of a
// collection in document order. Sections, headers, loaders and cells are
// skipped.
type ListKeyboardDelegate struct {
	Collection Collection

	// IsDisabled reports whether a key must be skipped. Set it only when
	// disabled keys are not focusable (disabled behavior "all").
	IsDisabled func(Key) bool

	// Rects enables viewport-based paging. When nil, PageSize rows are used.
	Rects    ItemRects
	PageSize int
}

// NewListKeyboardDelegate returns a delegate over c.
func NewListKeyboardDelegate(c Collection) *ListKeyboardDelegate {
	return &ListKeyboardDelegate{Collection: c, PageSize: DefaultPageSize}
}

func (d *ListKeyboardDelegate) navigable(key Key) bool {
	n := d.Collection.Item(key)
	if n == nil || !n.Type.IsRow() {
		return false
	}
	return d.IsDisabled == nil || !d.IsDisabled(key)
}

func (d *ListKeyboardDelegate) findNext(key Key, step func(Key) Key) Key {
	for key != "" {
		if d.navigable(key) {
			return key
		}
		key = step(key)
	}
	return ""
}

func (d *ListKeyboardDelegate) KeyBelow(key Key) Key {
	if d.Collection.Item(key) == nil {
		return ""
	}
	return d.findNext(d.Collection.KeyAfter(key), d.Collection.KeyAfter)
}

func (d *ListKeyboardDelegate) KeyAbove(key Key) Key {
	if d.Collection.Item(key) == nil {
		return ""
	}
	return d.findNext(d.Collection.KeyBefore(key), d.Collection.KeyBefore)
}

func (d *ListKeyboardDelegate) FirstKey() Key {
	return d.findNext(d.Collection.FirstKey(), d.Collection.KeyAfter)
}

func (d *ListKeyboardDelegate) LastKey() Key {
	return d.findNext(d.Collection.LastKey(), d.Collection.KeyBefore)
}

func (d *ListKeyboardDelegate) pageSize() int {
	if d.PageSize < 1 {
		return DefaultPageSize
	}
	return d.PageSize
}

func (d *ListKeyboardDelegate) KeyPageBelow(key Key) Key {
	if d.Rects != nil {
		if y, _, ok := d.Rects.ItemRect(key); ok {
			target := y + d.Rects.PageHeight()
			last := key
			for k := d.KeyBelow(key); k != ""; k = d.KeyBelow(k) {
				ky, _, ok := d.Rects.ItemRect(k)
				if !ok || ky > target {
					break
				}
				last = k
			}
			if last == key {
				return d.KeyBelow(key)
			}
			return last
		}
	}
	return d.page(key, d.KeyBelow)
}

func (d *ListKeyboardDelegate) KeyPageAbove(key Key) Key {
	if d.Rects != nil {
		if y, _, ok := d.Rects.ItemRect(key); ok {
			target := y - d.Rects.PageHeight()
			last := key
			for k := d.KeyAbove(key); k != ""; k = d.KeyAbove(k) {
				ky, _, ok := d.Rects.ItemRect(k)
				if !ok || ky < target {
					break
				}
				last = k
			}
			if last == key {
				return d.KeyAbove(key)
			}
			return last
		}
	}
	return d.page(key, d.KeyAbove)
}

// page moves up to pageSize steps, stopping at the last reachable key.
func (d *ListKeyboardDelegate) page(key Key, step func(Key) Key) Key {
	cur := key
	for i := 0; i < d.pageSize(); i++ {
		next := step(cur)
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

var _ KeyboardDelegate = (*ListKeyboardDelegate)(nil)
