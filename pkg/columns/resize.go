package columns

// ResizeState drives an interactive column resize: one column at a time,
// with callbacks at start, on every width change and at the end.
type ResizeState struct {
	layout   *Layout
	resizing Key
	last     map[Key]Size

	OnResizeStart func(Widths)
	OnResize      func(map[Key]Size)
	OnResizeEnd   func(map[Key]Size)
}

// NewResizeState returns a resize driver for l.
func NewResizeState(l *Layout) *ResizeState {
	return &ResizeState{layout: l}
}

// ResizingColumn returns the key being resized, or the empty key.
func (r *ResizeState) ResizingColumn() Key { return r.resizing }

// StartResize begins resizing key. Columns that do not allow resizing are
// ignored.
func (r *ResizeState) StartResize(key Key) bool {
	c, ok := r.layout.spec(key)
	if !ok || !c.AllowsResizing {
		return false
	}
	r.resizing = key
	r.last = nil
	if r.OnResizeStart != nil {
		r.OnResizeStart(r.layout.Widths())
	}
	return true
}

// UpdateResize sets the width of the column being resized and returns the
// new width specs.
func (r *ResizeState) UpdateResize(tableWidth, width float64) map[Key]Size {
	if r.resizing == "" {
		return nil
	}
	out := r.layout.ResizeColumn(tableWidth, r.resizing, width)
	r.last = out
	if r.OnResize != nil {
		r.OnResize(out)
	}
	return out
}

// EndResize finishes the resize and returns the last width specs.
func (r *ResizeState) EndResize() map[Key]Size {
	if r.resizing == "" {
		return nil
	}
	out := r.last
	if out == nil {
		out = make(map[Key]Size, len(r.layout.columns))
		for _, c := range r.layout.columns {
			out[c.Key] = r.layout.effective(c)
		}
	}
	r.resizing = ""
	r.last = nil
	if r.OnResizeEnd != nil {
		r.OnResizeEnd(out)
	}
	return out
}
