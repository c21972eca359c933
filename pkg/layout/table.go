package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/columns"
)

// TableSource is the table shape a TableStrategy lays out.
type TableSource interface {
	collection.Collection
	Columns() []*collection.Node
	HeaderRows() []*collection.Node
	BodyRows() []*collection.Node
	RowHeaderColumnKeys() []Key
}

// Table loader and empty-state geometry.
const (
	tableStateMargin  = 40
	tableLoaderHeight = 60
)

// TableOptions configures a TableStrategy.
type TableOptions struct {
	RowHeight              float64
	EstimatedRowHeight     float64
	HeadingHeight          float64
	EstimatedHeadingHeight float64

	// Columns sizes columns that have no explicit width.
	Columns columns.Options

	IsLoading        bool
	RenderEmptyState bool
	// DisableSticky turns off sticky columns (see DetectStickyBug).
	DisableSticky bool
}

// TableStrategy lays out a header of column rows and a body of rows and
// cells. Rows are separated by a 1px border included in their height.
type TableStrategy struct {
	opts    TableOptions
	changed bool

	columns     *columns.Layout
	resize      *columns.ResizeState
	widths      columns.Widths
	lastColumns []*collection.Node
	pendingSize bool

	stickyIndices []int
}

// NewTableStrategy returns a table strategy.
func NewTableStrategy(opts TableOptions) *TableStrategy {
	opts = withTableDefaults(opts)
	cl := columns.NewLayout(opts.Columns)
	return &TableStrategy{
		opts:    opts,
		columns: cl,
		resize:  columns.NewResizeState(cl),
		widths:  make(columns.Widths),
	}
}

func withTableDefaults(o TableOptions) TableOptions {
	if o.EstimatedRowHeight <= 0 {
		o.EstimatedRowHeight = DefaultEstimatedRowHeight
	}
	if o.EstimatedHeadingHeight <= 0 {
		o.EstimatedHeadingHeight = DefaultEstimatedHeadingHeight
	}
	return o
}

func (s *TableStrategy) Name() string { return "table" }

// Options returns the current options.
func (s *TableStrategy) Options() TableOptions { return s.opts }

// SetOptions replaces the options; the next Validate relayouts everything.
func (s *TableStrategy) SetOptions(o TableOptions) {
	s.opts = withTableDefaults(o)
	s.changed = true
}

// ColumnWidths returns the resolved column widths.
func (s *TableStrategy) ColumnWidths() columns.Widths { return maps.Clone(s.widths) }

// ColumnLayout returns the column width state.
func (s *TableStrategy) ColumnLayout() *columns.Layout { return s.columns }

// StickyIndices returns the column indices that are always laid out: sticky
// columns and row header columns.
func (s *TableStrategy) StickyIndices() []int { return s.stickyIndices }

func (s *TableStrategy) RowPitch() float64 {
	h := s.opts.RowHeight
	if h <= 0 {
		h = s.opts.EstimatedRowHeight
	}
	return h + 1
}

func source(l *Layout) TableSource {
	t, _ := l.Collection().(TableSource)
	return t
}

// =============================================================================
// Invalidation
// =============================================================================

func (s *TableStrategy) Invalidate(l *Layout, ctx *InvalidationContext) {
	if s.changed {
		ctx.LayoutOptionsChanged = true
		s.changed = false
	}
	if s.pendingSize {
		ctx.SizeChanged = true
		s.pendingSize = false
	}
	t := source(l)
	if t == nil {
		return
	}
	cols := t.Columns()

	switch {
	case ctx.ColumnWidths != nil:
		for k, v := range ctx.ColumnWidths {
			if s.widths[k] != v {
				s.widths = maps.Clone(ctx.ColumnWidths)
				ctx.SizeChanged = true
				break
			}
		}
	case ctx.SizeChanged || s.columnsChanged(cols):
		specs := make([]columns.Spec, 0, len(cols))
		for _, c := range cols {
			spec, err := columns.SpecFromNode(c)
			if err != nil {
				l.Logger().Warn("ignoring column sizes", "column", c.Key, "err", err)
				spec = columns.Spec{Key: c.Key, AllowsResizing: c.Props.AllowsResizing}
			}
			specs = append(specs, spec)
		}
		s.columns.SetColumns(specs)
		s.widths = s.columns.BuildWidths(l.VisibleRect().Width)
		ctx.SizeChanged = true
	}
	s.lastColumns = cols
}

// columnsChanged reports whether the column set or any column size prop
// differs from the last validated columns.
func (s *TableStrategy) columnsChanged(cols []*collection.Node) bool {
	if s.lastColumns == nil {
		return true
	}
	return !slices.EqualFunc(cols, s.lastColumns, func(a, b *collection.Node) bool {
		return a.Key == b.Key &&
			a.Props.Width == b.Props.Width &&
			a.Props.DefaultWidth == b.Props.DefaultWidth &&
			a.Props.MinWidth == b.Props.MinWidth &&
			a.Props.MaxWidth == b.Props.MaxWidth
	})
}

// =============================================================================
// Column resizing
// =============================================================================

// Resizer returns the resize driver; set its callbacks to observe resizes.
func (s *TableStrategy) Resizer() *columns.ResizeState { return s.resize }

// StartResize begins an interactive resize of key.
func (s *TableStrategy) StartResize(key Key) bool { return s.resize.StartResize(key) }

// UpdateResize resizes the column being resized to width and returns the
// new width specs of all columns. The next Validate relayouts the table.
func (s *TableStrategy) UpdateResize(l *Layout, width float64) map[Key]columns.Size {
	out := s.resize.UpdateResize(l.VisibleRect().Width, width)
	if out != nil {
		s.widths = s.columns.Widths()
		s.pendingSize = true
	}
	return out
}

// EndResize finishes the resize.
func (s *TableStrategy) EndResize() map[Key]columns.Size { return s.resize.EndResize() }

// ResizingColumn returns the key being resized.
func (s *TableStrategy) ResizingColumn() Key { return s.resize.ResizingColumn() }

// ResizerPosition returns the x of the right edge of the column being
// resized.
func (s *TableStrategy) ResizerPosition(l *Layout) (float64, bool) {
	key := s.resize.ResizingColumn()
	if key == "" {
		return 0, false
	}
	info, ok := l.Info(key)
	if !ok {
		return 0, false
	}
	return info.Rect.MaxX(), true
}

// =============================================================================
// Build
// =============================================================================

func (s *TableStrategy) isSticky(n *collection.Node) bool {
	if s.opts.DisableSticky {
		return false
	}
	return n.Props.IsSelectionCell || n.Props.IsDragButtonCell || n.Props.IsRowHeader
}

func (s *TableStrategy) Build(l *Layout) ([]*Node, Size) {
	t := source(l)
	if t == nil {
		return nil, Size{}
	}

	rowHeaders := t.RowHeaderColumnKeys()
	s.stickyIndices = s.stickyIndices[:0]
	for _, c := range t.Columns() {
		if s.isSticky(c) || slices.Contains(rowHeaders, c.Key) {
			s.stickyIndices = append(s.stickyIndices, c.Index)
		}
	}

	header := s.buildHeader(l, t)
	body := s.buildBody(l, t, 0)
	body.Info.Rect.Width = max(header.Info.Rect.Width, body.Info.Rect.Width)
	return []*Node{header, body}, Size{Width: body.Info.Rect.Width, Height: body.Info.Rect.MaxY()}
}

func (s *TableStrategy) buildHeader(l *Layout, t TableSource) *Node {
	info := &Info{Key: HeaderKey, Type: TypeHeaderGroup}
	var children []*Node
	y, width := 0.0, 0.0
	for _, hr := range t.HeaderRows() {
		ln := l.Child(hr, 0, y, HeaderKey)
		ln.Index = len(children)
		y = ln.Info.Rect.MaxY()
		width = max(width, ln.Info.Rect.Width)
		children = append(children, ln)
	}
	info.Rect = NewRect(0, 0, width, y)
	n := &Node{Info: info, Children: children, ValidRect: info.Rect}
	l.Store(HeaderKey, n)
	return n
}

func (s *TableStrategy) buildBody(l *Layout, t TableSource, y float64) *Node {
	info := &Info{Key: BodyKey, Type: TypeRowGroup}
	valid := l.ValidRect()
	vis := l.VisibleRect()
	pitch := s.RowPitch()
	startY := y

	rows := t.BodyRows()
	var children []*Node
	skipped := 0
	width := 0.0
	for _, r := range rows {
		// Rows above the valid rect are skipped unless cached or persisted.
		if y+pitch < valid.Y && !l.IsValid(r, y) && !l.IsPersisted(r.Key) {
			y += pitch
			skipped++
			continue
		}
		ln := l.Child(r, 0, y, BodyKey)
		ln.Index = len(children)
		y = ln.Info.Rect.MaxY()
		width = max(width, ln.Info.Rect.Width)
		children = append(children, ln)

		if y > valid.MaxY() {
			// Rows below the valid rect are estimated in bulk.
			y += float64(len(rows)-(skipped+len(children))) * pitch
			break
		}
	}

	noRows := len(rows) == 0
	switch {
	case s.opts.IsLoading:
		// Margins keep scrollbars from flickering while loading.
		w := width
		if w == 0 {
			w = vis.Width
		}
		h := float64(tableLoaderHeight)
		if noRows {
			h = vis.Height - 2*tableStateMargin
		}
		loader := &Info{
			Key:       LoaderKey,
			Type:      collection.TypeLoader,
			ParentKey: BodyKey,
			Rect:      NewRect(tableStateMargin, max(y, tableStateMargin), w-2*tableStateMargin, h),
			IsSticky:  !s.opts.DisableSticky && noRows,
		}
		l.SetInfo(loader)
		children = append(children, &Node{Info: loader, ValidRect: loader.Rect, Index: len(children)})
		y = loader.Rect.MaxY()
		width = max(width, loader.Rect.Width)
	case noRows && s.opts.RenderEmptyState:
		empty := &Info{
			Key:       EmptyKey,
			Type:      TypeEmpty,
			ParentKey: BodyKey,
			Rect:      NewRect(tableStateMargin, max(y, tableStateMargin), vis.Width-2*tableStateMargin, vis.Height-2*tableStateMargin),
			IsSticky:  !s.opts.DisableSticky,
		}
		l.SetInfo(empty)
		children = append(children, &Node{Info: empty, ValidRect: empty.Rect})
		y = empty.Rect.MaxY()
		width = max(width, empty.Rect.Width)
	}

	info.Rect = NewRect(0, startY, width, y-startY)
	n := &Node{Info: info, Children: children, ValidRect: info.Rect.Intersection(valid)}
	l.Store(BodyKey, n)
	return n
}

func (s *TableStrategy) BuildNode(l *Layout, n *collection.Node, x, y float64) *Node {
	switch n.Type {
	case collection.TypeHeaderRow:
		return s.buildHeaderRow(l, n, x, y)
	case collection.TypeRow, collection.TypeItem:
		return s.buildRow(l, n, x, y)
	case collection.TypeColumn, collection.TypePlaceholder:
		return s.buildColumn(l, n, x, y)
	case collection.TypeCell:
		return s.buildCell(l, n, x, y)
	}
	l.Logger().Debug("unexpected node in table", "key", n.Key, "type", n.Type)
	info := &Info{Key: n.Key, Type: n.Type, Rect: NewRect(x, y, 0, 0)}
	return &Node{Info: info, ValidRect: info.Rect}
}

func (s *TableStrategy) buildHeaderRow(l *Layout, n *collection.Node, x, y float64) *Node {
	var children []*Node
	height := 0.0
	for _, c := range l.Collection().Children(n.Key) {
		ln := l.Child(c, x, y, n.Key)
		ln.Index = len(children)
		x = ln.Info.Rect.MaxX()
		height = max(height, ln.Info.Rect.Height)
		children = append(children, ln)
	}
	s.setChildHeights(l, children, height)
	info := &Info{Key: n.Key, Type: collection.TypeHeaderRow, Rect: NewRect(0, y, x, height)}
	return &Node{Info: info, Children: children, ValidRect: info.Rect}
}

// setChildHeights gives every cell of a row the row's height. Infos are
// copied before they change.
func (s *TableStrategy) setChildHeights(l *Layout, children []*Node, height float64) {
	for _, c := range children {
		if c.Info.Rect.Height != height {
			cp := c.Info.Copy()
			cp.Rect.Height = height
			c.Info = cp
			l.SetInfo(cp)
		}
	}
}

// renderedWidth sums the widths of the columns a node spans.
func (s *TableStrategy) renderedWidth(t TableSource, n *collection.Node) float64 {
	cols := t.Columns()
	w := 0.0
	for i := n.ColIndex; i < n.ColIndex+n.Span() && i < len(cols); i++ {
		w += s.widths[cols[i].Key]
	}
	return w
}

func (s *TableStrategy) buildColumn(l *Layout, n *collection.Node, x, y float64) *Node {
	width := s.renderedWidth(source(l), n)
	h, est := l.EstimatedHeight(n, width, s.opts.HeadingHeight, s.opts.EstimatedHeadingHeight)
	info := &Info{Key: n.Key, Type: n.Type, Rect: NewRect(x, y, width, h), EstimatedSize: est, ZIndex: 1}
	if s.isSticky(n) {
		info.IsSticky = true
		info.ZIndex = 2
	}
	return &Node{Info: info, ValidRect: info.Rect}
}

func (s *TableStrategy) buildRow(l *Layout, n *collection.Node, x, y float64) *Node {
	valid := l.ValidRect()
	var children []*Node
	height := 0.0
	for _, c := range l.Collection().Children(n.Key) {
		if c.Type != collection.TypeCell {
			continue
		}
		if x > valid.MaxX() {
			// Cells right of the valid rect keep their cached info, moved out
			// of view. This happens after a column resize.
			cached, ok := l.Cached(c.Key)
			if !ok {
				break
			}
			cp := cached.Info.Copy()
			cp.Rect.X = x
			cached.Info = cp
			l.Store(c.Key, cached)
			x += cp.Rect.Width
			continue
		}
		ln := l.Child(c, x, y, n.Key)
		ln.Index = len(children)
		x = ln.Info.Rect.MaxX()
		height = max(height, ln.Info.Rect.Height)
		children = append(children, ln)
	}
	s.setChildHeights(l, children, height)

	width := 0.0
	if h, ok := l.infos[HeaderKey]; ok {
		width = h.Rect.Width
	}
	// One extra pixel for the bottom border.
	info := &Info{Key: n.Key, Type: collection.TypeRow, Rect: NewRect(0, y, width, height+1), Level: n.Level}
	return &Node{Info: info, Children: children, ValidRect: info.Rect.Intersection(valid)}
}

func (s *TableStrategy) buildCell(l *Layout, n *collection.Node, x, y float64) *Node {
	width := s.renderedWidth(source(l), n)
	h, est := l.EstimatedHeight(n, width, s.opts.RowHeight, s.opts.EstimatedRowHeight)
	info := &Info{Key: n.Key, Type: collection.TypeCell, Rect: NewRect(x, y, width, h), EstimatedSize: est, ZIndex: 1, Level: n.Level}
	if s.isSticky(n) {
		info.IsSticky = true
		info.ZIndex = 2
	}
	return &Node{Info: info, ValidRect: info.Rect}
}

// =============================================================================
// Visible set
// =============================================================================

func (s *TableStrategy) AppendVisible(l *Layout, rect Rect, out []*Info) []*Info {
	for _, n := range l.RootNodes() {
		out = append(out, n.Info)
		out = s.appendChildren(l, n, rect, out)
	}
	return out
}

func (s *TableStrategy) appendChildren(l *Layout, n *Node, rect Rect, out []*Info) []*Info {
	if len(n.Children) == 0 {
		return out
	}
	switch n.Info.Type {
	case TypeHeaderGroup:
		for _, c := range n.Children {
			out = append(out, c.Info)
			out = s.appendChildren(l, c, rect, out)
		}
	case TypeRowGroup:
		persisted, _ := l.PersistedIndices(n.Info.Key)
		out = mergeVisible(n.Children, rect.Y, rect.MaxY(), true, persisted, out, func(c *Node, out []*Info) []*Info {
			return s.appendChildren(l, c, rect, out)
		})
	case collection.TypeRow, collection.TypeHeaderRow:
		persisted, ok := l.PersistedIndices(n.Info.Key)
		if !ok {
			persisted = s.stickyIndices
		}
		out = mergeVisible(n.Children, rect.X, rect.MaxX(), false, persisted, out, nil)
	}
	return out
}

// mergeVisible appends the children between lo and hi along one axis, found
// by binary search, interleaved with the persisted child indices so that
// output stays in index order without duplicates.
func mergeVisible(children []*Node, lo, hi float64, vertical bool, persisted []int, out []*Info, recurse func(*Node, []*Info) []*Info) []*Info {
	if len(children) == 0 {
		return out
	}
	emit := func(i int) {
		out = append(out, children[i].Info)
		if recurse != nil {
			out = recurse(children[i], out)
		}
	}
	first := binarySearch(children, lo, vertical)
	last := binarySearch(children, hi, vertical)

	p := 0
	for p < len(persisted) && persisted[p] < first {
		if persisted[p] < len(children) {
			emit(persisted[p])
		}
		p++
	}
	for i := first; i <= last; i++ {
		for p < len(persisted) && persisted[p] <= i {
			p++
		}
		emit(i)
	}
	for ; p < len(persisted); p++ {
		if persisted[p] < len(children) {
			emit(persisted[p])
		}
	}
	return out
}

// =============================================================================
// Hit testing
// =============================================================================

// HeaderHeight returns the height of the header rows.
func (s *TableStrategy) HeaderHeight(l *Layout) float64 {
	if h, ok := l.infos[HeaderKey]; ok {
		return h.Rect.Height
	}
	return 0
}

// HitTest finds the row under p. Points are relative to the whole table,
// header included, so the header height is subtracted first.
func (s *TableStrategy) HitTest(l *Layout, p Point) (Key, float64) {
	p.Y -= s.HeaderHeight(l)
	probe := NewRect(p.X, p.Y, 1, 1)
	var key Key
	for _, info := range l.VisibleInfos(probe) {
		if info.Type == collection.TypeRow && info.Rect.Intersects(probe) {
			key = info.Key
		}
	}
	return key, p.Y
}

var _ Strategy = (*TableStrategy)(nil)
