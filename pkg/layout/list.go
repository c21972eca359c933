package layout

import (
	"github.com/matzehuels/gridkit/pkg/collection"
)

// Default sizes used when no explicit size is configured.
const (
	DefaultEstimatedRowHeight     = 48
	DefaultEstimatedHeadingHeight = 48
	DefaultLoaderHeight           = 48
)

// ListOptions configures a ListStrategy. Zero heights fall back to the
// estimated defaults.
type ListOptions struct {
	// RowHeight fixes the height of every item. Zero means variable height,
	// estimated until measured via Layout.UpdateItemSize.
	RowHeight              float64
	EstimatedRowHeight     float64
	HeadingHeight          float64
	EstimatedHeadingHeight float64
	LoaderHeight           float64
	Padding                float64
	Gap                    float64
	// Indentation is added per nesting level (tree items).
	Indentation float64

	IsLoading        bool
	RenderEmptyState bool
}

// ListStrategy lays out items, sections with headers and loaders in a
// single vertical column.
type ListStrategy struct {
	opts    ListOptions
	changed bool
}

// NewListStrategy returns a list strategy.
func NewListStrategy(opts ListOptions) *ListStrategy {
	return &ListStrategy{opts: withListDefaults(opts)}
}

func withListDefaults(o ListOptions) ListOptions {
	if o.EstimatedRowHeight <= 0 {
		o.EstimatedRowHeight = DefaultEstimatedRowHeight
	}
	if o.EstimatedHeadingHeight <= 0 {
		o.EstimatedHeadingHeight = DefaultEstimatedHeadingHeight
	}
	if o.LoaderHeight <= 0 {
		o.LoaderHeight = DefaultLoaderHeight
	}
	return o
}

// Options returns the current options.
func (s *ListStrategy) Options() ListOptions { return s.opts }

// SetOptions replaces the options; the next Validate relayouts everything.
func (s *ListStrategy) SetOptions(o ListOptions) {
	s.opts = withListDefaults(o)
	s.changed = true
}

func (s *ListStrategy) Name() string { return "list" }

func (s *ListStrategy) RowPitch() float64 {
	h := s.opts.RowHeight
	if h <= 0 {
		h = s.opts.EstimatedRowHeight
	}
	return h + s.opts.Gap
}

func (s *ListStrategy) Invalidate(_ *Layout, ctx *InvalidationContext) {
	if s.changed {
		ctx.LayoutOptionsChanged = true
		s.changed = false
	}
}

func (s *ListStrategy) width(l *Layout) float64 {
	return l.VisibleRect().Width - 2*s.opts.Padding
}

func (s *ListStrategy) Build(l *Layout) ([]*Node, Size) {
	c := l.Collection()
	pad := s.opts.Padding
	y := pad
	pitch := s.RowPitch()
	valid := l.ValidRect()

	top := c.Nodes()
	var nodes []*Node
	skipped := 0
	for _, n := range top {
		// Items above the valid rect are skipped unless cached or persisted.
		if n.Type == collection.TypeItem && y+pitch < valid.Y && !l.IsValid(n, y) && !l.IsPersisted(n.Key) {
			y += pitch
			skipped++
			continue
		}
		ln := l.Child(n, pad, y, "")
		ln.Index = len(nodes)
		y = ln.Info.Rect.MaxY() + s.opts.Gap
		nodes = append(nodes, ln)

		if n.Type == collection.TypeItem && y > valid.MaxY() {
			y += float64(len(top)-(len(nodes)+skipped)) * pitch
			break
		}
	}

	vis := l.VisibleRect()
	empty := c.Size() == 0
	if s.opts.IsLoading {
		h := s.opts.LoaderHeight
		if empty {
			h = vis.Height
		}
		info := &Info{Key: LoaderKey, Type: collection.TypeLoader, Rect: NewRect(0, y, vis.Width, h)}
		l.SetInfo(info)
		nodes = append(nodes, &Node{Info: info, ValidRect: info.Rect, Index: len(nodes)})
		y = info.Rect.MaxY()
	}
	if empty && !s.opts.IsLoading && s.opts.RenderEmptyState {
		info := &Info{Key: EmptyKey, Type: TypeEmpty, Rect: NewRect(0, y, vis.Width, vis.Height)}
		l.SetInfo(info)
		nodes = append(nodes, &Node{Info: info, ValidRect: info.Rect})
		y = info.Rect.MaxY()
	}
	return nodes, Size{Width: vis.Width, Height: y + pad}
}

func (s *ListStrategy) BuildNode(l *Layout, n *collection.Node, x, y float64) *Node {
	switch n.Type {
	case collection.TypeSection:
		return s.buildSection(l, n, x, y)
	case collection.TypeHeader:
		return s.buildHeading(l, n, x, y)
	case collection.TypeLoader:
		return s.buildLoader(l, n, x, y)
	}
	return s.buildItem(l, n, x, y)
}

func (s *ListStrategy) buildItem(l *Layout, n *collection.Node, x, y float64) *Node {
	indent := float64(n.Level) * s.opts.Indentation
	width := s.width(l) - indent
	h, est := l.EstimatedHeight(n, width, s.opts.RowHeight, s.opts.EstimatedRowHeight)
	info := &Info{
		Key:           n.Key,
		Type:          n.Type,
		Rect:          NewRect(x+indent, y, width, h),
		Level:         n.Level,
		EstimatedSize: est,
	}
	return &Node{Info: info, ValidRect: info.Rect}
}

func (s *ListStrategy) buildHeading(l *Layout, n *collection.Node, x, y float64) *Node {
	width := s.width(l)
	h, est := l.EstimatedHeight(n, width, s.opts.HeadingHeight, s.opts.EstimatedHeadingHeight)
	info := &Info{Key: n.Key, Type: collection.TypeHeader, Rect: NewRect(x, y, width, h), EstimatedSize: est}
	return &Node{Info: info, ValidRect: info.Rect}
}

func (s *ListStrategy) buildLoader(l *Layout, n *collection.Node, x, y float64) *Node {
	info := &Info{Key: n.Key, Type: collection.TypeLoader, Rect: NewRect(x, y, s.width(l), s.opts.LoaderHeight)}
	return &Node{Info: info, ValidRect: info.Rect}
}

// buildSection lays out a section title followed by its children. The
// section info covers title and children.
func (s *ListStrategy) buildSection(l *Layout, n *collection.Node, x, y float64) *Node {
	width := s.width(l)
	valid := l.ValidRect()
	pitch := s.RowPitch()
	startY := y

	var header *Info
	if n.TextValue != "" {
		h, est := s.sectionHeadingHeight(l, n, width)
		header = &Info{
			Key:           "header-" + n.Key,
			Type:          collection.TypeHeader,
			ParentKey:     n.Key,
			Rect:          NewRect(x, y, width, h),
			EstimatedSize: est,
		}
		y = header.Rect.MaxY()
	}

	info := &Info{Key: n.Key, Type: collection.TypeSection, Rect: NewRect(x, y, width, 0)}
	kids := l.Collection().Children(n.Key)
	var children []*Node
	skipped := 0
	for _, child := range kids {
		if y+pitch < valid.Y && !l.IsValid(child, y) && !l.IsPersisted(child.Key) {
			y += pitch
			skipped++
			continue
		}
		ln := l.Child(child, x, y, n.Key)
		ln.Index = len(children)
		y = ln.Info.Rect.MaxY() + s.opts.Gap
		children = append(children, ln)
		if y > valid.MaxY() {
			y += float64(len(kids)-(len(children)+skipped)) * pitch
			break
		}
	}
	info.Rect.Height = y - info.Rect.Y
	if header != nil {
		info.Rect.Y = startY
		info.Rect.Height = y - startY
	}
	return &Node{Info: info, Header: header, Children: children, ValidRect: info.Rect.Intersection(valid)}
}

func (s *ListStrategy) sectionHeadingHeight(l *Layout, n *collection.Node, width float64) (float64, bool) {
	if s.opts.HeadingHeight > 0 {
		return s.opts.HeadingHeight, false
	}
	if prev, ok := l.Cached(n.Key); ok && prev.Header != nil {
		return prev.Header.Rect.Height, n != prev.Source || width != prev.Header.Rect.Width || prev.Header.EstimatedSize
	}
	return s.opts.EstimatedHeadingHeight, true
}

func (s *ListStrategy) AppendVisible(l *Layout, rect Rect, out []*Info) []*Info {
	var add func(nodes []*Node)
	add = func(nodes []*Node) {
		for _, n := range nodes {
			// Sections holding a persisted item stay even when out of view.
			_, holdsPersisted := l.PersistedIndices(n.Info.Key)
			if !n.Info.Rect.Intersects(rect) && !n.Info.IsSticky && n.Header == nil && !l.IsPersisted(n.Info.Key) && !holdsPersisted {
				continue
			}
			if n.Header != nil {
				out = append(out, n.Header)
			}
			out = append(out, n.Info)
			add(n.Children)
		}
	}
	add(l.RootNodes())
	return out
}

func (s *ListStrategy) HitTest(l *Layout, p Point) (Key, float64) {
	probe := NewRect(p.X, p.Y, 1, 1)
	var key Key
	for _, info := range l.VisibleInfos(probe) {
		if info.Type.IsRow() && info.Rect.Intersects(probe) {
			key = info.Key
		}
	}
	return key, p.Y
}

var _ Strategy = (*ListStrategy)(nil)
