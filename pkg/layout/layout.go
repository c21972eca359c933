package layout

import (
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/dnd"
	"github.com/matzehuels/gridkit/pkg/observability"
)

// InvalidationContext describes why a layout is being validated.
type InvalidationContext struct {
	// InvalidateEverything drops every cached node.
	InvalidateEverything bool
	// SizeChanged is set when the container or column widths changed. Strategies
	// may set it during Invalidate.
	SizeChanged bool
	// LayoutOptionsChanged is set when strategy options changed.
	LayoutOptionsChanged bool
	// ColumnWidths overrides the computed column widths of a table, for
	// example during an interactive resize.
	ColumnWidths map[Key]float64
}

// Strategy supplies the node-type-specific part of a layout. The core owns
// caching, valid-rect tracking, persisted keys and the visible-set query
// skeleton; a strategy builds nodes and picks the visible subset.
type Strategy interface {
	// Name identifies the strategy in logs and hooks.
	Name() string
	// Invalidate runs at the start of Validate and may widen ctx.
	Invalidate(l *Layout, ctx *InvalidationContext)
	// Build lays out the collection against l.ValidRect() and returns the
	// root nodes and the content size.
	Build(l *Layout) ([]*Node, Size)
	// BuildNode lays out one collection node at (x, y). It is called through
	// Layout.Child, which handles caching.
	BuildNode(l *Layout, n *collection.Node, x, y float64) *Node
	// AppendVisible appends the infos visible in rect to out.
	AppendVisible(l *Layout, rect Rect, out []*Info) []*Info
	// RowPitch is the estimated vertical distance between row origins.
	RowPitch() float64
	// HitTest returns the row at p (viewport-relative content coordinates
	// with scroll offset applied) and p's y in row coordinates.
	HitTest(l *Layout, p Point) (Key, float64)
}

// Options configures the layout core.
type Options struct {
	Logger *log.Logger
}

// Layout is a virtualized layout: it computes Info values for a collection
// and answers visible-set queries, rebuilding only what changed.
//
// Layout is not safe for concurrent use.
type Layout struct {
	strategy Strategy
	logger   *log.Logger

	coll     collection.Collection
	lastColl collection.Collection

	visibleRect Rect
	validRect   Rect
	lastWidth   float64
	sizeChanged bool

	nodes map[Key]*Node
	infos map[Key]*Info
	// pass counts builds from 1; nodes stored during a build carry it and
	// stale nodes carry 0.
	pass int

	rootNodes   []*Node
	contentSize Size

	invalidateEverything bool

	persisted    map[Key]struct{}
	persistedGen int
	builtGen     int
	// persistedIndices maps a parent info key to the sorted child indices that
	// stay mounted.
	persistedIndices map[Key][]int
}

// New returns a layout driven by s.
func New(s Strategy, opts Options) *Layout {
	l := &Layout{
		strategy:         s,
		logger:           opts.Logger,
		nodes:            make(map[Key]*Node),
		infos:            make(map[Key]*Info),
		persisted:        make(map[Key]struct{}),
		persistedIndices: make(map[Key][]int),
		builtGen:         -1,
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	return l
}

// =============================================================================
// Inputs
// =============================================================================

func (l *Layout) Strategy() Strategy                    { return l.strategy }
func (l *Layout) Collection() collection.Collection     { return l.coll }
func (l *Layout) LastCollection() collection.Collection { return l.lastColl }
func (l *Layout) VisibleRect() Rect                     { return l.visibleRect }
func (l *Layout) ValidRect() Rect                       { return l.validRect }
func (l *Layout) ContentSize() Size                     { return l.contentSize }
func (l *Layout) LastWidth() float64                    { return l.lastWidth }
func (l *Layout) Logger() *log.Logger                   { return l.logger }

// SetCollection replaces the collection. Call Validate afterwards.
func (l *Layout) SetCollection(c collection.Collection) { l.coll = c }

// SetVisibleRect records the viewport. A width change marks the layout for
// a full relayout at the next Validate; scrolling alone never does.
func (l *Layout) SetVisibleRect(r Rect) {
	if r.Width != l.visibleRect.Width {
		l.sizeChanged = true
	}
	l.visibleRect = r
}

// SetPersistedKeys replaces the keys that stay laid out and visible
// regardless of scroll position (typically the focused key).
func (l *Layout) SetPersistedKeys(keys ...Key) {
	next := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			next[k] = struct{}{}
		}
	}
	if len(next) == len(l.persisted) {
		same := true
		for k := range next {
			if _, ok := l.persisted[k]; !ok {
				same = false
				break
			}
		}
		if same {
			return
		}
	}
	l.persisted = next
	l.persistedGen++
}

// IsPersisted reports whether key is persisted.
func (l *Layout) IsPersisted(key Key) bool {
	_, ok := l.persisted[key]
	return ok
}

// =============================================================================
// Validation
// =============================================================================

// Validate brings the layout up to date with the collection and viewport.
func (l *Layout) Validate(ctx InvalidationContext) {
	start := time.Now()
	if l.sizeChanged {
		ctx.SizeChanged = true
		l.sizeChanged = false
	}
	l.strategy.Invalidate(l, &ctx)

	l.invalidateEverything = ctx.InvalidateEverything || ctx.SizeChanged || ctx.LayoutOptionsChanged
	if l.invalidateEverything {
		l.validRect = l.visibleRect
	}

	l.build()
	if l.invalidateEverything {
		l.dropStale()
	}
	if l.lastColl != nil && l.coll != l.lastColl {
		l.dropDeleted()
	}

	l.lastWidth = l.visibleRect.Width
	l.lastColl = l.coll
	invalidateAll := l.invalidateEverything
	l.invalidateEverything = false

	d := time.Since(start)
	l.logger.Debug("layout validated", "strategy", l.strategy.Name(), "invalidateAll", invalidateAll, "nodes", len(l.nodes), "took", d)
	observability.Layout().OnValidate(l.strategy.Name(), invalidateAll, len(l.nodes), d)
}

func (l *Layout) build() {
	l.pass++
	delete(l.infos, LoaderKey)
	delete(l.infos, EmptyKey)
	if l.coll == nil {
		l.rootNodes, l.contentSize = nil, Size{}
		return
	}
	l.rootNodes, l.contentSize = l.strategy.Build(l)
	// Node positions may have moved; persisted indices are stale.
	l.builtGen = -1
}

// dropStale unpublishes the infos of nodes a full relayout did not rebuild,
// such as rows skipped above the valid rect. The nodes stay cached for their
// last known heights; ensureInfo lays them out again on demand.
func (l *Layout) dropStale() {
	for _, n := range l.nodes {
		if n.pass != l.pass {
			l.dropInfos(n)
			n.ValidRect = Rect{}
			n.pass = 0
		}
	}
}

// dropDeleted forgets every cached node whose key left the collection,
// cells, columns and header rows included.
func (l *Layout) dropDeleted() {
	for k, n := range l.nodes {
		if isReservedKey(k) {
			continue
		}
		if l.coll == nil || l.coll.Item(k) == nil {
			l.dropInfos(n)
			delete(l.nodes, k)
		}
	}
}

func (l *Layout) dropInfos(n *Node) {
	delete(l.infos, n.Info.Key)
	if n.Header != nil {
		delete(l.infos, n.Header.Key)
	}
}

func isReservedKey(k Key) bool {
	switch k {
	case HeaderKey, BodyKey, LoaderKey, EmptyKey:
		return true
	}
	return false
}

// layoutIfNeeded extends the valid rect to cover rect, relaying out when it
// does not already, and makes sure every persisted key has an info.
func (l *Layout) layoutIfNeeded(rect Rect) {
	if l.lastColl == nil {
		return
	}
	if !l.validRect.Contains(rect) {
		start := time.Now()
		l.validRect = l.validRect.Union(rect)
		l.build()
		observability.Layout().OnRelayout(l.strategy.Name(), time.Since(start))
	}
	for k := range l.persisted {
		if l.ensureInfo(k) {
			break
		}
	}
}

// ensureInfo lays out the whole collection when key has no info yet, which
// happens for keys far outside the area built so far (Home/End navigation).
func (l *Layout) ensureInfo(key Key) bool {
	if _, ok := l.infos[key]; ok || l.lastColl == nil {
		return false
	}
	if l.validRect.Contains(NewRect(0, 0, l.contentSize.Width, l.contentSize.Height)) {
		return false
	}
	l.validRect = NewRect(0, 0, math.Inf(1), math.Inf(1))
	l.build()
	l.validRect = NewRect(0, 0, l.contentSize.Width, l.contentSize.Height)
	return true
}

// =============================================================================
// Node cache (strategy helpers)
// =============================================================================

// IsValid reports whether the cached node for n can be reused at y.
func (l *Layout) IsValid(n *collection.Node, y float64) bool {
	cached, ok := l.nodes[n.Key]
	if l.invalidateEverything || !ok || cached.Source != n || cached.pass == 0 {
		return false
	}
	origin := cached.Info
	if cached.Header != nil {
		origin = cached.Header
	}
	return origin.Rect.Y == y && cached.ValidRect.Contains(cached.Info.Rect.Intersection(l.validRect))
}

// Child returns the layout node for n at (x, y), reusing the cached one when
// valid and building (and caching) a new one otherwise.
func (l *Layout) Child(n *collection.Node, x, y float64, parentKey Key) *Node {
	if l.IsValid(n, y) {
		return l.nodes[n.Key]
	}
	ln := l.strategy.BuildNode(l, n, x, y)
	ln.Source = n
	ln.Info.ParentKey = parentKey
	l.Store(n.Key, ln)
	return ln
}

// Store caches ln under key and publishes its infos.
func (l *Layout) Store(key Key, ln *Node) {
	ln.pass = l.pass
	l.infos[ln.Info.Key] = ln.Info
	if ln.Header != nil {
		l.infos[ln.Header.Key] = ln.Header
	}
	l.nodes[key] = ln
}

// Cached returns the cached layout node for key.
func (l *Layout) Cached(key Key) (*Node, bool) {
	n, ok := l.nodes[key]
	return n, ok
}

// SetInfo publishes an info that has no layout node of its own (loaders,
// empty state) or replaces a copied one.
func (l *Layout) SetInfo(info *Info) { l.infos[info.Key] = info }

// EstimatedHeight returns the height to use for n. A positive fixed height
// always wins. Otherwise the height of the previous layout is reused, and is
// flagged as estimated when the width or the node changed or it was already
// an estimate; nodes never laid out get estimate.
func (l *Layout) EstimatedHeight(n *collection.Node, width, fixed, estimate float64) (float64, bool) {
	if fixed > 0 {
		return fixed, false
	}
	prev, ok := l.nodes[n.Key]
	if !ok {
		return estimate, true
	}
	estimated := n != prev.Source || width != prev.Info.Rect.Width || prev.Info.EstimatedSize
	return prev.Info.Rect.Height, estimated
}

// =============================================================================
// Queries
// =============================================================================

// Info returns the info for key, laying out more of the collection if
// needed.
func (l *Layout) Info(key Key) (*Info, bool) {
	l.ensureInfo(key)
	i, ok := l.infos[key]
	return i, ok
}

// ItemRect returns the vertical extent of key. With PageHeight it lets
// keyboard delegates page by viewport height.
func (l *Layout) ItemRect(key Key) (y, height float64, ok bool) {
	info, ok := l.Info(key)
	if !ok {
		return 0, 0, false
	}
	return info.Rect.Y, info.Rect.Height, true
}

// PageHeight returns the height of the visible rect.
func (l *Layout) PageHeight() float64 { return l.visibleRect.Height }

var _ collection.ItemRects = (*Layout)(nil)

// RootNodes returns the root layout nodes of the last build.
func (l *Layout) RootNodes() []*Node { return l.rootNodes }

// VisibleInfos returns every info intersecting rect plus the persisted and
// sticky ones, without duplicates, in render order.
func (l *Layout) VisibleInfos(rect Rect) []*Info {
	// Snap to row boundaries so the set of visible rows does not depend on
	// sub-row scroll offsets. Point queries (hit testing) are left alone.
	if rect.Height > 1 {
		pitch := l.strategy.RowPitch()
		if pitch > 0 {
			y := math.Floor(rect.Y/pitch) * pitch
			rect.Height = math.Ceil((rect.MaxY()-y)/pitch) * pitch
			rect.Y = y
		}
	}
	l.layoutIfNeeded(rect)
	l.buildPersistedIndices()

	out := l.strategy.AppendVisible(l, rect, nil)
	observability.Layout().OnVisibleQuery(l.strategy.Name(), len(out))
	return out
}

// PersistedIndices returns the sorted child indices kept visible under the
// info with key parent.
func (l *Layout) PersistedIndices(parent Key) ([]int, bool) {
	idx, ok := l.persistedIndices[parent]
	return idx, ok
}

// buildPersistedIndices maps every ancestor of a persisted key to the child
// index to keep, rebuilt only when the persisted keys or the build changed.
func (l *Layout) buildPersistedIndices() {
	if l.builtGen == l.persistedGen {
		return
	}
	l.builtGen = l.persistedGen
	clear(l.persistedIndices)

	baseline := func(Key) []int { return nil }
	if b, ok := l.strategy.(interface{ StickyIndices() []int }); ok {
		baseline = func(k Key) []int {
			n := l.coll.Item(k)
			if n != nil && (n.Type == collection.TypeCell || n.Type == collection.TypeColumn) {
				return append([]int(nil), b.StickyIndices()...)
			}
			return nil
		}
	}

	for key := range l.persisted {
		info := l.infos[key]
		for info != nil && info.ParentKey != "" {
			node, ok := l.nodes[info.Key]
			if !ok {
				break
			}
			indices, ok := l.persistedIndices[info.ParentKey]
			if !ok {
				indices = baseline(info.Key)
			}
			if !slices.Contains(indices, node.Index) {
				indices = append(indices, node.Index)
			}
			l.persistedIndices[info.ParentKey] = indices
			info = l.infos[info.ParentKey]
		}
	}
	for _, v := range l.persistedIndices {
		slices.Sort(v)
	}
}

// =============================================================================
// Measurement
// =============================================================================

// UpdateItemSize records a measured size for key. It returns true when the
// height changed, in which case the caller should Validate again.
func (l *Layout) UpdateItemSize(key Key, size Size) bool {
	info, ok := l.infos[key]
	if !ok {
		return false
	}
	if info.Rect.Height == size.Height {
		if info.EstimatedSize {
			cp := info.Copy()
			cp.EstimatedSize = false
			l.replaceInfo(key, info, cp)
		}
		return false
	}

	cp := info.Copy()
	cp.EstimatedSize = false
	cp.Rect.Height = size.Height
	l.replaceInfo(key, info, cp)

	// Invalidate the node and its ancestors so the next build moves
	// everything after it.
	l.invalidateNode(key, info, cp)
	for k := info.ParentKey; k != ""; {
		l.invalidateNode(k, info, cp)
		parent, ok := l.infos[k]
		if !ok {
			break
		}
		k = parent.ParentKey
	}
	return true
}

func (l *Layout) replaceInfo(key Key, old, cp *Info) {
	l.infos[key] = cp
	if n, ok := l.nodes[key]; ok {
		if n.Header == old {
			n.Header = cp
		} else if n.Info == old {
			n.Info = cp
		}
	}
}

func (l *Layout) invalidateNode(key Key, old, cp *Info) {
	n, ok := l.nodes[key]
	if !ok {
		return
	}
	n.ValidRect = Rect{}
	if n.Header == old {
		n.Header = cp
	} else if n.Info == old {
		n.Info = cp
	}
}

// =============================================================================
// Drag and drop
// =============================================================================

// DropEdge is the band at the top and bottom of an item that selects a
// before or after target even when dropping on the item is allowed.
const DropEdge = 10

// DropTargetFromPoint returns the drop target under a viewport-relative
// point. isValid reports whether the drop target would be accepted.
func (l *Layout) DropTargetFromPoint(x, y float64, isValid func(dnd.Target) bool) dnd.Target {
	p := Point{X: x + l.visibleRect.X, Y: y + l.visibleRect.Y}
	key, ry := l.strategy.HitTest(l, p)
	if key == "" || l.coll == nil || l.coll.Size() == 0 {
		return dnd.Root()
	}
	info, ok := l.Info(key)
	if !ok {
		return dnd.Root()
	}
	return classifyDrop(key, info.Rect, ry, isValid)
}

// classifyDrop picks before, on or after for a point at y within rect.
func classifyDrop(key Key, rect Rect, y float64, isValid func(dnd.Target) bool) dnd.Target {
	target := dnd.Item(key, dnd.On)
	before := dnd.Item(key, dnd.Before)
	after := dnd.Item(key, dnd.After)

	if !isValid(target) {
		if y <= rect.Y+rect.Height/2 && isValid(before) {
			return before
		}
		if isValid(after) {
			return after
		}
		return target
	}
	if y <= rect.Y+DropEdge && isValid(before) {
		return before
	}
	if y >= rect.MaxY()-DropEdge && isValid(after) {
		return after
	}
	return target
}

// DropIndicatorInfo returns the info of the indicator drawn for target: a
// thin line between items for before/after, the item rect for on.
func (l *Layout) DropIndicatorInfo(target dnd.Target, thickness float64) (*Info, bool) {
	if target.Type != dnd.TargetItem {
		return nil, false
	}
	item, ok := l.Info(target.Key)
	if !ok {
		return nil, false
	}
	r := item.Rect
	switch target.Position {
	case dnd.Before:
		r = NewRect(r.X, r.Y-thickness/2, r.Width, thickness)
	case dnd.After:
		r = NewRect(r.X, r.MaxY()-thickness/2, r.Width, thickness)
	}
	return &Info{
		Key:       target.Key + ":" + Key(target.Position),
		Type:      TypeDropIndicator,
		ParentKey: item.ParentKey,
		Rect:      r,
		ZIndex:    item.ZIndex + 1,
	}, true
}

// =============================================================================
// Helpers
// =============================================================================

// binarySearch returns the index of the node whose extent along the axis
// contains v, or the nearest valid index.
func binarySearch(nodes []*Node, v float64, vertical bool) int {
	lo, hi := 0, len(nodes)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		r := nodes[mid].Info.Rect
		start, end := r.X, r.MaxX()
		if vertical {
			start, end = r.Y, r.MaxY()
		}
		switch {
		case end <= v:
			lo = mid + 1
		case start > v:
			hi = mid - 1
		default:
			return mid
		}
	}
	return max(0, min(len(nodes)-1, lo))
}
