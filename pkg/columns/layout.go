package columns

import (
	"maps"
	"math"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/errors"
)

// Spec is the declared sizing of a column. Width is a controlled width: when
// set it always wins. DefaultWidth seeds the uncontrolled width, which
// changes as the user resizes the column.
type Spec struct {
	Key            Key
	Width          Size
	DefaultWidth   Size
	MinWidth       Size
	MaxWidth       Size
	AllowsResizing bool
}

// SpecFromNode parses the size props of a column node.
func SpecFromNode(n *collection.Node) (Spec, error) {
	s := Spec{Key: n.Key, AllowsResizing: n.Props.AllowsResizing}
	fields := []struct {
		name string
		raw  string
		dst  *Size
	}{
		{"width", n.Props.Width, &s.Width},
		{"defaultWidth", n.Props.DefaultWidth, &s.DefaultWidth},
		{"minWidth", n.Props.MinWidth, &s.MinWidth},
		{"maxWidth", n.Props.MaxWidth, &s.MaxWidth},
	}
	for _, f := range fields {
		sz, err := ParseSize(f.raw)
		if err != nil {
			return Spec{}, errors.Wrap(errors.ErrCodeInvalidColumnSize, err, "column %q %s", n.Key, f.name)
		}
		*f.dst = sz
	}
	if s.MinWidth.Unit == UnitFr || s.MinWidth.Unit == UnitAuto || s.MaxWidth.Unit == UnitFr || s.MaxWidth.Unit == UnitAuto {
		return Spec{}, errors.New(errors.ErrCodeInvalidColumnSize, "column %q: min and max widths must be px or %%", n.Key)
	}
	return s, nil
}

// SpecsFromNodes parses every column node.
func SpecsFromNodes(nodes []*collection.Node) ([]Spec, error) {
	out := make([]Spec, 0, len(nodes))
	for _, n := range nodes {
		s, err := SpecFromNode(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Options configures a Layout.
type Options struct {
	// DefaultWidth returns the width used for columns without a width, or
	// with width "auto". Nil means 1fr.
	DefaultWidth func(Spec) Size
	// DefaultMinWidth returns the min width used for columns without one.
	// Nil means no minimum.
	DefaultMinWidth func(Spec) Size
}

// Layout tracks the column widths of one table: controlled widths from the
// column specs, uncontrolled widths changed by resizing, and the resolved
// pixel widths for the last table width.
type Layout struct {
	opts         Options
	columns      []Spec
	uncontrolled map[Key]Size
	widths       Widths
	tableWidth   float64
}

// NewLayout returns an empty layout.
func NewLayout(opts Options) *Layout {
	return &Layout{opts: opts, uncontrolled: make(map[Key]Size), widths: make(Widths)}
}

// Columns returns the current column specs.
func (l *Layout) Columns() []Spec { return l.columns }

// SetColumns replaces the column specs. Uncontrolled widths of columns that
// survive are kept; new columns start at their default width.
func (l *Layout) SetColumns(cols []Spec) {
	next := make(map[Key]Size, len(cols))
	for _, c := range cols {
		if c.Width.IsSet() {
			continue
		}
		if w, ok := l.uncontrolled[c.Key]; ok {
			next[c.Key] = w
			continue
		}
		next[c.Key] = l.defaultWidth(c)
	}
	l.columns = cols
	l.uncontrolled = next
}

func (l *Layout) defaultWidth(c Spec) Size {
	if c.DefaultWidth.IsSet() && c.DefaultWidth.Unit != UnitAuto {
		return c.DefaultWidth
	}
	if l.opts.DefaultWidth != nil {
		if w := l.opts.DefaultWidth(c); w.IsSet() {
			return w
		}
	}
	return Fr(1)
}

func (l *Layout) minSize(c Spec) Size {
	if c.MinWidth.IsSet() {
		return c.MinWidth
	}
	if l.opts.DefaultMinWidth != nil {
		return l.opts.DefaultMinWidth(c)
	}
	return Size{}
}

// effective returns the width spec in force for c.
func (l *Layout) effective(c Spec) Size {
	w := c.Width
	if !w.IsSet() {
		w = l.uncontrolled[c.Key]
	}
	if !w.IsSet() || w.Unit == UnitAuto {
		return l.defaultWidth(c)
	}
	return w
}

func (l *Layout) inputs(override map[Key]Size) []Column {
	cols := make([]Column, len(l.columns))
	for i, c := range l.columns {
		w := l.effective(c)
		if o, ok := override[c.Key]; ok && o.IsSet() {
			w = o
		}
		cols[i] = Column{Key: c.Key, Width: w, MinWidth: l.minSize(c), MaxWidth: c.MaxWidth}
	}
	return cols
}

// BuildWidths resolves every column for tableWidth and remembers the result.
func (l *Layout) BuildWidths(tableWidth float64) Widths {
	l.tableWidth = tableWidth
	l.widths = ResolveMap(tableWidth, l.inputs(nil))
	return maps.Clone(l.widths)
}

// Widths returns the widths from the last BuildWidths or ResizeColumn.
func (l *Layout) Widths() Widths { return maps.Clone(l.widths) }

// Ordered returns the last resolved widths in column order.
func (l *Layout) Ordered() []float64 {
	out := make([]float64, len(l.columns))
	for i, c := range l.columns {
		out[i] = l.widths[c.Key]
	}
	return out
}

// Width returns the resolved width of key.
func (l *Layout) Width(key Key) float64 { return l.widths[key] }

func (l *Layout) spec(key Key) (Spec, bool) {
	for _, c := range l.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Spec{}, false
}

// MinWidth returns the resolved min width of key for the last table width.
func (l *Layout) MinWidth(key Key) float64 {
	c, ok := l.spec(key)
	if !ok {
		return 0
	}
	return minWidth(Column{MinWidth: l.minSize(c)}, l.tableWidth)
}

// MaxWidth returns the resolved max width of key (+Inf when unbounded).
func (l *Layout) MaxWidth(key Key) float64 {
	c, _ := l.spec(key)
	return maxWidth(Column{MaxWidth: c.MaxWidth}, l.tableWidth)
}

// ResizeColumn sets key to width (floored and clamped to its bounds).
// Columns before key are frozen at their current pixel widths; columns after
// it keep their declared specs, so flexible columns to the right absorb the
// difference. The returned map holds the new width spec of every column,
// suitable for an OnResize callback. Uncontrolled widths are updated; widths
// of controlled columns are for the caller to apply.
func (l *Layout) ResizeColumn(tableWidth float64, key Key, width float64) map[Key]Size {
	if _, ok := l.spec(key); !ok {
		return nil
	}
	if l.tableWidth != tableWidth || len(l.widths) != len(l.columns) {
		l.BuildWidths(tableWidth)
	}

	width = clamp(math.Max(0, math.Floor(width)), l.MinWidth(key), l.MaxWidth(key))
	out := make(map[Key]Size, len(l.columns))
	frozen := true
	for _, c := range l.columns {
		switch {
		case c.Key == key:
			out[c.Key] = Px(width)
			frozen = false
		case frozen:
			out[c.Key] = Px(l.widths[c.Key])
		default:
			out[c.Key] = l.effective(c)
		}
	}

	for _, c := range l.columns {
		if !c.Width.IsSet() {
			l.uncontrolled[c.Key] = out[c.Key]
		}
	}
	l.widths = ResolveMap(tableWidth, l.inputs(out))
	return out
}
