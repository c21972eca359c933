// Package text renders layout snapshots as fixed-width terminal text.
//
// Pixel geometry from a [layout.Snapshot] is mapped to character cells with
// a fixed character width, and cell text is truncated with display-width
// awareness, so wide runes do not break column alignment.
package text

import (
	"math"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/layout"
)

// DefaultCharWidth is the pixel width of one character cell.
const DefaultCharWidth = 8.0

// Options configures text rendering.
type Options struct {
	// CharWidth maps pixels to characters. Zero uses DefaultCharWidth.
	CharWidth float64
	// Separator is written between table columns. Empty uses " | ".
	Separator string
	// Selected reports whether a row is selected; selection cells render as
	// [x] or [ ].
	Selected func(collection.Key) bool
	// Focused marks the focused row with ">".
	Focused collection.Key
}

func (o Options) withDefaults() Options {
	if o.CharWidth <= 0 {
		o.CharWidth = DefaultCharWidth
	}
	if o.Separator == "" {
		o.Separator = " | "
	}
	if o.Selected == nil {
		o.Selected = func(collection.Key) bool { return false }
	}
	return o
}

// columnSource is implemented by table collections.
type columnSource interface {
	Columns() []*collection.Node
	HeaderRows() []*collection.Node
}

// Render renders the rows visible in snap. Tables render their header rows
// and one line per body row; lists render one line per item, indented by
// level.
func Render(c collection.Collection, snap layout.Snapshot, opts Options) string {
	opts = opts.withDefaults()
	if t, ok := c.(columnSource); ok && snap.ColumnWidths != nil {
		return renderTable(c, t, snap, opts)
	}
	return renderList(c, snap, opts)
}

// rowsOf returns the visible infos of the given types ordered by y.
func rowsOf(snap layout.Snapshot, types ...collection.NodeType) []layout.Info {
	var out []layout.Info
	for _, info := range snap.Infos {
		if slices.Contains(types, info.Type) {
			out = append(out, info)
		}
	}
	slices.SortStableFunc(out, func(a, b layout.Info) int {
		switch {
		case a.Rect.Y < b.Rect.Y:
			return -1
		case a.Rect.Y > b.Rect.Y:
			return 1
		}
		return 0
	})
	return out
}

// =============================================================================
// Tables
// =============================================================================

func renderTable(c collection.Collection, t columnSource, snap layout.Snapshot, opts Options) string {
	cols := t.Columns()
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = max(1, int(math.Round(snap.ColumnWidths[col.Key]/opts.CharWidth)))
	}
	span := func(from, n int) int {
		w := 0
		for i := from; i < from+n && i < len(widths); i++ {
			if i > from {
				w += runewidth.StringWidth(opts.Separator)
			}
			w += widths[i]
		}
		return w
	}

	var b strings.Builder
	for _, hr := range t.HeaderRows() {
		b.WriteString("  ")
		writeCells(&b, c.Children(hr.Key), span, opts, func(n *collection.Node) string { return n.TextValue })
		b.WriteByte('\n')
	}
	b.WriteString("  ")
	for i, w := range widths {
		if i > 0 {
			b.WriteString(strings.Repeat("-", runewidth.StringWidth(opts.Separator)))
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteByte('\n')

	for _, info := range rowsOf(snap, collection.TypeRow) {
		row := c.Item(info.Key)
		if row == nil {
			continue
		}
		b.WriteString(marker(row.Key, opts))
		writeCells(&b, c.Children(row.Key), span, opts, func(n *collection.Node) string {
			return cellText(row, n, opts)
		})
		b.WriteByte('\n')
	}
	if _, ok := snap.Info(layout.LoaderKey); ok {
		b.WriteString("  loading...\n")
	}
	if _, ok := snap.Info(layout.EmptyKey); ok {
		b.WriteString("  (empty)\n")
	}
	return b.String()
}

func writeCells(b *strings.Builder, cells []*collection.Node, span func(int, int) int, opts Options, text func(*collection.Node) string) {
	for i, n := range cells {
		if i > 0 {
			b.WriteString(opts.Separator)
		}
		w := span(n.ColIndex, n.Span())
		b.WriteString(runewidth.FillRight(runewidth.Truncate(text(n), w, "…"), w))
	}
}

func cellText(row, cell *collection.Node, opts Options) string {
	switch {
	case cell.Props.IsSelectionCell:
		if opts.Selected(row.Key) {
			return "[x]"
		}
		return "[ ]"
	case cell.Props.IsDragButtonCell:
		return "::"
	case cell.Props.IsRowHeader:
		return strings.Repeat("  ", row.Level) + disclosure(row) + cell.TextValue
	}
	return cell.TextValue
}

func disclosure(n *collection.Node) string {
	switch {
	case !n.HasChildNodes:
		return ""
	case n.IsExpanded:
		return "▾ "
	}
	return "▸ "
}

func marker(key collection.Key, opts Options) string {
	if key == opts.Focused {
		return "> "
	}
	return "  "
}

// =============================================================================
// Lists
// =============================================================================

func renderList(c collection.Collection, snap layout.Snapshot, opts Options) string {
	width := max(1, int(math.Round(snap.VisibleRect.Width/opts.CharWidth)))

	var b strings.Builder
	for _, info := range rowsOf(snap, collection.TypeItem, collection.TypeHeader, collection.TypeLoader, layout.TypeEmpty) {
		var line string
		switch info.Type {
		case collection.TypeHeader:
			key := info.ParentKey
			if key == "" {
				key = info.Key
			}
			if s := c.Item(key); s != nil {
				line = strings.ToUpper(s.TextValue)
			}
		case collection.TypeLoader:
			line = "loading..."
		case layout.TypeEmpty:
			line = "(empty)"
		default:
			n := c.Item(info.Key)
			if n == nil {
				continue
			}
			check := ""
			if opts.Selected(n.Key) {
				check = "* "
			}
			line = strings.Repeat("  ", n.Level) + check + n.TextValue
		}
		b.WriteString(marker(info.Key, opts))
		b.WriteString(runewidth.Truncate(line, width, "…"))
		b.WriteByte('\n')
	}
	return b.String()
}
