package grid

import (
	"fmt"

	"github.com/matzehuels/gridkit/pkg/collection"
)

type Key = collection.Key

// Synthetic column keys added by TableOptions.
const (
	SelectionColumnKey Key = "__selection__"
	DragColumnKey      Key = "__drag__"

	headKey Key = "__head__"
	bodyKey Key = "__body__"
)

// ColumnSpec describes a table column. A column with Children is a group
// header spanning its leaf columns.
type ColumnSpec struct {
	Key      Key
	Text     string
	Rendered any
	Props    collection.Props
	Children []ColumnSpec
}

// CellSpec describes one cell of a row. An empty Key defaults to
// "<row>/<column>".
type CellSpec struct {
	Key      Key
	Text     string
	Rendered any
	Colspan  int
}

// RowSpec describes a body row. Children are nested rows shown when the row
// is expanded (tree grids).
type RowSpec struct {
	Key      Key
	Text     string
	Rendered any
	Cells    []CellSpec
	Children []RowSpec
}

// TableOptions controls the synthetic columns and row expansion of a table.
type TableOptions struct {
	ShowSelectionCheckboxes bool
	ShowDragButtons         bool
	Expanded                Expansion
}

// TableCollection is an immutable table snapshot: a header of (possibly
// nested) column rows and a body of rows with cells. Siblings are linked
// through PrevKey/NextKey, so KeyAfter on a row returns the next row and on
// a cell the next cell.
//
// The Collection methods Keys, FirstKey, LastKey and Size cover body rows
// only; Item resolves every node.
type TableCollection struct {
	nodes      map[Key]*collection.Node
	head       *collection.Node
	body       *collection.Node
	headerRows []*collection.Node
	columns    []*collection.Node
	rows       []*collection.Node
	rowKeys    []Key
	rowHeaders []Key
}

// NewTable builds a table from column and row specs. Rows nested under
// collapsed rows are left out.
func NewTable(cols []ColumnSpec, rows []RowSpec, opts TableOptions) *TableCollection {
	t := &TableCollection{nodes: make(map[Key]*collection.Node)}

	var lead []ColumnSpec
	if opts.ShowDragButtons {
		lead = append(lead, ColumnSpec{Key: DragColumnKey, Props: collection.Props{IsDragButtonCell: true}})
	}
	if opts.ShowSelectionCheckboxes {
		lead = append(lead, ColumnSpec{Key: SelectionColumnKey, Props: collection.Props{IsSelectionCell: true}})
	}
	t.buildHeader(append(lead, cols...))
	t.buildBody(rows, opts)
	return t
}

// =============================================================================
// Header
// =============================================================================

type columnPath []*ColumnSpec

func leafPaths(cols []ColumnSpec, prefix columnPath, out []columnPath) []columnPath {
	for i := range cols {
		p := append(append(columnPath{}, prefix...), &cols[i])
		if len(cols[i].Children) == 0 {
			out = append(out, p)
			continue
		}
		out = leafPaths(cols[i].Children, p, out)
	}
	return out
}

// buildHeader lays nested columns out in header rows. Leaf columns always
// sit in the last row; groups sit at their depth; gaps are filled with
// placeholders so that every header row covers every leaf column.
func (t *TableCollection) buildHeader(cols []ColumnSpec) {
	paths := leafPaths(cols, nil, nil)
	depth := 1
	for _, p := range paths {
		depth = max(depth, len(p))
	}

	var headerKeys []Key
	for r := 0; r < depth; r++ {
		rowKey := Key(fmt.Sprintf("__headerrow_%d", r))
		var row []*collection.Node
		for i, p := range paths {
			var spec *ColumnSpec
			switch {
			case r == depth-1:
				spec = p[len(p)-1]
			case r < len(p)-1:
				spec = p[r]
			}

			if n := lastOf(row); n != nil && i > 0 {
				samePlaceholder := spec == nil && n.Type == collection.TypePlaceholder
				sameGroup := spec != nil && r < depth-1 && n.Type == collection.TypeColumn && n.Key == spec.Key
				if samePlaceholder || sameGroup {
					n.Colspan++
					continue
				}
			}

			n := &collection.Node{ParentKey: rowKey, Index: len(row), ColIndex: i, Colspan: 1, Level: r}
			if spec == nil {
				n.Type = collection.TypePlaceholder
				n.Key = Key(fmt.Sprintf("__placeholder_%d_%d", r, i))
			} else {
				n.Type = collection.TypeColumn
				n.Key = spec.Key
				n.TextValue = spec.Text
				n.Rendered = spec.Rendered
				n.Props = spec.Props
				n.HasChildNodes = len(spec.Children) > 0
			}
			row = append(row, n)
		}

		keys := link(row)
		for _, n := range row {
			t.nodes[n.Key] = n
			if r == depth-1 {
				n.Index = len(t.columns)
				t.columns = append(t.columns, n)
			}
		}
		hr := (&collection.Node{Type: collection.TypeHeaderRow, Key: rowKey, ParentKey: headKey, Index: r}).WithChildKeys(keys)
		t.nodes[rowKey] = hr
		t.headerRows = append(t.headerRows, hr)
		headerKeys = append(headerKeys, rowKey)
	}
	link(t.headerRows)
	t.head = (&collection.Node{Type: collection.TypeTableHeader, Key: headKey}).WithChildKeys(headerKeys)
	t.nodes[headKey] = t.head

	for _, c := range t.columns {
		if c.Props.IsRowHeader {
			t.rowHeaders = append(t.rowHeaders, c.Key)
		}
	}
	if len(t.rowHeaders) == 0 {
		for _, c := range t.columns {
			if !c.Props.IsSelectionCell && !c.Props.IsDragButtonCell {
				t.rowHeaders = append(t.rowHeaders, c.Key)
				break
			}
		}
	}
}

// =============================================================================
// Body
// =============================================================================

type flatRow struct {
	spec  *RowSpec
	level int
}

func flattenRows(rows []RowSpec, level int, exp Expansion, out []flatRow) []flatRow {
	for i := range rows {
		out = append(out, flatRow{spec: &rows[i], level: level})
		if len(rows[i].Children) > 0 && exp.Has(rows[i].Key) {
			out = flattenRows(rows[i].Children, level+1, exp, out)
		}
	}
	return out
}

func (t *TableCollection) buildBody(specs []RowSpec, opts TableOptions) {
	isRowHeader := make(map[Key]bool, len(t.rowHeaders))
	for _, k := range t.rowHeaders {
		isRowHeader[k] = true
	}

	for i, fr := range flattenRows(specs, 0, opts.Expanded, nil) {
		rs := fr.spec
		row := &collection.Node{
			Type:          collection.TypeRow,
			Key:           rs.Key,
			ParentKey:     bodyKey,
			Index:         i,
			Level:         fr.level,
			HasChildNodes: len(rs.Children) > 0,
			IsExpanded:    len(rs.Children) > 0 && opts.Expanded.Has(rs.Key),
			TextValue:     rs.Text,
			Rendered:      rs.Rendered,
		}

		var lead []CellSpec
		if opts.ShowDragButtons {
			lead = append(lead, CellSpec{})
		}
		if opts.ShowSelectionCheckboxes {
			lead = append(lead, CellSpec{})
		}
		var cells []*collection.Node
		col := 0
		for ci, cs := range append(lead, rs.Cells...) {
			cell := &collection.Node{
				Type:      collection.TypeCell,
				Key:       cs.Key,
				ParentKey: rs.Key,
				Index:     ci,
				Level:     fr.level,
				ColIndex:  col,
				Colspan:   max(cs.Colspan, 1),
				TextValue: cs.Text,
				Rendered:  cs.Rendered,
			}
			if col < len(t.columns) {
				c := t.columns[col]
				cell.Props.IsSelectionCell = c.Props.IsSelectionCell
				cell.Props.IsDragButtonCell = c.Props.IsDragButtonCell
				cell.Props.IsRowHeader = isRowHeader[c.Key]
				if cell.Key == "" {
					cell.Key = rs.Key + "/" + c.Key
				}
				if row.TextValue == "" && cell.Props.IsRowHeader {
					row.TextValue = cs.Text
				}
			}
			if cell.Key == "" {
				cell.Key = Key(fmt.Sprintf("%s/%d", rs.Key, ci))
			}
			col += cell.Colspan
			cells = append(cells, cell)
		}

		row = row.WithChildKeys(link(cells))
		for _, c := range cells {
			t.nodes[c.Key] = c
		}
		t.nodes[row.Key] = row
		t.rows = append(t.rows, row)
	}

	t.rowKeys = link(t.rows)
	t.body = (&collection.Node{Type: collection.TypeTableBody, Key: bodyKey, Index: 1}).WithChildKeys(t.rowKeys)
	t.nodes[bodyKey] = t.body
	t.head.NextKey = bodyKey
	t.body.PrevKey = headKey
}

// link sets sibling pointers on freshly built nodes and returns their keys.
func link(nodes []*collection.Node) []Key {
	keys := make([]Key, len(nodes))
	for i, n := range nodes {
		keys[i] = n.Key
		if i > 0 {
			n.PrevKey = nodes[i-1].Key
			nodes[i-1].NextKey = n.Key
		}
	}
	return keys
}

func lastOf(nodes []*collection.Node) *collection.Node {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[len(nodes)-1]
}

// =============================================================================
// Collection
// =============================================================================

func (t *TableCollection) Size() int                      { return len(t.rows) }
func (t *TableCollection) Item(key Key) *collection.Node  { return t.nodes[key] }
func (t *TableCollection) Keys() []Key                    { return t.rowKeys }
func (t *TableCollection) Nodes() []*collection.Node      { return []*collection.Node{t.head, t.body} }
func (t *TableCollection) ColumnCount() int               { return len(t.columns) }
func (t *TableCollection) Columns() []*collection.Node    { return t.columns }
func (t *TableCollection) HeaderRows() []*collection.Node { return t.headerRows }
func (t *TableCollection) BodyRows() []*collection.Node   { return t.rows }
func (t *TableCollection) Head() *collection.Node         { return t.head }
func (t *TableCollection) Body() *collection.Node         { return t.body }
func (t *TableCollection) RowHeaderColumnKeys() []Key     { return t.rowHeaders }

// Rows returns header rows followed by body rows.
func (t *TableCollection) Rows() []*collection.Node {
	out := make([]*collection.Node, 0, len(t.headerRows)+len(t.rows))
	out = append(out, t.headerRows...)
	return append(out, t.rows...)
}

func (t *TableCollection) FirstKey() Key {
	if len(t.rows) == 0 {
		return ""
	}
	return t.rows[0].Key
}

func (t *TableCollection) LastKey() Key {
	if len(t.rows) == 0 {
		return ""
	}
	return t.rows[len(t.rows)-1].Key
}

func (t *TableCollection) KeyAfter(key Key) Key {
	if n := t.nodes[key]; n != nil {
		return n.NextKey
	}
	return ""
}

func (t *TableCollection) KeyBefore(key Key) Key {
	if n := t.nodes[key]; n != nil {
		return n.PrevKey
	}
	return ""
}

func (t *TableCollection) Children(key Key) []*collection.Node {
	if key == "" {
		return t.Nodes()
	}
	n := t.nodes[key]
	if n == nil {
		return nil
	}
	return collection.NodesFor(t, n.ChildKeys())
}

var _ Collection = (*TableCollection)(nil)
