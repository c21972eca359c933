package grid

import (
	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/selection"
)

// TreeGridOptions configures a TreeGridState.
type TreeGridOptions struct {
	State            StateOptions
	Table            TableOptions
	OnExpandedChange func(Expansion)
}

// TreeGridState is a grid state over hierarchical table rows. Expanding or
// collapsing a row rebuilds the table with the visible rows only.
type TreeGridState struct {
	*State

	columns []ColumnSpec
	rows    []RowSpec
	opts    TableOptions
	parents map[Key]Key
	all     []Key

	onExpandedChange func(Expansion)
}

// NewTreeGridState returns a tree grid state.
func NewTreeGridState(cols []ColumnSpec, rows []RowSpec, opts TreeGridOptions) *TreeGridState {
	s := &TreeGridState{columns: cols, opts: opts.Table, onExpandedChange: opts.OnExpandedChange}
	s.indexRows(rows)
	s.State = NewState(NewTable(cols, rows, s.opts), opts.State)
	return s
}

func (s *TreeGridState) indexRows(rows []RowSpec) {
	s.rows = rows
	s.parents = make(map[Key]Key)
	s.all = nil
	var walk func([]RowSpec, Key)
	walk = func(rs []RowSpec, parent Key) {
		for _, r := range rs {
			s.parents[r.Key] = parent
			if len(r.Children) > 0 {
				s.all = append(s.all, r.Key)
			}
			walk(r.Children, r.Key)
		}
	}
	walk(rows, "")
}

// Table returns the current visible table.
func (s *TreeGridState) Table() *TableCollection { return s.coll.(*TableCollection) }

// ExpandedKeys returns the current expansion.
func (s *TreeGridState) ExpandedKeys() Expansion { return s.opts.Expanded }

// ToggleKey expands or collapses the row key.
func (s *TreeGridState) ToggleKey(key Key) {
	s.SetExpandedKeys(s.opts.Expanded.Toggle(key, s.all))
}

// SetExpandedKeys replaces the expansion.
func (s *TreeGridState) SetExpandedKeys(e Expansion) {
	s.opts.Expanded = e
	s.rebuild()
	if s.onExpandedChange != nil {
		s.onExpandedChange(e)
	}
}

// SetShowSelectionCheckboxes adds or removes the selection checkbox column.
func (s *TreeGridState) SetShowSelectionCheckboxes(show bool) {
	if s.opts.ShowSelectionCheckboxes == show {
		return
	}
	s.opts.ShowSelectionCheckboxes = show
	s.rebuild()
}

// ShowsSelectionCheckboxes reports whether the checkbox column is present.
func (s *TreeGridState) ShowsSelectionCheckboxes() bool { return s.opts.ShowSelectionCheckboxes }

// SetRows replaces the source rows, keeping expansion, focus and selection.
func (s *TreeGridState) SetRows(rows []RowSpec) {
	s.indexRows(rows)
	s.rebuild()
}

func (s *TreeGridState) rebuild() {
	next := NewTable(s.columns, s.rows, s.opts)

	// Focus inside a collapsed subtree moves to the collapsed ancestor before
	// the generic reassignment runs.
	if focus := s.FocusedKey(); focus != "" && next.Item(focus) == nil {
		rowKey := focus
		if n := s.coll.Item(focus); n != nil && n.Type == collection.TypeCell {
			rowKey = n.ParentKey
		}
		for k := s.parents[rowKey]; k != ""; k = s.parents[k] {
			if next.Item(k) != nil {
				s.sel.SetFocusedKey(k, selection.FocusFirst)
				break
			}
		}
	}
	s.SetCollection(next)
}
