// Package fixture loads collection fixtures from TOML files.
//
// A fixture describes either a table (columns plus nested rows) or a list
// (items and sections), together with selection and expansion settings.
// The CLI and the playground server build their collections from fixtures.
//
// # Format
//
//	title = "Project files"
//	checkboxes = true
//	expanded = ["src"]
//
//	[selection]
//	mode = "multiple"
//	disabled = ["lock"]
//
//	[[columns]]
//	key = "name"
//	title = "Name"
//	width = "2fr"
//	min_width = "120"
//	row_header = true
//	resizable = true
//
//	[[columns]]
//	key = "size"
//	title = "Size"
//	width = "80"
//
//	[[rows]]
//	key = "src"
//	cells = ["src", "-"]
//
//	  [[rows.children]]
//	  key = "main"
//	  cells = ["main.go", "4 KB"]
//
// A list fixture uses [[items]] instead of columns and rows; an item with
// children is a section.
package fixture

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/selection"
)

// Fixture kinds.
const (
	KindTable = "table"
	KindList  = "list"
)

// Fixture is a decoded fixture file.
type Fixture struct {
	Title      string    `toml:"title,omitempty"`
	Checkboxes bool      `toml:"checkboxes,omitempty"`
	Drag       bool      `toml:"drag,omitempty"`
	Loading    bool      `toml:"loading,omitempty"`
	ExpandAll  bool      `toml:"expand_all,omitempty"`
	Expanded   []string  `toml:"expanded,omitempty"`
	Selection  Selection `toml:"selection,omitempty"`
	Columns    []Column  `toml:"columns,omitempty"`
	Rows       []Row     `toml:"rows,omitempty"`
	Items      []Item    `toml:"items,omitempty"`

	raw []byte
}

// Selection holds the selection settings of a fixture.
type Selection struct {
	Mode             string   `toml:"mode,omitempty"`
	Behavior         string   `toml:"behavior,omitempty"`
	Disabled         []string `toml:"disabled,omitempty"`
	DisabledBehavior string   `toml:"disabled_behavior,omitempty"`
	DisallowEmpty    bool     `toml:"disallow_empty,omitempty"`
	Selected         []string `toml:"selected,omitempty"`
}

// Column is a table column. Columns with children are group headers. The
// playground server accepts columns as JSON.
type Column struct {
	Key          string   `toml:"key" json:"key"`
	Title        string   `toml:"title,omitempty" json:"title,omitempty"`
	Width        string   `toml:"width,omitempty" json:"width,omitempty"`
	DefaultWidth string   `toml:"default_width,omitempty" json:"default_width,omitempty"`
	MinWidth     string   `toml:"min_width,omitempty" json:"min_width,omitempty"`
	MaxWidth     string   `toml:"max_width,omitempty" json:"max_width,omitempty"`
	RowHeader    bool     `toml:"row_header,omitempty" json:"row_header,omitempty"`
	Resizable    bool     `toml:"resizable,omitempty" json:"resizable,omitempty"`
	Children     []Column `toml:"children,omitempty" json:"children,omitempty"`
}

// Row is a table body row with one text per leaf column.
type Row struct {
	Key      string   `toml:"key"`
	Text     string   `toml:"text,omitempty"`
	Cells    []string `toml:"cells,omitempty"`
	Children []Row    `toml:"children,omitempty"`
}

// Item is a list item, or a section when it has children.
type Item struct {
	Key      string `toml:"key"`
	Text     string `toml:"text,omitempty"`
	Loader   bool   `toml:"loader,omitempty"`
	Children []Item `toml:"children,omitempty"`
}

// Load reads and parses the fixture at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "fixture %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read fixture %s", path)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return f, nil
}

// Parse decodes and validates fixture data.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFixture, err, "decode fixture")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFixture, "unknown fixture field %q", undecoded[0].String())
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.raw = data
	return &f, nil
}

// Raw returns the source bytes the fixture was parsed from.
func (f *Fixture) Raw() []byte { return f.raw }

// Kind returns KindTable or KindList.
func (f *Fixture) Kind() string {
	if len(f.Columns) > 0 {
		return KindTable
	}
	return KindList
}

// =============================================================================
// Conversion
// =============================================================================

// ColumnSpecs converts the fixture columns to grid column specs.
func (f *Fixture) ColumnSpecs() []grid.ColumnSpec {
	return columnSpecs(f.Columns)
}

func columnSpecs(cols []Column) []grid.ColumnSpec {
	out := make([]grid.ColumnSpec, len(cols))
	for i, c := range cols {
		out[i] = grid.ColumnSpec{
			Key:  grid.Key(c.Key),
			Text: c.Title,
			Props: collection.Props{
				IsRowHeader:    c.RowHeader,
				AllowsResizing: c.Resizable,
				Width:          c.Width,
				DefaultWidth:   c.DefaultWidth,
				MinWidth:       c.MinWidth,
				MaxWidth:       c.MaxWidth,
			},
			Children: columnSpecs(c.Children),
		}
	}
	return out
}

// RowSpecs converts the fixture rows to grid row specs.
func (f *Fixture) RowSpecs() []grid.RowSpec {
	return rowSpecs(f.Rows)
}

func rowSpecs(rows []Row) []grid.RowSpec {
	out := make([]grid.RowSpec, len(rows))
	for i, r := range rows {
		cells := make([]grid.CellSpec, len(r.Cells))
		for j, text := range r.Cells {
			cells[j] = grid.CellSpec{Text: text}
		}
		text := r.Text
		if text == "" && len(r.Cells) > 0 {
			text = r.Cells[0]
		}
		out[i] = grid.RowSpec{
			Key:      grid.Key(r.Key),
			Text:     text,
			Cells:    cells,
			Children: rowSpecs(r.Children),
		}
	}
	return out
}

// ItemSpecs converts the fixture items to collection specs. A trailing
// loader is appended when the fixture is loading.
func (f *Fixture) ItemSpecs() []collection.Spec {
	specs := itemSpecs(f.Items)
	if f.Loading {
		specs = append(specs, collection.Loader("__loader__"))
	}
	return specs
}

func itemSpecs(items []Item) []collection.Spec {
	out := make([]collection.Spec, len(items))
	for i, it := range items {
		switch {
		case it.Loader:
			out[i] = collection.Loader(collection.Key(it.Key))
		case len(it.Children) > 0:
			out[i] = collection.Section(collection.Key(it.Key), it.Text, itemSpecs(it.Children)...)
		default:
			out[i] = collection.Item(collection.Key(it.Key), it.Text)
		}
	}
	return out
}

// Expansion returns the initial expansion of a tree grid.
func (f *Fixture) Expansion() grid.Expansion {
	if f.ExpandAll {
		return grid.ExpandAll()
	}
	return grid.Expand(keys(f.Expanded)...)
}

// TableOptions returns the grid table options of the fixture.
func (f *Fixture) TableOptions() grid.TableOptions {
	return grid.TableOptions{
		ShowSelectionCheckboxes: f.Checkboxes,
		ShowDragButtons:         f.Drag,
		Expanded:                f.Expansion(),
	}
}

// SelectionOptions returns the selection manager options of the fixture.
func (f *Fixture) SelectionOptions() selection.Options {
	opts := selection.Options{
		Mode:                   selection.Mode(f.Selection.Mode),
		Behavior:               selection.Behavior(f.Selection.Behavior),
		DisabledKeys:           keys(f.Selection.Disabled),
		DisabledBehavior:       selection.DisabledBehavior(f.Selection.DisabledBehavior),
		DisallowEmptySelection: f.Selection.DisallowEmpty,
	}
	if len(f.Selection.Selected) > 0 {
		opts.Selected = selection.NewSelection(keys(f.Selection.Selected)...)
	}
	return opts
}

// Table builds the table collection of a table fixture.
func (f *Fixture) Table() *grid.TableCollection {
	return grid.NewTable(f.ColumnSpecs(), f.RowSpecs(), f.TableOptions())
}

// List builds the list collection of a list fixture.
func (f *Fixture) List() *collection.ListCollection {
	return collection.NewList(f.ItemSpecs()...)
}

// Collection builds the collection matching the fixture kind.
func (f *Fixture) Collection() collection.Collection {
	if f.Kind() == KindTable {
		return f.Table()
	}
	return f.List()
}

// TreeGridState returns a tree grid state over the fixture's table.
func (f *Fixture) TreeGridState(opts grid.StateOptions) *grid.TreeGridState {
	opts.Selection = f.SelectionOptions()
	return grid.NewTreeGridState(f.ColumnSpecs(), f.RowSpecs(), grid.TreeGridOptions{
		State: opts,
		Table: f.TableOptions(),
	})
}

func keys(ss []string) []collection.Key {
	out := make([]collection.Key, len(ss))
	for i, s := range ss {
		out[i] = collection.Key(s)
	}
	return out
}
