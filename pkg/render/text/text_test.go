package text

import (
	"strings"
	"testing"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/columns"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/layout"
)

func snapshot(t *testing.T, c collection.Collection, s layout.Strategy, visible layout.Rect) layout.Snapshot {
	t.Helper()
	l := layout.New(s, layout.Options{})
	l.SetCollection(c)
	l.SetVisibleRect(visible)
	l.Validate(layout.InvalidationContext{})
	return l.Snapshot()
}

func TestRenderTable(t *testing.T) {
	tbl := grid.NewTable(
		[]grid.ColumnSpec{
			{Key: "name", Text: "Name", Props: collection.Props{IsRowHeader: true}},
			{Key: "size", Text: "Size"},
		},
		[]grid.RowSpec{
			{Key: "src", Cells: []grid.CellSpec{{Text: "src"}, {Text: "-"}}, Children: []grid.RowSpec{
				{Key: "main", Cells: []grid.CellSpec{{Text: "main.go"}, {Text: "1 KB"}}},
			}},
			{Key: "readme", Cells: []grid.CellSpec{{Text: "README.markdown"}, {Text: "3 KB"}}},
		},
		grid.TableOptions{ShowSelectionCheckboxes: true, Expanded: grid.Expand("src")},
	)
	strategy := layout.NewTableStrategy(layout.TableOptions{
		RowHeight:     30,
		HeadingHeight: 20,
		Columns:       columnsOpts(),
	})
	snap := snapshot(t, tbl, strategy, layout.NewRect(0, 0, 230, 200))

	got := Render(tbl, snap, Options{
		CharWidth: 10,
		Focused:   "main",
		Selected:  func(k collection.Key) bool { return k == "readme" },
	})
	want := strings.Join([]string{
		"      | Name       | Size      ",
		"  -----------------------------",
		"  [ ] | ▾ src      | -         ",
		"> [ ] |   main.go  | 1 KB      ",
		"  [x] | README.ma… | 3 KB      ",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func columnsOpts() columns.Options {
	return columns.Options{DefaultWidth: func(s columns.Spec) columns.Size {
		if s.Key == grid.SelectionColumnKey {
			return columns.Px(30)
		}
		return columns.Fr(1)
	}}
}

func TestRenderList(t *testing.T) {
	list := collection.NewList(
		collection.Section("citrus", "Citrus",
			collection.Item("orange", "Orange"),
		),
		collection.Item("apple", "Apple"),
	)
	strategy := layout.NewListStrategy(layout.ListOptions{RowHeight: 20, HeadingHeight: 20, IsLoading: true, LoaderHeight: 20})
	snap := snapshot(t, list, strategy, layout.NewRect(0, 0, 200, 200))

	got := Render(list, snap, Options{CharWidth: 10, Focused: "apple", Selected: func(k collection.Key) bool { return k == "orange" }})
	want := strings.Join([]string{
		"  CITRUS",
		"    * Orange",
		"> Apple",
		"  loading...",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}
