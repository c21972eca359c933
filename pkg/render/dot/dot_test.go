package dot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/grid"
)

func fruits() *collection.ListCollection {
	return collection.NewList(
		collection.Section("citrus", "Citrus",
			collection.Item("orange", "Orange"),
			collection.Item("lemon", "Lemon"),
		),
		collection.Item("apple", "Apple"),
		collection.Loader("more"),
	)
}

func TestToDOT(t *testing.T) {
	got := ToDOT(fruits(), Options{})

	for _, want := range []string{
		`"citrus" [label="Citrus", shape=folder, fillcolor=whitesmoke];`,
		`"apple" [label="Apple"];`,
		`"more" [label="more", style="rounded,filled,dashed", fillcolor=lightgrey];`,
		`"citrus" -> "orange";`,
		`"citrus" -> "lemon";`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, got)
		}
	}
	if strings.Contains(got, `-> "apple"`) {
		t.Error("top-level nodes should have no incoming edge")
	}
}

func TestToDOTHighlights(t *testing.T) {
	got := ToDOT(fruits(), Options{
		Selected: func(k collection.Key) bool { return k == "apple" },
		Focused:  "lemon",
	})
	if !strings.Contains(got, `"apple" [label="Apple", fillcolor=lightblue];`) {
		t.Errorf("selected node not filled:\n%s", got)
	}
	if !strings.Contains(got, `"lemon" [label="Lemon", penwidth=3];`) {
		t.Errorf("focused node not outlined:\n%s", got)
	}
}

func TestToDOTDetailed(t *testing.T) {
	got := ToDOT(fruits(), Options{Detailed: true})
	if !strings.Contains(got, `label="Lemon\ntype: item\nindex: 1\nlevel: 1"`) {
		t.Errorf("detailed label missing:\n%s", got)
	}
}

func TestToDOTTableCells(t *testing.T) {
	tbl := grid.NewTable(
		[]grid.ColumnSpec{{Key: "name", Text: "Name"}},
		[]grid.RowSpec{{Key: "r1", Cells: []grid.CellSpec{{Text: "One"}}}},
		grid.TableOptions{},
	)

	rowsOnly := ToDOT(tbl, Options{})
	if strings.Contains(rowsOnly, `"r1/name"`) {
		t.Error("cells should be omitted by default")
	}
	if !strings.Contains(rowsOnly, `"r1"`) {
		t.Error("rows should be present")
	}

	withCells := ToDOT(tbl, Options{Cells: true})
	if !strings.Contains(withCells, `"r1" -> "r1/name";`) {
		t.Errorf("cell edge missing:\n%s", withCells)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := normalizeViewBox(in)
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if string(got) != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(fruits(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Citrus")) {
		t.Errorf("RenderSVG() output does not look like the diagram: %.200s", svg)
	}
}
