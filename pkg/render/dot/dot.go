package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridkit/pkg/collection"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the node type, index and level to labels.
	// When false, labels show the text value, or the key when there is none.
	Detailed bool
	// Cells includes table cells and header columns. Without it the tree
	// stops at rows.
	Cells bool
	// Selected reports whether a key is selected. Selected nodes are filled.
	Selected func(collection.Key) bool
	// Focused is outlined with a heavy border.
	Focused collection.Key
}

// ToDOT converts a collection's node tree to Graphviz DOT. Parents point at
// their children; siblings keep collection order.
func ToDOT(c collection.Collection, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	var edges []string
	var walk func(nodes []*collection.Node)
	walk = func(nodes []*collection.Node) {
		for _, n := range nodes {
			if !opts.Cells && (n.Type == collection.TypeCell || n.Type == collection.TypeColumn || n.Type == collection.TypePlaceholder) {
				continue
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(fmtAttrs(n, opts), ", "))
			if n.ParentKey != "" {
				edges = append(edges, fmt.Sprintf("  %q -> %q;\n", n.ParentKey, n.Key))
			}
			walk(c.Children(n.Key))
		}
	}
	walk(c.Nodes())

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *collection.Node, detailed bool) string {
	label := n.TextValue
	if label == "" {
		label = string(n.Key)
	}
	if !detailed {
		return label
	}
	parts := []string{
		fmt.Sprintf("type: %s", n.Type),
		fmt.Sprintf("index: %d", n.Index),
	}
	if n.Level > 0 {
		parts = append(parts, fmt.Sprintf("level: %d", n.Level))
	}
	if n.HasChildNodes && n.Type == collection.TypeRow {
		parts = append(parts, fmt.Sprintf("expanded: %t", n.IsExpanded))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *collection.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	switch n.Type {
	case collection.TypeSection, collection.TypeTableHeader, collection.TypeTableBody, collection.TypeHeaderRow:
		attrs = append(attrs, "shape=folder", "fillcolor=whitesmoke")
	case collection.TypeLoader, collection.TypePlaceholder:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	if opts.Selected != nil && opts.Selected(n.Key) {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if opts.Focused != "" && n.Key == opts.Focused {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
