// Package dot renders collection node trees as Graphviz diagrams.
//
// The diagram shows how a collection snapshot is structured: sections and
// their items, a table's header rows and body rows, tree rows nested by
// expansion. It is a debugging aid for fixtures and collection builders.
//
// # Usage
//
//	src := dot.ToDOT(coll, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Selected and focused keys can be highlighted through [Options].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package dot
