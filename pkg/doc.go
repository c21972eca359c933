// Package pkg provides the core libraries of gridkit, a headless model of
// virtualized, keyboard-navigable collections.
//
// # Overview
//
// gridkit turns a declarative description of items, sections, and tables
// into an immutable node tree, tracks selection and focus over it, lays it
// out for a viewport, and drives drag and drop. Nothing here draws pixels:
// renderers consume layout snapshots and produce text or diagrams. The pkg
// directory is organized into four main areas:
//
//  1. Model: [collection], [selection], [grid]
//  2. Geometry: [layout], [columns]
//  3. Interaction: [dnd]
//  4. Orchestration: [fixture], [pipeline], [cache], [render]
//
// # Architecture
//
// The typical data flow:
//
//	Fixture (TOML)
//	     ↓
//	[collection] / [grid] (immutable node tree)
//	     ↓
//	[selection] (selection + focus over the tree)
//	     ↓
//	[layout] + [columns] (virtualized rects for a viewport)
//	     ↓
//	[render] (text / DOT / SVG / JSON snapshot)
//
// # Quick Start
//
// Build a list and lay it out for a viewport:
//
//	import (
//	    "github.com/matzehuels/gridkit/pkg/collection"
//	    "github.com/matzehuels/gridkit/pkg/layout"
//	)
//
//	c := collection.NewList(
//	    collection.Item("a", "Apple"),
//	    collection.Section("veg", "Vegetables",
//	        collection.Item("b", "Bean"),
//	    ),
//	)
//	l := layout.New(layout.NewListStrategy(layout.ListOptions{RowHeight: 32}), layout.Options{})
//	l.SetCollection(c)
//	l.SetVisibleRect(layout.NewRect(0, 0, 320, 480))
//	l.Validate(layout.InvalidationContext{})
//	snap := l.Snapshot()
//
// # Main Packages
//
// [collection] - Keyed node trees: items, sections, loaders, and the
// traversal helpers (key before/after, first/last, children).
//
// [selection] - Selection state and the manager applying single, multiple,
// toggle, replace, and range semantics together with focus.
//
// [grid] - Grid and tree-grid state: table collections with header rows,
// column groups, expandable rows, selection checkbox and drag columns, and
// a keyboard delegate for row and cell navigation.
//
// [layout] - Virtualizing layouts with list and table strategies, scroll
// anchoring, persisted keys, and JSON snapshots.
//
// [columns] - Column width resolution for px, percentage, and fr sizes,
// with min/max clamping and interactive resizing.
//
// [dnd] - The drag-and-drop state machine: targets, keyboard and pointer
// navigation, drop operations, and auto-scrolling.
//
// [fixture] - TOML fixtures describing tables and lists.
//
// [pipeline] - Parse → layout → render orchestration with caching.
//
// [cache] - Cache backends (null, file, Redis) and key derivation.
//
// [errors] - Coded errors with user-facing messages and HTTP statuses.
//
// [collection]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/collection
// [selection]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/selection
// [grid]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/grid
// [layout]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/layout
// [columns]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/columns
// [dnd]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/dnd
// [fixture]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/fixture
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/gridkit/pkg/errors
package pkg
