// Package render groups the output renderers for collections and layout
// snapshots.
//
//   - [dot]: Graphviz diagrams of a collection's node tree
//   - [text]: fixed-width terminal text of a table or list snapshot
//
// Renderers never mutate collections or layouts; they read immutable
// snapshots and return bytes.
//
// [dot]: github.com/matzehuels/gridkit/pkg/render/dot
// [text]: github.com/matzehuels/gridkit/pkg/render/text
package render
