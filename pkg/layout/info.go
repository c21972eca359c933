package layout

import (
	"github.com/matzehuels/gridkit/pkg/collection"
)

type Key = collection.Key

// Layout-only info types. Collection node types are used for everything
// else.
const (
	TypeRowGroup      collection.NodeType = "rowgroup"
	TypeHeaderGroup   collection.NodeType = "header"
	TypeEmpty         collection.NodeType = "empty"
	TypeDropIndicator collection.NodeType = "dropindicator"
)

// Reserved info keys.
const (
	HeaderKey Key = "header"
	BodyKey   Key = "body"
	LoaderKey Key = "loader"
	EmptyKey  Key = "empty"
)

// Info is the computed geometry and render metadata of one node.
//
// Infos are treated as immutable once published by a build. A change (for
// example a measured height) produces a copy, so callers can detect changes
// by pointer comparison.
type Info struct {
	Key       Key                 `json:"key"`
	Type      collection.NodeType `json:"type"`
	ParentKey Key                 `json:"parent_key,omitempty"`
	Rect      Rect                `json:"rect"`
	ZIndex    int                 `json:"z_index"`
	Level     int                 `json:"level,omitempty"`

	IsSticky bool `json:"is_sticky,omitempty"`
	// EstimatedSize is set when the height was guessed rather than measured.
	EstimatedSize bool `json:"estimated_size,omitempty"`
	AllowOverflow bool `json:"allow_overflow,omitempty"`
}

// Copy returns a copy of i.
func (i *Info) Copy() *Info {
	c := *i
	return &c
}

// Node is a cached layout subtree.
type Node struct {
	Info *Info
	// Header is the header info of a section.
	Header   *Info
	Children []*Node
	// ValidRect is the part of the node laid out against the valid rect at
	// build time.
	ValidRect Rect
	// Index is the position of the node within its parent's Children.
	Index int
	// Source is the collection node the layout was built from. A different
	// pointer means the node changed.
	Source *collection.Node

	pass int
}
