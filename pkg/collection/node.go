package collection

// Key identifies a node within a collection snapshot. The empty key means
// "no key" wherever a key is optional (focus, parent, sibling links).
type Key string

// NodeType classifies a node.
type NodeType string

const (
	TypeItem        NodeType = "item"
	TypeCell        NodeType = "cell"
	TypeColumn      NodeType = "column"
	TypeHeaderRow   NodeType = "headerrow"
	TypeRow         NodeType = "row"
	TypeSection     NodeType = "section"
	TypeHeader      NodeType = "header"
	TypeLoader      NodeType = "loader"
	TypePlaceholder NodeType = "placeholder"

	// Table structure nodes. They group header rows and body rows and are
	// never navigable.
	TypeTableHeader NodeType = "tableheader"
	TypeTableBody   NodeType = "tablebody"
)

// IsRow reports whether nodes of this type are navigable rows of a list,
// grid or table body.
func (t NodeType) IsRow() bool { return t == TypeItem || t == TypeRow }

// Props carries the column and cell flags that the layout and column
// packages read. Size fields hold raw specs ("120", "25%", "2fr", "auto")
// that the columns package parses.
type Props struct {
	IsSelectionCell  bool
	IsDragButtonCell bool
	IsRowHeader      bool
	AllowsResizing   bool

	Width        string
	DefaultWidth string
	MinWidth     string
	MaxWidth     string
}

// Node is a typed entry of a collection.
//
// Nodes are created by collection constructors and never modified afterwards.
// Derived collections (tree flattening, table building) create new Node
// values instead of writing to shared ones.
type Node struct {
	Type      NodeType
	Key       Key
	ParentKey Key
	PrevKey   Key
	NextKey   Key

	// Index is the position among siblings of the same kind: row index within
	// the body, cell index within a row, item index within a list.
	Index int
	// Level is the nesting depth (0 for top-level nodes).
	Level int
	// ColIndex is the first column a grid cell occupies; Colspan the number of
	// columns it spans (0 is treated as 1).
	ColIndex int
	Colspan  int

	HasChildNodes bool
	IsExpanded    bool
	TextValue     string

	// Rendered is an opaque content handle owned by the presentation layer.
	Rendered any
	Props    Props

	childKeys []Key
}

// Span returns the number of columns the node occupies (at least 1).
func (n *Node) Span() int {
	if n.Colspan < 1 {
		return 1
	}
	return n.Colspan
}

// ChildKeys returns the keys of the node's direct children in order.
func (n *Node) ChildKeys() []Key {
	return n.childKeys
}

// Clone returns a shallow copy of n that may be modified freely before it is
// handed to a new collection. The child key slice is shared and must not be
// mutated; use WithChildKeys to replace it.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

// WithChildKeys returns a copy of n with the given child keys.
func (n *Node) WithChildKeys(keys []Key) *Node {
	c := n.Clone()
	c.childKeys = keys
	c.HasChildNodes = len(keys) > 0
	return c
}
