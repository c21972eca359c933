package collection

// Collection is an immutable snapshot of a node tree.
//
// Lookups by unknown keys return nil or the empty key; they never panic.
type Collection interface {
	// Size is the number of content nodes (items, rows, sections); loaders and
	// placeholders are not counted so that an empty-but-loading collection
	// reports zero.
	Size() int
	// Item returns the node for key, or nil.
	Item(key Key) *Node
	// Keys returns every key in document order.
	Keys() []Key
	FirstKey() Key
	LastKey() Key
	// KeyAfter and KeyBefore follow the node's NextKey / PrevKey links.
	KeyAfter(key Key) Key
	KeyBefore(key Key) Key
	// Children returns the direct children of key in order.
	Children(key Key) []*Node
	// Nodes returns the top-level nodes in order.
	Nodes() []*Node
}

// Spec describes a node to be built into a ListCollection.
type Spec struct {
	Type     NodeType
	Key      Key
	Text     string
	Rendered any
	Props    Props
	Children []Spec
}

// Item returns a spec for a list item.
func Item(key Key, text string) Spec {
	return Spec{Type: TypeItem, Key: key, Text: text}
}

// Section returns a spec for a section containing children.
func Section(key Key, title string, children ...Spec) Spec {
	return Spec{Type: TypeSection, Key: key, Text: title, Children: children}
}

// Loader returns a spec for a loading sentinel.
func Loader(key Key) Spec {
	return Spec{Type: TypeLoader, Key: key}
}

// ListCollection is the default Collection implementation. Nodes are linked
// in document order, so KeyAfter on a section returns its first child.
type ListCollection struct {
	nodes    map[Key]*Node
	order    []Key
	topLevel []Key
	size     int
}

// NewList builds a ListCollection from specs. Keys must be unique; a
// repeated key replaces the earlier node.
func NewList(specs ...Spec) *ListCollection {
	c := &ListCollection{nodes: make(map[Key]*Node)}

	var visit func(s Spec, parent Key, level, index int) *Node
	visit = func(s Spec, parent Key, level, index int) *Node {
		n := &Node{
			Type:      s.Type,
			Key:       s.Key,
			ParentKey: parent,
			Index:     index,
			Level:     level,
			TextValue: s.Text,
			Rendered:  s.Rendered,
			Props:     s.Props,
		}
		if _, dup := c.nodes[n.Key]; !dup {
			c.order = append(c.order, n.Key)
		}
		c.nodes[n.Key] = n

		itemIndex := 0
		for _, child := range s.Children {
			cn := visit(child, n.Key, level+1, itemIndex)
			n.childKeys = append(n.childKeys, cn.Key)
			if child.Type == TypeItem {
				itemIndex++
			}
		}
		n.HasChildNodes = len(n.childKeys) > 0
		return n
	}

	itemIndex := 0
	for _, s := range specs {
		n := visit(s, "", 0, itemIndex)
		c.topLevel = append(c.topLevel, n.Key)
		if s.Type == TypeItem {
			itemIndex++
		}
	}

	var prev *Node
	for _, k := range c.order {
		n := c.nodes[k]
		if prev != nil {
			prev.NextKey = k
			n.PrevKey = prev.Key
		}
		if n.Type != TypeLoader && n.Type != TypePlaceholder && n.Type != TypeHeader {
			c.size++
		}
		prev = n
	}
	return c
}

func (c *ListCollection) Size() int { return c.size }

func (c *ListCollection) Item(key Key) *Node { return c.nodes[key] }

func (c *ListCollection) Keys() []Key { return c.order }

func (c *ListCollection) FirstKey() Key {
	if len(c.order) == 0 {
		return ""
	}
	return c.order[0]
}

func (c *ListCollection) LastKey() Key {
	if len(c.order) == 0 {
		return ""
	}
	return c.order[len(c.order)-1]
}

func (c *ListCollection) KeyAfter(key Key) Key {
	if n := c.nodes[key]; n != nil {
		return n.NextKey
	}
	return ""
}

func (c *ListCollection) KeyBefore(key Key) Key {
	if n := c.nodes[key]; n != nil {
		return n.PrevKey
	}
	return ""
}

func (c *ListCollection) Children(key Key) []*Node {
	n := c.nodes[key]
	if n == nil {
		return nil
	}
	return nodesFor(c, n.childKeys)
}

func (c *ListCollection) Nodes() []*Node {
	return nodesFor(c, c.topLevel)
}

func nodesFor(c Collection, keys []Key) []*Node {
	out := make([]*Node, 0, len(keys))
	for _, k := range keys {
		if n := c.Item(k); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// NodesFor resolves keys against c, dropping unknown keys.
func NodesFor(c Collection, keys []Key) []*Node {
	return nodesFor(c, keys)
}

// Has reports whether c contains key. A nil collection contains nothing.
func Has(c Collection, key Key) bool {
	return c != nil && key != "" && c.Item(key) != nil
}

// InsertedKeys returns the keys present in cur but not in old, in cur's
// document order.
func InsertedKeys(old, cur Collection) []Key {
	var out []Key
	for _, k := range cur.Keys() {
		if old == nil || old.Item(k) == nil {
			out = append(out, k)
		}
	}
	return out
}

// RemovedKeys returns the keys present in old but not in cur, in old's
// document order.
func RemovedKeys(old, cur Collection) []Key {
	if old == nil {
		return nil
	}
	var out []Key
	for _, k := range old.Keys() {
		if cur.Item(k) == nil {
			out = append(out, k)
		}
	}
	return out
}

// FirstChild returns the first child of key, or nil.
func FirstChild(c Collection, key Key) *Node {
	kids := c.Children(key)
	if len(kids) == 0 {
		return nil
	}
	return kids[0]
}

// LastChild returns the last child of key, or nil.
func LastChild(c Collection, key Key) *Node {
	kids := c.Children(key)
	if len(kids) == 0 {
		return nil
	}
	return kids[len(kids)-1]
}

// Compile-time interface check.
var _ Collection = (*ListCollection)(nil)
