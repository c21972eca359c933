package grid

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/selection"
)

// Expansion is an immutable set of expanded keys, or "all".
type Expansion struct {
	all  bool
	keys map[Key]struct{}
}

// ExpandAll returns an expansion that expands every node.
func ExpandAll() Expansion { return Expansion{all: true} }

// Expand returns an expansion of the given keys.
func Expand(keys ...Key) Expansion {
	e := Expansion{keys: make(map[Key]struct{}, len(keys))}
	for _, k := range keys {
		e.keys[k] = struct{}{}
	}
	return e
}

// Has reports whether key is expanded.
func (e Expansion) Has(key Key) bool {
	if e.all {
		return true
	}
	_, ok := e.keys[key]
	return ok
}

// IsAll reports whether e expands everything.
func (e Expansion) IsAll() bool { return e.all }

// Keys returns the explicitly expanded keys, sorted.
func (e Expansion) Keys() []Key {
	out := make([]Key, 0, len(e.keys))
	for k := range e.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Toggle returns a copy of e with key flipped. Toggling a key of "all"
// materializes the expansion over the given universe first.
func (e Expansion) Toggle(key Key, universe []Key) Expansion {
	var n Expansion
	if e.all {
		n = Expand(universe...)
	} else {
		n = Expand(e.Keys()...)
	}
	if _, ok := n.keys[key]; ok {
		delete(n.keys, key)
	} else {
		n.keys[key] = struct{}{}
	}
	return n
}

// =============================================================================
// TreeCollection
// =============================================================================

// TreeCollection is the visible projection of a tree of specs: children of
// collapsed nodes are left out and every visible node is a new record with
// its level, index and expansion state filled in. Visible nodes are linked
// in document order.
type TreeCollection struct {
	nodes    map[Key]*collection.Node
	order    []Key
	topLevel []Key
	size     int
}

// NewTree builds the visible tree for specs under the given expansion.
func NewTree(specs []collection.Spec, exp Expansion) *TreeCollection {
	t := &TreeCollection{nodes: make(map[Key]*collection.Node)}

	var visit func(s collection.Spec, parent Key, level, index int) *collection.Node
	visit = func(s collection.Spec, parent Key, level, index int) *collection.Node {
		n := &collection.Node{
			Type:          s.Type,
			Key:           s.Key,
			ParentKey:     parent,
			Index:         index,
			Level:         level,
			TextValue:     s.Text,
			Rendered:      s.Rendered,
			Props:         s.Props,
			HasChildNodes: len(s.Children) > 0,
			IsExpanded:    len(s.Children) > 0 && exp.Has(s.Key),
		}
		t.nodes[n.Key] = n
		t.order = append(t.order, n.Key)
		if !n.IsExpanded {
			return n
		}
		var kids []Key
		for i, c := range s.Children {
			kids = append(kids, visit(c, n.Key, level+1, i).Key)
		}
		// WithChildKeys copies; keep HasChildNodes from the row spec.
		cp := n.WithChildKeys(kids)
		cp.HasChildNodes = true
		t.nodes[n.Key] = cp
		return cp
	}

	for i, s := range specs {
		t.topLevel = append(t.topLevel, visit(s, "", 0, i).Key)
	}

	var prev *collection.Node
	for _, k := range t.order {
		n := t.nodes[k]
		if prev != nil {
			prev.NextKey = k
			n.PrevKey = prev.Key
		}
		if n.Type != collection.TypeLoader && n.Type != collection.TypePlaceholder {
			t.size++
		}
		prev = n
	}
	return t
}

func (t *TreeCollection) Size() int                     { return t.size }
func (t *TreeCollection) Item(key Key) *collection.Node { return t.nodes[key] }
func (t *TreeCollection) Keys() []Key                   { return t.order }
func (t *TreeCollection) Nodes() []*collection.Node     { return collection.NodesFor(t, t.topLevel) }

func (t *TreeCollection) FirstKey() Key {
	if len(t.order) == 0 {
		return ""
	}
	return t.order[0]
}

func (t *TreeCollection) LastKey() Key {
	if len(t.order) == 0 {
		return ""
	}
	return t.order[len(t.order)-1]
}

func (t *TreeCollection) KeyAfter(key Key) Key {
	if n := t.nodes[key]; n != nil {
		return n.NextKey
	}
	return ""
}

func (t *TreeCollection) KeyBefore(key Key) Key {
	if n := t.nodes[key]; n != nil {
		return n.PrevKey
	}
	return ""
}

func (t *TreeCollection) Children(key Key) []*collection.Node {
	if key == "" {
		return t.Nodes()
	}
	if n := t.nodes[key]; n != nil {
		return collection.NodesFor(t, n.ChildKeys())
	}
	return nil
}

var _ collection.Collection = (*TreeCollection)(nil)

// =============================================================================
// TreeState
// =============================================================================

// TreeOptions configures a TreeState.
type TreeOptions struct {
	Selection        selection.Options
	Expanded         Expansion
	OnExpandedChange func(Expansion)
	Logger           *log.Logger
}

// TreeState owns the expansion, focus and selection of a tree.
type TreeState struct {
	specs    []collection.Spec
	parents  map[Key]Key
	all      []Key
	expanded Expansion
	coll     *TreeCollection
	sel      *selection.Manager

	onExpandedChange func(Expansion)
	logger           *log.Logger
}

// NewTreeState returns a tree state over specs.
func NewTreeState(specs []collection.Spec, opts TreeOptions) *TreeState {
	s := &TreeState{
		expanded:         opts.Expanded,
		onExpandedChange: opts.OnExpandedChange,
		logger:           opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if opts.Selection.Logger == nil {
		opts.Selection.Logger = s.logger
	}
	s.setSpecs(specs)
	s.coll = NewTree(specs, s.expanded)
	s.sel = selection.NewManager(s.coll, opts.Selection)
	return s
}

func (s *TreeState) setSpecs(specs []collection.Spec) {
	s.specs = specs
	s.parents = make(map[Key]Key)
	s.all = nil
	var walk func([]collection.Spec, Key)
	walk = func(ss []collection.Spec, parent Key) {
		for _, c := range ss {
			s.parents[c.Key] = parent
			if len(c.Children) > 0 {
				s.all = append(s.all, c.Key)
			}
			walk(c.Children, c.Key)
		}
	}
	walk(specs, "")
}

func (s *TreeState) Collection() *TreeCollection   { return s.coll }
func (s *TreeState) Selection() *selection.Manager { return s.sel }
func (s *TreeState) ExpandedKeys() Expansion       { return s.expanded }
func (s *TreeState) IsExpanded(key Key) bool       { return s.expanded.Has(key) }

// SetSpecs replaces the source tree, keeping expansion, focus and selection.
func (s *TreeState) SetSpecs(specs []collection.Spec) {
	s.setSpecs(specs)
	s.rebuild()
}

// ToggleKey expands or collapses key.
func (s *TreeState) ToggleKey(key Key) {
	s.SetExpandedKeys(s.expanded.Toggle(key, s.all))
}

// SetExpandedKeys replaces the expansion and rebuilds the visible tree.
func (s *TreeState) SetExpandedKeys(e Expansion) {
	s.expanded = e
	s.rebuild()
	if s.onExpandedChange != nil {
		s.onExpandedChange(e)
	}
}

func (s *TreeState) rebuild() {
	next := NewTree(s.specs, s.expanded)
	focus := s.sel.FocusedKey()
	s.coll = next
	s.sel.SetCollection(next)
	if focus == "" || next.Item(focus) != nil {
		return
	}
	// A collapse hid the focused node: move focus to its nearest visible
	// ancestor.
	for k := s.parents[focus]; k != ""; k = s.parents[k] {
		if next.Item(k) != nil {
			s.logger.Debug("focus moved to collapsed ancestor", "from", focus, "to", k)
			s.sel.SetFocusedKey(k, selection.FocusFirst)
			return
		}
	}
	s.sel.SetFocusedKey("", selection.FocusFirst)
}
