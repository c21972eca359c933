package grid

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/selection"
)

// Collection is a collection with a row structure. Rows lists every row
// that focus may land on, header rows included, in visual order.
type Collection interface {
	collection.Collection
	Rows() []*collection.Node
	ColumnCount() int
}

// FocusMode selects whether rows or cells receive keyboard focus.
type FocusMode string

const (
	FocusRow  FocusMode = "row"
	FocusCell FocusMode = "cell"
)

// StateOptions configures a State.
type StateOptions struct {
	Selection selection.Options
	FocusMode FocusMode
	Logger    *log.Logger
}

// State owns focus and selection for a grid and keeps focus on a live row
// across collection changes.
type State struct {
	coll      Collection
	sel       *selection.Manager
	focusMode FocusMode

	keyboardNavigationDisabled bool

	logger *log.Logger
}

// NewState returns a grid state over c.
func NewState(c Collection, opts StateOptions) *State {
	s := &State{coll: c, focusMode: opts.FocusMode, logger: opts.Logger}
	if s.focusMode == "" {
		s.focusMode = FocusRow
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if opts.Selection.Logger == nil {
		opts.Selection.Logger = s.logger
	}
	s.sel = selection.NewManager(c, opts.Selection)
	return s
}

func (s *State) Collection() Collection             { return s.coll }
func (s *State) Selection() *selection.Manager      { return s.sel }
func (s *State) FocusMode() FocusMode               { return s.focusMode }
func (s *State) FocusedKey() Key                    { return s.sel.FocusedKey() }
func (s *State) IsKeyboardNavigationDisabled() bool { return s.keyboardNavigationDisabled }

// SetKeyboardNavigationDisabled suspends arrow-key navigation, for example
// while a cell editor owns the keyboard.
func (s *State) SetKeyboardNavigationDisabled(v bool) { s.keyboardNavigationDisabled = v }

// IsDisabled reports whether key, or the row a cell key belongs to, is
// disabled for focus.
func (s *State) IsDisabled(key Key) bool {
	if s.sel.IsDisabled(key) {
		return true
	}
	if n := s.coll.Item(key); n != nil && n.Type == collection.TypeCell {
		return s.sel.IsDisabled(n.ParentKey)
	}
	return false
}

// SetFocusedKey moves focus to key. In cell focus mode a row key is
// redirected to its first cell, or its last cell for FocusLast.
func (s *State) SetFocusedKey(key Key, strategy selection.FocusStrategy) {
	if s.focusMode == FocusCell && key != "" {
		if n := s.coll.Item(key); n != nil && n.Type.IsRow() {
			if kids := s.coll.Children(key); len(kids) > 0 {
				if strategy == selection.FocusLast {
					key = kids[len(kids)-1].Key
				} else {
					key = kids[0].Key
				}
			}
		}
	}
	s.sel.SetFocusedKey(key, strategy)
}

// SetCollection replaces the collection. If the focused key no longer
// exists, focus moves to the nearest surviving row that is neither disabled
// nor a header row, keeping the same cell position when the old focus was a
// cell. Focus is cleared when no such row exists.
func (s *State) SetCollection(c Collection) {
	old := s.coll
	s.coll = c
	s.sel.SetCollection(c)

	focused := s.sel.FocusedKey()
	if focused == "" || c.Item(focused) != nil {
		return
	}
	next := s.reassignFocus(old, c, focused)
	s.logger.Debug("focused key removed", "key", focused, "next", next)
	s.sel.SetFocusedKey(next, s.sel.ChildFocusStrategy())
}

func (s *State) reassignFocus(old, cur Collection, focused Key) Key {
	node := old.Item(focused)
	if node == nil {
		return ""
	}

	rowNode := node
	childIndex := -1
	if !node.Type.IsRow() && node.Type != collection.TypeHeaderRow && node.ParentKey != "" {
		if p := old.Item(node.ParentKey); p != nil {
			rowNode = p
			childIndex = node.Index
		}
	}

	oldRows := old.Rows()
	newRows := cur.Rows()
	if len(newRows) == 0 {
		return ""
	}
	parentIndex := max(slices.IndexFunc(oldRows, func(n *collection.Node) bool { return n.Key == rowNode.Key }), 0)

	// Several rows removed at once: step back by the number removed so the
	// candidate does not skip past rows that survived.
	diff := len(oldRows) - len(newRows)
	candidate := parentIndex
	if diff > 1 {
		candidate = max(parentIndex-diff+1, 0)
	}
	candidate = min(candidate, len(newRows)-1)

	usable := func(n *collection.Node) bool {
		return n.Type != collection.TypeHeaderRow && !s.sel.IsDisabled(n.Key)
	}
	var row *collection.Node
	for i := candidate; i < len(newRows); i++ {
		if usable(newRows[i]) {
			row = newRows[i]
			break
		}
	}
	if row == nil {
		for i := min(parentIndex, len(newRows)-1); i >= 0; i-- {
			if usable(newRows[i]) {
				row = newRows[i]
				break
			}
		}
	}
	if row == nil {
		return ""
	}

	if childIndex >= 0 {
		if kids := cur.Children(row.Key); childIndex < len(kids) {
			return kids[childIndex].Key
		}
	}
	return row.Key
}

// Delegate returns a keyboard delegate bound to the current collection and
// navigation state.
func (s *State) Delegate() *KeyboardDelegate {
	return &KeyboardDelegate{
		Collection:         s.coll,
		IsDisabled:         s.sel.IsDisabled,
		FocusMode:          s.focusMode,
		NavigationDisabled: s.IsKeyboardNavigationDisabled,
		PageSize:           collection.DefaultPageSize,
	}
}
