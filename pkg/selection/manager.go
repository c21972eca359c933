package selection

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/collection"
)

// Mode controls how many keys may be selected.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeSingle   Mode = "single"
	ModeMultiple Mode = "multiple"
)

// Behavior controls how a plain select interaction changes the selection.
type Behavior string

const (
	// BehaviorToggle adds or removes the key (checkbox semantics).
	BehaviorToggle Behavior = "toggle"
	// BehaviorReplace replaces the selection with the key (file browser semantics).
	BehaviorReplace Behavior = "replace"
)

// DisabledBehavior controls what disabled keys are disabled for.
type DisabledBehavior string

const (
	// DisabledSelection disables selection only; disabled keys stay focusable.
	DisabledSelection DisabledBehavior = "selection"
	// DisabledAll disables selection, focus and actions.
	DisabledAll DisabledBehavior = "all"
)

// FocusStrategy selects which child receives focus when focus moves into a
// container (a grid row in cell focus mode, a section).
type FocusStrategy string

const (
	FocusFirst FocusStrategy = "first"
	FocusLast  FocusStrategy = "last"
)

// PointerType is the kind of device that triggered a selection.
type PointerType string

const (
	PointerMouse    PointerType = "mouse"
	PointerTouch    PointerType = "touch"
	PointerKeyboard PointerType = "keyboard"
	PointerVirtual  PointerType = "virtual"
)

// Options configures a Manager.
type Options struct {
	Mode                   Mode
	Behavior               Behavior
	DisabledKeys           []collection.Key
	DisabledBehavior       DisabledBehavior
	DisallowEmptySelection bool
	// AllowsCellSelection selects cells individually instead of mapping them
	// to their rows.
	AllowsCellSelection bool
	// Selected is the initial selection.
	Selected Selection

	OnSelectionChange func(Selection)
	OnFocusChange     func(collection.Key)

	Logger *log.Logger
}

// Manager owns the focused key and selected keys of one collection.
//
// Manager is not safe for concurrent use. Its owner (an event loop) passes
// every state change through its methods.
type Manager struct {
	coll     collection.Collection
	position map[collection.Key]int

	mode                Mode
	behavior            Behavior
	disabled            map[collection.Key]struct{}
	disabledBehavior    DisabledBehavior
	disallowEmpty       bool
	allowsCellSelection bool

	selected      Selection
	focusedKey    collection.Key
	focused       bool
	childStrategy FocusStrategy

	onSelectionChange func(Selection)
	onFocusChange     func(collection.Key)
	logger            *log.Logger
}

// NewManager creates a manager over c. Zero-valued options default to
// multiple selection, toggle behavior and DisabledAll.
func NewManager(c collection.Collection, opts Options) *Manager {
	m := &Manager{
		mode:                opts.Mode,
		behavior:            opts.Behavior,
		disabledBehavior:    opts.DisabledBehavior,
		disallowEmpty:       opts.DisallowEmptySelection,
		allowsCellSelection: opts.AllowsCellSelection,
		selected:            opts.Selected,
		onSelectionChange:   opts.OnSelectionChange,
		onFocusChange:       opts.OnFocusChange,
		logger:              opts.Logger,
	}
	if m.mode == "" {
		m.mode = ModeMultiple
	}
	if m.behavior == "" {
		m.behavior = BehaviorToggle
	}
	if m.disabledBehavior == "" {
		m.disabledBehavior = DisabledAll
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.SetDisabledKeys(opts.DisabledKeys)
	m.SetCollection(c)
	return m
}

// =============================================================================
// Collection
// =============================================================================

// Collection returns the collection the manager currently operates on.
func (m *Manager) Collection() collection.Collection { return m.coll }

// SetCollection swaps the collection snapshot. Selection and focus are kept;
// focus reconciliation for deleted keys is the grid state's job.
func (m *Manager) SetCollection(c collection.Collection) {
	m.coll = c
	m.position = nil
}

func (m *Manager) positions() map[collection.Key]int {
	if m.position == nil && m.coll != nil {
		keys := m.coll.Keys()
		m.position = make(map[collection.Key]int, len(keys))
		for i, k := range keys {
			m.position[k] = i
		}
	}
	return m.position
}

// compare orders two keys by document position; unknown keys sort last.
func (m *Manager) compare(a, b collection.Key) int {
	pos := m.positions()
	pa, oka := pos[a]
	pb, okb := pos[b]
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return 1
	case !okb:
		return -1
	}
	return pa - pb
}

// =============================================================================
// Policy
// =============================================================================

func (m *Manager) Mode() Mode                         { return m.mode }
func (m *Manager) Behavior() Behavior                 { return m.behavior }
func (m *Manager) DisabledBehavior() DisabledBehavior { return m.disabledBehavior }
func (m *Manager) DisallowEmptySelection() bool       { return m.disallowEmpty }

// SetBehavior changes the selection behavior.
func (m *Manager) SetBehavior(b Behavior) { m.behavior = b }

// SetDisabledKeys replaces the disabled key set.
func (m *Manager) SetDisabledKeys(keys []collection.Key) {
	m.disabled = make(map[collection.Key]struct{}, len(keys))
	for _, k := range keys {
		m.disabled[k] = struct{}{}
	}
}

// IsDisabled reports whether key is fully disabled (not focusable). Keys
// disabled only for selection report false.
func (m *Manager) IsDisabled(key collection.Key) bool {
	if m.disabledBehavior != DisabledAll {
		return false
	}
	_, ok := m.disabled[key]
	return ok
}

// CanSelectItem reports whether key may be selected under the current policy.
func (m *Manager) CanSelectItem(key collection.Key) bool {
	if m.mode == ModeNone || m.coll == nil {
		return false
	}
	n := m.coll.Item(key)
	if n == nil {
		return false
	}
	if _, ok := m.disabled[key]; ok {
		return false
	}
	if n.Type == collection.TypeCell && !m.allowsCellSelection {
		return false
	}
	return true
}

// mapKey resolves cells to their row unless cell selection is allowed.
func (m *Manager) mapKey(key collection.Key) collection.Key {
	if m.coll == nil || m.allowsCellSelection {
		return key
	}
	if n := m.coll.Item(key); n != nil && n.Type == collection.TypeCell && n.ParentKey != "" {
		return n.ParentKey
	}
	return key
}

// =============================================================================
// Focus
// =============================================================================

// FocusedKey returns the focused key, or the empty key.
func (m *Manager) FocusedKey() collection.Key { return m.focusedKey }

// ChildFocusStrategy returns the strategy recorded by the last SetFocusedKey.
func (m *Manager) ChildFocusStrategy() FocusStrategy { return m.childStrategy }

// IsFocused reports whether the collection itself has focus.
func (m *Manager) IsFocused() bool { return m.focused }

// SetFocused records whether the collection has focus.
func (m *Manager) SetFocused(f bool) { m.focused = f }

// SetFocusedKey moves focus to key. Keys missing from the collection are
// ignored so that the focused key always references a live node; the empty
// key clears focus.
func (m *Manager) SetFocusedKey(key collection.Key, strategy FocusStrategy) {
	if key != "" && (m.coll == nil || m.coll.Item(key) == nil) {
		m.logger.Debug("ignoring focus on unknown key", "key", key)
		return
	}
	m.childStrategy = strategy
	if key == m.focusedKey {
		return
	}
	m.focusedKey = key
	if m.onFocusChange != nil {
		m.onFocusChange(key)
	}
}

// =============================================================================
// Queries
// =============================================================================

// RawSelection returns the stored selection, which may be the "all" marker.
func (m *Manager) RawSelection() Selection { return m.selected }

// SelectedKeys returns the selected keys in selection order, expanding "all"
// to every selectable key in collection order.
func (m *Manager) SelectedKeys() []collection.Key {
	if m.selected.IsAll() {
		return m.selectAllKeys()
	}
	return m.selected.Keys()
}

// SelectionSize returns the number of selected keys.
func (m *Manager) SelectionSize() int {
	if m.selected.IsAll() {
		return len(m.selectAllKeys())
	}
	return m.selected.Len()
}

// IsSelected reports whether key (or the row of a cell key) is selected.
func (m *Manager) IsSelected(key collection.Key) bool {
	if m.mode == ModeNone {
		return false
	}
	key = m.mapKey(key)
	if m.selected.IsAll() {
		return m.CanSelectItem(key)
	}
	return m.selected.Has(key)
}

// IsEmpty reports whether nothing is selected.
func (m *Manager) IsEmpty() bool {
	return !m.selected.IsAll() && m.selected.Len() == 0
}

// IsSelectAll reports whether every selectable key is selected.
func (m *Manager) IsSelectAll() bool {
	if m.IsEmpty() {
		return false
	}
	if m.selected.IsAll() {
		return true
	}
	for _, k := range m.selectAllKeys() {
		if !m.selected.Has(k) {
			return false
		}
	}
	return true
}

// FirstSelectedKey returns the selected key that comes first in the
// collection, or the empty key.
func (m *Manager) FirstSelectedKey() collection.Key {
	var first collection.Key
	for _, k := range m.SelectedKeys() {
		if m.coll == nil || m.coll.Item(k) == nil {
			continue
		}
		if first == "" || m.compare(k, first) < 0 {
			first = k
		}
	}
	return first
}

// LastSelectedKey returns the selected key that comes last in the
// collection, or the empty key.
func (m *Manager) LastSelectedKey() collection.Key {
	var last collection.Key
	for _, k := range m.SelectedKeys() {
		if m.coll == nil || m.coll.Item(k) == nil {
			continue
		}
		if last == "" || m.compare(k, last) > 0 {
			last = k
		}
	}
	return last
}

// IsSelectionEqual reports whether the current selection holds exactly the
// given keys.
func (m *Manager) IsSelectionEqual(s Selection) bool {
	if s.IsAll() || m.selected.IsAll() {
		if s.IsAll() && m.selected.IsAll() {
			return true
		}
		if s.IsAll() {
			s = NewSelection(m.selectAllKeys()...)
		}
	}
	cur := m.SelectedKeys()
	if len(cur) != s.Len() {
		return false
	}
	for _, k := range cur {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// selectAllKeys lists every selectable row (and cell, when cell selection is
// allowed) in collection order.
func (m *Manager) selectAllKeys() []collection.Key {
	if m.coll == nil {
		return nil
	}
	var keys []collection.Key
	for _, k := range m.coll.Keys() {
		n := m.coll.Item(k)
		if n == nil {
			continue
		}
		if !n.Type.IsRow() && !(m.allowsCellSelection && n.Type == collection.TypeCell) {
			continue
		}
		if m.CanSelectItem(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// =============================================================================
// Mutations
// =============================================================================

func (m *Manager) set(s Selection) {
	if m.selected.Equal(s) && m.selected.AnchorKey == s.AnchorKey && m.selected.CurrentKey == s.CurrentKey {
		return
	}
	changed := !m.selected.Equal(s)
	m.selected = s
	if changed {
		m.logger.Debug("selection changed", "all", s.IsAll(), "size", s.Len())
		if m.onSelectionChange != nil {
			m.onSelectionChange(s)
		}
	}
}

// ToggleSelection adds key if unselected, removes it otherwise.
func (m *Manager) ToggleSelection(key collection.Key) {
	if m.mode == ModeNone {
		return
	}
	if m.mode == ModeSingle && !m.IsSelected(key) {
		m.ReplaceSelection(key)
		return
	}
	key = m.mapKey(key)
	if key == "" {
		return
	}

	cur := m.selected
	if cur.IsAll() {
		cur = NewSelection(m.selectAllKeys()...)
	}
	if cur.Has(key) {
		cur = cur.without(key)
	} else if m.CanSelectItem(key) {
		cur = cur.with(key).anchored(key, key)
	}

	if m.disallowEmpty && cur.Len() == 0 {
		return
	}
	m.set(cur)
}

// ReplaceSelection selects only key (or nothing, if key is not selectable).
func (m *Manager) ReplaceSelection(key collection.Key) {
	if m.mode == ModeNone {
		return
	}
	key = m.mapKey(key)
	if key == "" {
		return
	}
	if !m.CanSelectItem(key) {
		if m.disallowEmpty {
			return
		}
		m.set(Selection{})
		return
	}
	m.set(NewSelection(key).anchored(key, key))
}

// ExtendSelection selects the range from the anchor to toKey, replacing the
// previously extended range.
func (m *Manager) ExtendSelection(toKey collection.Key) {
	if m.mode == ModeNone {
		return
	}
	if m.mode == ModeSingle {
		m.ReplaceSelection(toKey)
		return
	}
	to := m.mapKey(toKey)
	if to == "" {
		return
	}

	if m.selected.IsAll() {
		m.set(NewSelection(to).anchored(to, to))
		return
	}

	cur := m.selected
	anchor := cur.AnchorKey
	if anchor == "" {
		anchor = to
	}
	prevEnd := cur.CurrentKey
	if prevEnd == "" {
		prevEnd = to
	}
	cur = cur.without(m.keyRange(anchor, prevEnd)...)
	add := m.keyRange(to, anchor)
	add = slices.DeleteFunc(add, func(k collection.Key) bool { return !m.CanSelectItem(k) })
	m.set(cur.with(add...).anchored(anchor, to))
}

// keyRange returns the row keys between from and to inclusive, in collection
// order regardless of argument order.
func (m *Manager) keyRange(from, to collection.Key) []collection.Key {
	if m.coll == nil || m.coll.Item(from) == nil || m.coll.Item(to) == nil {
		return nil
	}
	if m.compare(from, to) > 0 {
		from, to = to, from
	}
	var keys []collection.Key
	for k := from; k != ""; k = m.coll.KeyAfter(k) {
		n := m.coll.Item(k)
		if n != nil && (n.Type.IsRow() || (m.allowsCellSelection && n.Type == collection.TypeCell)) {
			keys = append(keys, k)
		}
		if k == to {
			return keys
		}
	}
	return nil
}

// SetSelectedKeys replaces the selection. In single mode only the first key
// is kept.
func (m *Manager) SetSelectedKeys(keys []collection.Key) {
	if m.mode == ModeNone {
		return
	}
	mapped := make([]collection.Key, 0, len(keys))
	for _, k := range keys {
		k = m.mapKey(k)
		if k == "" {
			continue
		}
		mapped = append(mapped, k)
		if m.mode == ModeSingle {
			break
		}
	}
	m.set(NewSelection(mapped...))
}

// SelectAll selects every selectable key (multiple mode only).
func (m *Manager) SelectAll() {
	if m.mode == ModeMultiple && !m.IsSelectAll() {
		m.set(All())
	}
}

// ClearSelection empties the selection unless empty selection is disallowed.
func (m *Manager) ClearSelection() {
	if !m.disallowEmpty && !m.IsEmpty() {
		m.set(Selection{})
	}
}

// ToggleSelectAll clears a full selection or selects everything.
func (m *Manager) ToggleSelectAll() {
	if m.IsSelectAll() {
		m.ClearSelection()
	} else {
		m.SelectAll()
	}
}

// Select applies a plain select interaction on key according to mode and
// behavior. Touch and virtual (screen reader) pointers always toggle in
// multiple mode since they cannot hold modifier keys.
func (m *Manager) Select(key collection.Key, pointer PointerType) {
	switch {
	case m.mode == ModeNone:
		return
	case m.mode == ModeSingle:
		if m.IsSelected(key) && !m.disallowEmpty {
			m.ToggleSelection(key)
		} else {
			m.ReplaceSelection(key)
		}
	case m.behavior == BehaviorToggle || pointer == PointerTouch || pointer == PointerVirtual:
		m.ToggleSelection(key)
	default:
		m.ReplaceSelection(key)
	}
}
