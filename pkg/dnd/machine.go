package dnd

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/observability"
	"github.com/matzehuels/gridkit/pkg/selection"
)

// DefaultSettleDelay is how long after a drop inserted items are selected
// and focus feedback is applied.
const DefaultSettleDelay = 50 * time.Millisecond

// State is the phase of a drag over the collection.
type State int

const (
	StateIdle State = iota
	StateEntered
	StateTargeting
	StateDropping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEntered:
		return "entered"
	case StateTargeting:
		return "targeting"
	case StateDropping:
		return "dropping"
	}
	return "unknown"
}

// Navigation keys understood by KeyDown.
const (
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
	KeyHome      = "Home"
	KeyEnd       = "End"
	KeyPageDown  = "PageDown"
	KeyPageUp    = "PageUp"
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
)

// Env is the collection state a handler works against. It is passed to
// every call instead of being stored, so handlers never see stale state.
type Env struct {
	Selection *selection.Manager
	Delegate  collection.KeyboardDelegate
}

func (e Env) collection() collection.Collection { return e.Selection.Collection() }

// SettleRequest asks the owner to call Settle(Token) after Delay.
type SettleRequest struct {
	Token uint64
	Delay time.Duration
}

// Options configures a Machine.
type Options struct {
	// ID identifies the collection in sessions. Defaults to a random UUID.
	ID string
	// DropOperation decides which targets accept the drag. Nil accepts every
	// target with the first allowed operation.
	DropOperation OperationFunc
	// OnDrop receives committed drops.
	OnDrop DropHandler
	// OnDropEnter and OnDropExit are called when an item target becomes or
	// stops being the current target.
	OnDropEnter func(Target)
	OnDropExit  func(Target)
	// OnShowFocusRing is called when the drop result should be made visible
	// through keyboard focus styling.
	OnShowFocusRing func()
	// SettleDelay defaults to DefaultSettleDelay.
	SettleDelay time.Duration
	Logger      *log.Logger
}

// snapshot is the state captured when a drop is committed.
type snapshot struct {
	focusedKey Key
	collection collection.Collection
	selected   selection.Selection
	target     Target
	inserted   int
}

// Machine is the drop-target state machine of one collection.
//
// Machine is not safe for concurrent use; it is driven by a single event
// loop.
type Machine struct {
	opts   Options
	logger *log.Logger

	state    State
	target   Target
	dropping *snapshot
	token    uint64
}

// NewMachine returns an idle machine.
func NewMachine(opts Options) *Machine {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Machine{opts: opts, logger: logger}
}

func (m *Machine) ID() string     { return m.opts.ID }
func (m *Machine) State() State   { return m.state }
func (m *Machine) Target() Target { return m.target }

// IsDropTarget reports whether t is the current target.
func (m *Machine) IsDropTarget(t Target) bool { return !t.IsZero() && m.target == t }

// Operation returns the operation a drop at t would perform.
func (m *Machine) Operation(env Env, s *Session, t Target) Operation {
	if t.IsZero() {
		return OpCancel
	}
	r := OperationRequest{
		Target:     t,
		Types:      s.Types(),
		Allowed:    s.Allowed,
		IsInternal: s.IsInternal(m.opts.ID),
		Keys:       s.Keys,
		Collection: env.collection(),
	}
	if m.opts.DropOperation == nil {
		if len(r.Allowed) == 0 {
			return OpCancel
		}
		return r.Allowed[0]
	}
	return m.opts.DropOperation(r)
}

// IsValidTarget returns a predicate for layout hit testing.
func (m *Machine) IsValidTarget(env Env, s *Session) func(Target) bool {
	return func(t Target) bool { return m.Operation(env, s, t) != OpCancel }
}

func (m *Machine) setTarget(t Target) {
	if t == m.target {
		return
	}
	prev := m.target
	m.target = t
	if prev.Type == TargetItem && m.opts.OnDropExit != nil {
		m.opts.OnDropExit(prev)
	}
	if t.Type == TargetItem && m.opts.OnDropEnter != nil {
		m.opts.OnDropEnter(t)
	}
	m.logger.Debug("drop target", "collection", m.opts.ID, "from", prev, "to", t)
	observability.Drop().OnTargetChange(m.opts.ID, t.String())
}

func (m *Machine) nextValid(env Env, s *Session, t Target, step StepFunc, wrap bool) Target {
	return NextValidTarget(env.Delegate, t, step, wrap, m.target, func(t Target) Operation {
		return m.Operation(env, s, t)
	})
}

// =============================================================================
// Drag events
// =============================================================================

// DropEnter starts targeting this collection. The default target is after
// the focused item. When the focused item is part of a multi-selection, the
// target is before the selection if focus is on its first key and after its
// last key otherwise. A rejected default falls back to the nearest accepted
// target forward, then backward, then from the root.
func (m *Machine) DropEnter(env Env, s *Session) Target {
	s.setDropCollection(m.opts.ID)
	m.state = StateEntered
	sel := env.Selection
	c := env.collection()

	key := sel.FocusedKey()
	pos := After
	if n := c.Item(key); n != nil && n.Type == collection.TypeCell {
		key = n.ParentKey
	}
	if key != "" && sel.IsSelected(key) {
		if sel.SelectionSize() > 1 && sel.FirstSelectedKey() == key {
			pos = Before
		} else {
			key = sel.LastSelectedKey()
		}
	}

	var t Target
	if key != "" {
		t = Item(key, pos)
		if m.Operation(env, s, t) == OpCancel {
			fallback := m.nextValid(env, s, t, NextTarget, false)
			if fallback.IsZero() {
				fallback = m.nextValid(env, s, t, PreviousTarget, false)
			}
			t = fallback
		}
	}
	if t.IsZero() {
		t = m.nextValid(env, s, Target{}, NextTarget, true)
	}
	m.setTarget(t)
	return t
}

// DropMove updates the target from pointer hit testing (see
// layout.Layout.DropTargetFromPoint). Rejected targets leave the current
// target unchanged. It returns the operation of the resulting target.
func (m *Machine) DropMove(env Env, s *Session, t Target) Operation {
	if m.state == StateIdle || m.state == StateDropping {
		return OpCancel
	}
	m.state = StateTargeting
	op := m.Operation(env, s, t)
	if op != OpCancel {
		m.setTarget(t)
	}
	return op
}

// DropExit ends targeting when the drag leaves the collection.
func (m *Machine) DropExit(s *Session) {
	if m.state == StateDropping {
		return
	}
	m.reset(s)
}

// Cancel aborts the drag and any pending settle.
func (m *Machine) Cancel(s *Session) {
	m.dropping = nil
	m.token++
	m.reset(s)
}

func (m *Machine) reset(s *Session) {
	m.state = StateIdle
	m.setTarget(Target{})
	if s != nil && s.DropCollection() == m.opts.ID {
		s.ClearDropCollection()
	}
}

// =============================================================================
// Keyboard
// =============================================================================

// KeyDown handles a navigation key during a keyboard drag. Enter commits
// the drop and returns its settle request.
func (m *Machine) KeyDown(ctx context.Context, env Env, s *Session, key string) (SettleRequest, bool) {
	if m.state == StateIdle || m.state == StateDropping {
		return SettleRequest{}, false
	}
	m.state = StateTargeting
	d := env.Delegate

	var t Target
	switch key {
	case KeyArrowDown:
		t = m.nextValid(env, s, m.target, NextTarget, true)
	case KeyArrowUp:
		t = m.nextValid(env, s, m.target, PreviousTarget, true)
	case KeyHome:
		t = m.nextValid(env, s, Target{}, NextTarget, true)
	case KeyEnd:
		t = m.nextValid(env, s, Target{}, PreviousTarget, true)
	case KeyPageDown:
		t = m.pageDown(env, s, d)
	case KeyPageUp:
		t = m.pageUp(env, s, d)
	case KeyEscape:
		m.Cancel(s)
		return SettleRequest{}, false
	case KeyEnter:
		return m.Drop(ctx, env, s, 0, 0)
	default:
		return SettleRequest{}, false
	}
	if !t.IsZero() {
		m.setTarget(t)
	}
	return SettleRequest{}, false
}

func (m *Machine) pageDown(env Env, s *Session, d collection.KeyboardDelegate) Target {
	cur := m.target
	if cur.IsZero() {
		return m.nextValid(env, s, Target{}, NextTarget, true)
	}

	// From the root, page down from the first item.
	from, pos := d.FirstKey(), After
	if cur.Type == TargetItem {
		from, pos = cur.Key, cur.Position
	}
	next := d.KeyPageBelow(from)
	if next == "" || (cur.Type == TargetItem && cur.Key == d.LastKey()) {
		next, pos = d.LastKey(), After
	}
	if next == "" {
		return Target{}
	}
	return m.settleOn(env, s, Item(next, pos), NextTarget, PreviousTarget)
}

func (m *Machine) pageUp(env Env, s *Session, d collection.KeyboardDelegate) Target {
	cur := m.target
	switch {
	case cur.IsZero():
		return m.nextValid(env, s, Target{}, PreviousTarget, true)
	case cur.Type != TargetItem:
		return Target{}
	case cur.Key == d.FirstKey():
		return m.settleOn(env, s, Root(), PreviousTarget, NextTarget)
	}
	next, pos := d.KeyPageAbove(cur.Key), cur.Position
	if next == "" {
		next, pos = d.FirstKey(), Before
	}
	if next == "" {
		return Target{}
	}
	return m.settleOn(env, s, Item(next, pos), PreviousTarget, NextTarget)
}

// settleOn returns t if it accepts the drag, or the nearest accepted target
// in the first direction, then the second.
func (m *Machine) settleOn(env Env, s *Session, t Target, first, second StepFunc) Target {
	if m.Operation(env, s, t) != OpCancel {
		return t
	}
	if v := m.nextValid(env, s, t, first, false); !v.IsZero() {
		return v
	}
	return m.nextValid(env, s, t, second, false)
}

// =============================================================================
// Drop and settle
// =============================================================================

// Drop commits the drop at the current target. It snapshots focus,
// collection and selection, calls the drop handler, and returns a settle
// request the owner must deliver back through Settle.
func (m *Machine) Drop(ctx context.Context, env Env, s *Session, x, y float64) (SettleRequest, bool) {
	t := m.target
	op := m.Operation(env, s, t)
	if t.IsZero() || op == OpCancel {
		m.Cancel(s)
		return SettleRequest{}, false
	}
	s.setDropCollection(m.opts.ID)

	sel := env.Selection
	c := env.collection()
	sel.SetFocused(true)
	focused := sel.FocusedKey()
	if n := c.Item(focused); n != nil && n.Type == collection.TypeCell {
		focused = n.ParentKey
	}
	m.dropping = &snapshot{
		focusedKey: focused,
		collection: c,
		selected:   sel.RawSelection(),
		target:     t,
	}
	m.state = StateDropping
	m.token++
	m.setTarget(Target{})

	e := DropEvent{
		Target:     t,
		X:          x,
		Y:          y,
		Items:      s.Items,
		Operation:  op,
		IsInternal: s.IsInternal(m.opts.ID),
		Keys:       s.Keys,
		Collection: c,
	}
	m.logger.Debug("drop", "collection", m.opts.ID, "target", t, "operation", op)
	observability.Drop().OnDrop(m.opts.ID, t.String(), string(op))
	if m.opts.OnDrop != nil {
		m.opts.OnDrop(ctx, e)
	}
	return SettleRequest{Token: m.token, Delay: m.opts.SettleDelay}, true
}

// CollectionChanged reconciles a collection change during the settle
// window. When the collection grew and the selection is unchanged since the
// drop, the inserted keys are selected, and the first one is focused unless
// focus moved meanwhile. The owner must update the selection manager's
// collection first.
func (m *Machine) CollectionChanged(env Env) {
	snap := m.dropping
	if snap == nil {
		return
	}
	sel := env.Selection
	c := env.collection()
	if c.Size() > snap.collection.Size() && sel.IsSelectionEqual(snap.selected) {
		inserted := collection.InsertedKeys(snap.collection, c)
		sel.SetSelectedKeys(inserted)
		snap.inserted += len(inserted)

		if len(inserted) > 0 && sel.FocusedKey() == snap.focusedKey {
			first := inserted[0]
			if n := c.Item(first); n != nil && n.Type == collection.TypeCell {
				first = n.ParentKey
			}
			sel.SetFocusedKey(first, selection.FocusFirst)
			if sel.Mode() == selection.ModeNone {
				m.showFocusRing()
			}
		}
	}
	snap.collection = c
}

// Settle ends the settle window started by the drop with token. Stale
// tokens are ignored and reported as false. If focus has not moved and the
// drop landed on an existing item, that item is focused.
func (m *Machine) Settle(env Env, token uint64) bool {
	snap := m.dropping
	if snap == nil || token != m.token {
		return false
	}
	sel := env.Selection
	if sel.FocusedKey() == snap.focusedKey {
		t := snap.target
		switch {
		case t.Type == TargetItem && t.Position == On && env.collection().Item(t.Key) != nil:
			sel.SetFocusedKey(t.Key, selection.FocusFirst)
			sel.SetFocused(true)
			m.showFocusRing()
		case !sel.IsSelected(snap.focusedKey):
			m.showFocusRing()
		}
	}
	m.logger.Debug("drop settled", "collection", m.opts.ID, "inserted", snap.inserted)
	observability.Drop().OnSettle(m.opts.ID, snap.inserted)
	m.dropping = nil
	m.state = StateIdle
	return true
}

func (m *Machine) showFocusRing() {
	if m.opts.OnShowFocusRing != nil {
		m.opts.OnShowFocusRing()
	}
}
