package pipeline

import (
	"context"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/dnd"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/fixture"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/layout"
	"github.com/matzehuels/gridkit/pkg/selection"
)

// =============================================================================
// Drop targeting
// =============================================================================

// DropOptions describes a simulated drag over a fixture's collection.
type DropOptions struct {
	Options

	// Dragging lists the dragged keys. They must exist in the collection.
	Dragging []string `json:"dragging"`
	// Focused is the focused key when the drag enters. Empty focuses the
	// first dragged key.
	Focused string `json:"focused,omitempty"`
	// Pointer, when set, hit tests a viewport-relative point after entering.
	Pointer *layout.Point `json:"pointer,omitempty"`
	// Keys are keyboard navigation keys (ArrowDown, PageUp, ...) applied in
	// order after the pointer.
	Keys []string `json:"keys,omitempty"`
	// Commit drops at the resulting target and returns the reordered fixture.
	Commit bool `json:"commit,omitempty"`
}

// DropResult is the outcome of a simulated drag.
type DropResult struct {
	Target    dnd.Target    `json:"target"`
	Operation dnd.Operation `json:"operation"`
	Indicator *layout.Info  `json:"indicator,omitempty"`
	// Source is the TOML of the fixture after a committed drop.
	Source string `json:"source,omitempty"`
	// Keys is the row or item order after a committed drop.
	Keys []collection.Key `json:"keys,omitempty"`
}

// DropHandlers returns the drop handlers used for fixtures: reordering and
// moving rows anywhere, and dropping onto rows or sections that have
// children. Committed drops are reported to onDrop.
func DropHandlers(onDrop dnd.DropHandler) *dnd.Handlers {
	return &dnd.Handlers{
		OnReorder:  onDrop,
		OnMove:     onDrop,
		OnItemDrop: onDrop,
		ShouldAcceptItemDrop: func(t dnd.Target, _ []string) bool {
			return true
		},
	}
}

// NewEnv returns the drop environment of c: a selection manager seeded from
// the fixture and a keyboard delegate that pages by the layout's viewport.
func NewEnv(f *fixture.Fixture, c collection.Collection, l *layout.Layout) dnd.Env {
	if t, ok := c.(*grid.TableCollection); ok {
		s := grid.NewState(t, grid.StateOptions{Selection: f.SelectionOptions()})
		d := s.Delegate()
		d.Rects = l
		return dnd.Env{Selection: s.Selection(), Delegate: d}
	}
	sel := selection.NewManager(c, f.SelectionOptions())
	d := collection.NewListKeyboardDelegate(c)
	d.Rects = l
	return dnd.Env{Selection: sel, Delegate: d}
}

// ResolveDrop simulates an internal drag of opts.Dragging over the fixture's
// collection and returns the resulting drop target.
func ResolveDrop(ctx context.Context, f *fixture.Fixture, opts DropOptions) (*DropResult, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if len(opts.Dragging) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing is being dragged")
	}

	c := f.Collection()
	keys := make([]collection.Key, len(opts.Dragging))
	for i, k := range opts.Dragging {
		keys[i] = collection.Key(k)
		if n := c.Item(keys[i]); n == nil || !n.Type.IsRow() {
			return nil, errors.New(errors.ErrCodeNotFound, "dragged key %q is not a visible row", k)
		}
	}

	l := NewLayout(f, c, opts.Options)
	env := NewEnv(f, c, l)

	focused := keys[0]
	if opts.Focused != "" {
		focused = collection.Key(opts.Focused)
		if c.Item(focused) == nil {
			return nil, errors.New(errors.ErrCodeNotFound, "focused key %q not found", opts.Focused)
		}
	}
	env.Selection.SetFocusedKey(focused, selection.FocusFirst)

	var dropped *dnd.DropEvent
	h := DropHandlers(func(_ context.Context, e dnd.DropEvent) { dropped = &e })
	m := dnd.NewMachine(dnd.Options{
		DropOperation: h.DropOperation,
		OnDrop:        h.Drop,
		Logger:        opts.Logger,
	})
	s := dnd.NewSession(m.ID(), keys, nil, dnd.OpMove)

	m.DropEnter(env, s)
	if opts.Pointer != nil {
		m.DropMove(env, s, l.DropTargetFromPoint(opts.Pointer.X, opts.Pointer.Y, m.IsValidTarget(env, s)))
	}
	for _, k := range opts.Keys {
		m.KeyDown(ctx, env, s, k)
	}

	result := &DropResult{Target: m.Target(), Operation: m.Operation(env, s, m.Target())}
	if info, ok := l.DropIndicatorInfo(m.Target(), 2); ok {
		result.Indicator = info
	}
	if !opts.Commit {
		m.Cancel(s)
		return result, nil
	}

	req, ok := m.Drop(ctx, env, s, 0, 0)
	if !ok || dropped == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no valid drop target")
	}
	moved, err := f.Move(dropped.Keys, dropped.Target)
	if err != nil {
		return nil, err
	}
	next := moved.Collection()
	env.Selection.SetCollection(next)
	m.CollectionChanged(env)
	m.Settle(env, req.Token)

	result.Source = string(moved.Raw())
	result.Keys = rowKeys(next)
	return result, nil
}

// rowKeys returns the row-like keys of c in document order.
func rowKeys(c collection.Collection) []collection.Key {
	var out []collection.Key
	for _, k := range c.Keys() {
		if n := c.Item(k); n != nil && n.Type.IsRow() {
			out = append(out, k)
		}
	}
	return out
}
