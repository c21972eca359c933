package dnd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/selection"
)

func list(keys ...Key) *collection.ListCollection {
	specs := make([]collection.Spec, len(keys))
	for i, k := range keys {
		specs[i] = collection.Item(k, string(k))
	}
	return collection.NewList(specs...)
}

func env(c collection.Collection, opts selection.Options) Env {
	sel := selection.NewManager(c, opts)
	d := collection.NewListKeyboardDelegate(c)
	d.PageSize = 2
	return Env{Selection: sel, Delegate: d}
}

func onlyPosition(p Position) OperationFunc {
	return func(r OperationRequest) Operation {
		if r.Target.Type == TargetItem && r.Target.Position == p {
			return OpMove
		}
		return OpCancel
	}
}

func TestNextTargetSequence(t *testing.T) {
	d := collection.NewListKeyboardDelegate(list("a", "b", "c"))
	want := []Target{
		Root(),
		Item("a", Before), Item("a", On),
		Item("b", Before), Item("b", On),
		Item("c", Before), Item("c", On), Item("c", After),
		Root(),
	}
	var got []Target
	cur := Target{}
	for range want {
		cur = NextTarget(d, cur, true)
		got = append(got, cur)
	}
	assert.Equal(t, want, got)
	assert.True(t, NextTarget(d, Item("c", After), false).IsZero())
}

func TestPreviousTargetSequence(t *testing.T) {
	d := collection.NewListKeyboardDelegate(list("a", "b", "c"))
	want := []Target{
		Item("c", After), Item("c", On), Item("c", Before),
		Item("b", On), Item("b", Before),
		Item("a", On), Item("a", Before),
		Root(),
	}
	var got []Target
	cur := Root()
	for range want {
		cur = PreviousTarget(d, cur, true)
		got = append(got, cur)
	}
	assert.Equal(t, want, got)
	assert.True(t, PreviousTarget(d, Item("a", Before), false).IsZero())
}

func TestNextValidTargetTerminates(t *testing.T) {
	d := collection.NewListKeyboardDelegate(list("a", "b", "c"))
	never := func(Target) Operation { return OpCancel }

	for _, step := range []StepFunc{NextTarget, PreviousTarget} {
		for _, wrap := range []bool{true, false} {
			got := NextValidTarget(d, Target{}, step, wrap, Target{}, never)
			assert.True(t, got.IsZero(), "wrap=%v got %v", wrap, got)
		}
	}

	// Empty collection.
	empty := collection.NewListKeyboardDelegate(list())
	assert.True(t, NextValidTarget(empty, Target{}, NextTarget, true, Target{}, never).IsZero())
}

func TestNextValidTargetSkipsRejected(t *testing.T) {
	d := collection.NewListKeyboardDelegate(list("a", "b", "c"))
	on := func(t Target) Operation {
		if t.Position == On {
			return OpCopy
		}
		return OpCancel
	}
	assert.Equal(t, Item("a", On), NextValidTarget(d, Target{}, NextTarget, true, Target{}, on))
	assert.Equal(t, Item("b", On), NextValidTarget(d, Item("a", On), NextTarget, true, Target{}, on))
	assert.Equal(t, Item("c", On), NextValidTarget(d, Root(), PreviousTarget, true, Target{}, on))
}

func TestDropEnterDefaultTarget(t *testing.T) {
	tests := []struct {
		name     string
		focus    Key
		selected []Key
		op       OperationFunc
		want     Target
	}{
		{"after focused", "b", nil, nil, Item("b", After)},
		{"before first of selection", "a", []Key{"a", "b"}, nil, Item("a", Before)},
		{"after last of selection", "b", []Key{"a", "b"}, nil, Item("b", After)},
		{"single selected", "c", []Key{"c"}, nil, Item("c", After)},
		{"no focus", "", nil, nil, Root()},
		{"rejected default moves forward", "b", nil, onlyPosition(On), Item("c", On)},
		{"rejected default moves backward", "c", nil, onlyPosition(Before), Item("c", Before)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := env(list("a", "b", "c"), selection.Options{})
			e.Selection.SetFocusedKey(tt.focus, selection.FocusFirst)
			e.Selection.SetSelectedKeys(tt.selected)

			m := NewMachine(Options{DropOperation: tt.op})
			s := NewSession("", nil, []DragItem{{"text/plain": "x"}})
			got := m.DropEnter(e, s)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, StateEntered, m.State())
			assert.Equal(t, m.ID(), s.DropCollection())
		})
	}
}

func TestKeyboardNavigation(t *testing.T) {
	e := env(list("a", "b", "c", "d", "e"), selection.Options{})
	m := NewMachine(Options{})
	s := NewSession("", nil, nil, OpCopy)
	ctx := context.Background()

	require.Equal(t, Root(), m.DropEnter(e, s))
	steps := []struct {
		key  string
		want Target
	}{
		{KeyArrowDown, Item("a", Before)},
		{KeyArrowDown, Item("a", On)},
		{KeyPageDown, Item("c", On)},
		{KeyPageDown, Item("e", On)},
		{KeyPageDown, Item("e", After)},
		{KeyPageUp, Item("c", After)},
		{KeyArrowUp, Item("c", On)},
		{KeyHome, Root()},
		{KeyEnd, Item("e", After)},
		{KeyArrowDown, Root()},
	}
	for _, st := range steps {
		_, dropped := m.KeyDown(ctx, e, s, st.key)
		require.False(t, dropped)
		assert.Equal(t, st.want, m.Target(), "after %s", st.key)
	}
	assert.Equal(t, StateTargeting, m.State())

	m.KeyDown(ctx, e, s, KeyEscape)
	assert.Equal(t, StateIdle, m.State())
	assert.True(t, m.Target().IsZero())
	assert.Empty(t, s.DropCollection())
}

func TestPageUpFromFirstGoesToRoot(t *testing.T) {
	e := env(list("a", "b", "c"), selection.Options{})
	m := NewMachine(Options{})
	s := NewSession("", nil, nil)
	e.Selection.SetFocusedKey("a", selection.FocusFirst)
	require.Equal(t, Item("a", After), m.DropEnter(e, s))

	m.KeyDown(context.Background(), e, s, KeyPageUp)
	assert.Equal(t, Root(), m.Target())
}

func TestDropMoveKeepsTargetWhenRejected(t *testing.T) {
	e := env(list("a", "b"), selection.Options{})
	m := NewMachine(Options{DropOperation: onlyPosition(On)})
	s := NewSession("", nil, nil)
	m.DropEnter(e, s)
	start := m.Target()

	assert.Equal(t, OpCancel, m.DropMove(e, s, Item("a", Before)))
	assert.Equal(t, start, m.Target())
	assert.Equal(t, OpMove, m.DropMove(e, s, Item("b", On)))
	assert.Equal(t, Item("b", On), m.Target())
	assert.Equal(t, StateTargeting, m.State())
}

func TestDropSelectsInsertedItems(t *testing.T) {
	before := list("k1", "k2", "k3")
	e := env(before, selection.Options{})
	e.Selection.SetFocusedKey("k2", selection.FocusFirst)
	e.Selection.SetSelectedKeys([]Key{"k2"})

	var drops []DropEvent
	m := NewMachine(Options{OnDrop: func(_ context.Context, ev DropEvent) { drops = append(drops, ev) }})
	s := NewSession("", nil, []DragItem{{"text/plain": "new"}})
	require.Equal(t, Item("k2", After), m.DropEnter(e, s))

	req, ok := m.Drop(context.Background(), e, s, 0, 0)
	require.True(t, ok)
	assert.Equal(t, DefaultSettleDelay, req.Delay)
	assert.Equal(t, StateDropping, m.State())
	require.Len(t, drops, 1)
	assert.Equal(t, Item("k2", After), drops[0].Target)
	assert.Equal(t, OpMove, drops[0].Operation)

	// The handler inserted an item.
	e.Selection.SetCollection(list("k1", "k2", "k4", "k3"))
	m.CollectionChanged(e)

	assert.True(t, m.Settle(e, req.Token))
	assert.Equal(t, []Key{"k4"}, e.Selection.SelectedKeys())
	assert.Equal(t, Key("k4"), e.Selection.FocusedKey())
	assert.Equal(t, StateIdle, m.State())
}

func TestDropKeepsChangedSelection(t *testing.T) {
	e := env(list("k1", "k2", "k3"), selection.Options{})
	e.Selection.SetFocusedKey("k2", selection.FocusFirst)
	e.Selection.SetSelectedKeys([]Key{"k2"})
	m := NewMachine(Options{})
	s := NewSession("", nil, nil)
	m.DropEnter(e, s)
	req, _ := m.Drop(context.Background(), e, s, 0, 0)

	// The handler selected something itself.
	e.Selection.SetSelectedKeys([]Key{"k1"})
	e.Selection.SetCollection(list("k1", "k2", "k4", "k3"))
	m.CollectionChanged(e)
	m.Settle(e, req.Token)

	assert.Equal(t, []Key{"k1"}, e.Selection.SelectedKeys())
	assert.Equal(t, Key("k2"), e.Selection.FocusedKey())
}

func TestDropOnItemFocusesIt(t *testing.T) {
	e := env(list("a", "b", "c"), selection.Options{})
	e.Selection.SetFocusedKey("a", selection.FocusFirst)
	rings := 0
	m := NewMachine(Options{OnShowFocusRing: func() { rings++ }})
	s := NewSession("", nil, nil)
	m.DropEnter(e, s)
	m.DropMove(e, s, Item("c", On))

	req, ok := m.Drop(context.Background(), e, s, 0, 0)
	require.True(t, ok)
	require.True(t, m.Settle(e, req.Token))
	assert.Equal(t, Key("c"), e.Selection.FocusedKey())
	assert.True(t, e.Selection.IsFocused())
	assert.Equal(t, 1, rings)
}

func TestStaleSettleIgnored(t *testing.T) {
	e := env(list("a", "b"), selection.Options{})
	m := NewMachine(Options{})
	s := NewSession("", nil, nil)
	m.DropEnter(e, s)
	req, ok := m.Drop(context.Background(), e, s, 0, 0)
	require.True(t, ok)

	m.Cancel(s)
	assert.False(t, m.Settle(e, req.Token))
	assert.Equal(t, StateIdle, m.State())
	assert.Empty(t, s.DropCollection())
}

func TestDropWithoutTargetCancels(t *testing.T) {
	e := env(list("a"), selection.Options{})
	m := NewMachine(Options{DropOperation: func(OperationRequest) Operation { return OpCancel }})
	s := NewSession("", nil, nil)
	assert.True(t, m.DropEnter(e, s).IsZero())

	_, ok := m.Drop(context.Background(), e, s, 0, 0)
	assert.False(t, ok)
	assert.Equal(t, StateIdle, m.State())
}

func TestSession(t *testing.T) {
	s := NewSession("list-1", []Key{"a"}, []DragItem{{"text/plain": "a", "text/uri-list": "x"}, {"text/plain": "b"}})
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, []string{"text/plain", "text/uri-list"}, s.Types())
	assert.True(t, s.IsInternal("list-1"))
	assert.False(t, s.IsInternal("list-2"))
	assert.True(t, s.IsDragging("a"))
	assert.Equal(t, []Operation{OpMove, OpCopy, OpLink}, s.Allowed)
	assert.False(t, NewSession("", nil, nil).IsInternal(""))
}

func TestAutoScroller(t *testing.T) {
	var a AutoScroller
	tests := []struct {
		name   string
		x, y   float64
		dx, dy float64
	}{
		{"center", 100, 100, 0, 0},
		{"top", 100, 5, 0, -1},
		{"bottom right", 295, 195, 1, 1},
		{"left", 10, 100, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := a.Move(300, 200, tt.x, tt.y)
			assert.Equal(t, tt.dx != 0 || tt.dy != 0, active)
			x, y := a.Step(50, 50, 1000, 1000)
			assert.Equal(t, 50+tt.dx, x)
			assert.Equal(t, 50+tt.dy, y)
		})
	}

	a.Move(300, 200, 100, 5)
	_, y := a.Step(0, 0, 1000, 1000)
	assert.Equal(t, float64(0), y)
	a.Stop()
	assert.False(t, a.IsScrolling())
}
