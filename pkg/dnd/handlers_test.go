package dnd

import (
	"context"
	"testing"

	"github.com/matzehuels/gridkit/pkg/collection"
)

func TestHandlersDropOperation(t *testing.T) {
	c := collection.NewList(
		collection.Section("s1", "One", collection.Item("a", "A"), collection.Item("b", "B")),
		collection.Section("s2", "Two", collection.Item("c", "C")),
	)
	noop := func(context.Context, DropEvent) {}
	allowed := []Operation{OpMove, OpCopy}

	tests := []struct {
		name     string
		h        Handlers
		target   Target
		internal bool
		keys     []Key
		types    []string
		want     Operation
	}{
		{"insert between", Handlers{OnInsert: noop}, Item("a", After), false, nil, nil, OpMove},
		{"insert rejects on", Handlers{OnInsert: noop}, Item("a", On), false, nil, nil, OpCancel},
		{"insert rejects internal", Handlers{OnInsert: noop}, Item("a", After), true, []Key{"b"}, nil, OpCancel},
		{"reorder within parent", Handlers{OnReorder: noop}, Item("a", Before), true, []Key{"b"}, nil, OpMove},
		{"reorder across parents", Handlers{OnReorder: noop}, Item("c", Before), true, []Key{"a"}, nil, OpCancel},
		{"move across parents", Handlers{OnMove: noop}, Item("c", Before), true, []Key{"a"}, nil, OpMove},
		{"root drop", Handlers{OnRootDrop: noop}, Root(), false, nil, nil, OpMove},
		{"item drop on itself", Handlers{OnItemDrop: noop}, Item("a", On), true, []Key{"a"}, nil, OpCancel},
		{"item drop", Handlers{OnItemDrop: noop}, Item("a", On), true, []Key{"b"}, nil, OpMove},
		{"accepted types", Handlers{OnDrop: noop, AcceptedTypes: []string{"text/csv"}}, Root(), false, nil, []string{"text/plain"}, OpCancel},
		{"custom operation", Handlers{OnDrop: noop, Operation: func(Target, []string, []Operation) Operation { return OpLink }}, Root(), false, nil, nil, OpLink},
		{"no handlers", Handlers{}, Root(), false, nil, nil, OpCancel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.h.DropOperation(OperationRequest{
				Target:     tt.target,
				Types:      tt.types,
				Allowed:    allowed,
				IsInternal: tt.internal,
				Keys:       tt.keys,
				Collection: c,
			})
			if got != tt.want {
				t.Errorf("DropOperation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandlersDropDispatch(t *testing.T) {
	c := collection.NewList(collection.Item("a", "A"), collection.Item("b", "B"))
	var got []string
	record := func(name string) DropHandler {
		return func(context.Context, DropEvent) { got = append(got, name) }
	}
	h := &Handlers{
		OnInsert:   record("insert"),
		OnReorder:  record("reorder"),
		OnItemDrop: record("item"),
		OnRootDrop: record("root"),
	}
	ctx := context.Background()
	h.Drop(ctx, DropEvent{Target: Root()})
	h.Drop(ctx, DropEvent{Target: Item("a", On)})
	h.Drop(ctx, DropEvent{Target: Item("a", Before), IsInternal: true, Keys: []Key{"b"}, Collection: c})
	h.Drop(ctx, DropEvent{Target: Item("a", After)})

	want := []string{"root", "item", "reorder", "insert"}
	if len(got) != len(want) {
		t.Fatalf("handlers called = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("handlers called = %v, want %v", got, want)
			break
		}
	}
}
