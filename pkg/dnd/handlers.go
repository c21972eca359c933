package dnd

import (
	"context"
	"slices"

	"github.com/matzehuels/gridkit/pkg/collection"
)

// OperationRequest asks which operation a drop at Target would perform.
type OperationRequest struct {
	Target     Target
	Types      []string
	Allowed    []Operation
	IsInternal bool
	Keys       []Key
	Collection collection.Collection
}

// OperationFunc decides the operation for a candidate target. OpCancel
// rejects the target. It runs on every pointer move and must be fast; it is
// not expected to fail, and panics are not recovered.
type OperationFunc func(OperationRequest) Operation

// DropEvent is a committed drop.
type DropEvent struct {
	Target     Target
	X, Y       float64
	Items      []DragItem
	Operation  Operation
	IsInternal bool
	Keys       []Key
	// Collection is the collection as it was when the drop happened.
	Collection collection.Collection
}

// DropHandler receives committed drops. It may start asynchronous work;
// the machine does not wait for it beyond the settle window.
type DropHandler func(ctx context.Context, e DropEvent)

// Handlers routes drops to the handler matching the kind of drop, and
// derives the accepted targets from which handlers are set.
type Handlers struct {
	// AcceptedTypes limits the media types accepted. Nil accepts all.
	AcceptedTypes []string

	// OnInsert receives external drops between items.
	OnInsert DropHandler
	// OnReorder receives internal drops between items of the same parent.
	OnReorder DropHandler
	// OnMove receives internal drops between items of another parent.
	OnMove DropHandler
	// OnItemDrop receives drops on an item.
	OnItemDrop DropHandler
	// OnRootDrop receives external drops on the collection as a whole.
	OnRootDrop DropHandler
	// OnDrop receives every drop, in addition to the specific handler.
	OnDrop DropHandler

	// ShouldAcceptItemDrop filters drops on items.
	ShouldAcceptItemDrop func(t Target, types []string) bool
	// Operation picks among the allowed operations. Nil takes the first.
	Operation func(t Target, types []string, allowed []Operation) Operation
}

func (h *Handlers) acceptsTypes(types []string) bool {
	if h.AcceptedTypes == nil {
		return true
	}
	for _, t := range types {
		if slices.Contains(h.AcceptedTypes, t) {
			return true
		}
	}
	return false
}

// withinParent reports whether every dragged key shares the parent of the
// target item.
func withinParent(c collection.Collection, t Target, keys []Key) bool {
	if c == nil || t.Type != TargetItem {
		return false
	}
	target := c.Item(t.Key)
	if target == nil {
		return false
	}
	for _, k := range keys {
		n := c.Item(k)
		if n == nil || n.ParentKey != target.ParentKey {
			return false
		}
	}
	return true
}

func (h *Handlers) isValidDrop(r OperationRequest) bool {
	t := r.Target
	between := t.Type == TargetItem && (t.Position == Before || t.Position == After)
	within := withinParent(r.Collection, t, r.Keys)

	switch {
	case h.OnDrop != nil:
		return true
	case h.OnInsert != nil && between && !r.IsInternal:
		return true
	case h.OnReorder != nil && between && r.IsInternal && within:
		return true
	case h.OnMove != nil && t.Type == TargetItem && r.IsInternal && !within:
		return true
	case h.OnRootDrop != nil && t.IsRoot() && !r.IsInternal:
		return true
	case h.OnItemDrop != nil && t.Type == TargetItem && t.Position == On:
		if r.IsInternal && slices.Contains(r.Keys, t.Key) {
			return false
		}
		return h.ShouldAcceptItemDrop == nil || h.ShouldAcceptItemDrop(t, r.Types)
	}
	return false
}

// DropOperation implements OperationFunc.
func (h *Handlers) DropOperation(r OperationRequest) Operation {
	if r.Target.IsZero() || !h.acceptsTypes(r.Types) || !h.isValidDrop(r) {
		return OpCancel
	}
	if h.Operation != nil {
		return h.Operation(r.Target, r.Types, r.Allowed)
	}
	if len(r.Allowed) == 0 {
		return OpCancel
	}
	return r.Allowed[0]
}

// Drop implements DropHandler by dispatching e to the matching handler.
func (h *Handlers) Drop(ctx context.Context, e DropEvent) {
	if h.OnDrop != nil {
		h.OnDrop(ctx, e)
	}
	t := e.Target
	switch {
	case t.IsRoot():
		if h.OnRootDrop != nil {
			h.OnRootDrop(ctx, e)
		}
	case t.Position == On:
		if h.OnItemDrop != nil {
			h.OnItemDrop(ctx, e)
		}
	case e.IsInternal && withinParent(e.Collection, t, e.Keys):
		if h.OnReorder != nil {
			h.OnReorder(ctx, e)
		}
	case e.IsInternal:
		if h.OnMove != nil {
			h.OnMove(ctx, e)
		}
	case !e.IsInternal && h.OnInsert != nil:
		h.OnInsert(ctx, e)
	}
}
