package dnd

import (
	"github.com/matzehuels/gridkit/pkg/collection"
)

type Key = collection.Key

// TargetType discriminates drop targets.
type TargetType string

const (
	// TargetRoot is the collection as a whole.
	TargetRoot TargetType = "root"
	// TargetItem is a position relative to one item.
	TargetItem TargetType = "item"
)

// Position is where a drop lands relative to an item.
type Position string

const (
	Before Position = "before"
	On     Position = "on"
	After  Position = "after"
)

// Positions lists the drop positions in stepping order.
var Positions = []Position{Before, On, After}

func positionIndex(p Position) int {
	for i, q := range Positions {
		if q == p {
			return i
		}
	}
	return -1
}

// Target is where a drop would land. The zero value means "no target".
type Target struct {
	Type     TargetType `json:"type,omitempty"`
	Key      Key        `json:"key,omitempty"`
	Position Position   `json:"position,omitempty"`
}

// Root returns the root drop target.
func Root() Target { return Target{Type: TargetRoot} }

// Item returns an item drop target.
func Item(key Key, pos Position) Target {
	return Target{Type: TargetItem, Key: key, Position: pos}
}

// IsZero reports whether t is the "no target" value.
func (t Target) IsZero() bool { return t.Type == "" }

// IsRoot reports whether t targets the collection root.
func (t Target) IsRoot() bool { return t.Type == TargetRoot }

func (t Target) String() string {
	switch t.Type {
	case TargetRoot:
		return "root"
	case TargetItem:
		return string(t.Position) + "(" + string(t.Key) + ")"
	}
	return "none"
}

// Operation is what a drop would do.
type Operation string

const (
	OpCopy   Operation = "copy"
	OpMove   Operation = "move"
	OpLink   Operation = "link"
	OpCancel Operation = "cancel"
)

// ParseOperation parses a drop operation name; unknown names cancel.
func ParseOperation(s string) Operation {
	switch op := Operation(s); op {
	case OpCopy, OpMove, OpLink:
		return op
	}
	return OpCancel
}
