package fixture

import (
	"bytes"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/dnd"
	"github.com/matzehuels/gridkit/pkg/errors"
)

// Move returns a copy of the fixture with the rows (or items) keys moved to
// target: before or after a sibling, onto a parent as its last children, or
// to the end of the top level for the root target. A key nested under
// another moved key travels with its ancestor. The receiver is not
// modified.
func (f *Fixture) Move(keys []collection.Key, target dnd.Target) (*Fixture, error) {
	moved := make(map[string]bool, len(keys))
	for _, k := range keys {
		moved[string(k)] = true
	}
	if target.Type == dnd.TargetItem && moved[string(target.Key)] {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot move %q onto itself", target.Key)
	}

	out := *f
	var err error
	if f.Kind() == KindTable {
		out.Rows, err = moveTree(f.Rows, moved, target, rowAccess)
	} else {
		out.Items, err = moveTree(f.Items, moved, target, itemAccess)
	}
	if err != nil {
		return nil, err
	}
	if out.raw, err = out.Encode(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Encode writes the fixture back as TOML.
func (f *Fixture) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode fixture")
	}
	return buf.Bytes(), nil
}

// access reads and rebuilds the tree nodes of one fixture kind.
type access[T any] struct {
	key      func(T) string
	children func(T) []T
	with     func(T, []T) T
}

var rowAccess = access[Row]{
	key:      func(r Row) string { return r.Key },
	children: func(r Row) []Row { return r.Children },
	with:     func(r Row, c []Row) Row { r.Children = c; return r },
}

var itemAccess = access[Item]{
	key:      func(it Item) string { return it.Key },
	children: func(it Item) []Item { return it.Children },
	with:     func(it Item, c []Item) Item { it.Children = c; return it },
}

// moveTree detaches the moved nodes, in document order, and inserts them at
// target. Every level on the way is copied.
func moveTree[T any](nodes []T, moved map[string]bool, target dnd.Target, a access[T]) ([]T, error) {
	rest, taken := detach(nodes, moved, a)
	if len(taken) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "none of the moved keys exist")
	}
	if target.IsRoot() {
		return append(rest, taken...), nil
	}
	out, ok := insert(rest, target, taken, a)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "drop target %s not found", target)
	}
	return out, nil
}

func detach[T any](nodes []T, moved map[string]bool, a access[T]) (rest, taken []T) {
	rest = make([]T, 0, len(nodes))
	for _, n := range nodes {
		if moved[a.key(n)] {
			taken = append(taken, n)
			continue
		}
		kids, sub := detach(a.children(n), moved, a)
		taken = append(taken, sub...)
		if len(a.children(n)) > 0 {
			n = a.with(n, kids)
		}
		rest = append(rest, n)
	}
	return rest, taken
}

func insert[T any](nodes []T, target dnd.Target, taken []T, a access[T]) ([]T, bool) {
	for i, n := range nodes {
		if a.key(n) != string(target.Key) {
			continue
		}
		switch target.Position {
		case dnd.Before:
			return slices.Concat(nodes[:i], taken, nodes[i:]), true
		case dnd.After:
			return slices.Concat(nodes[:i+1], taken, nodes[i+1:]), true
		default:
			out := slices.Clone(nodes)
			out[i] = a.with(n, slices.Concat(a.children(n), taken))
			return out, true
		}
	}
	for i, n := range nodes {
		kids, ok := insert(a.children(n), target, taken, a)
		if ok {
			out := slices.Clone(nodes)
			out[i] = a.with(n, kids)
			return out, true
		}
	}
	return nil, false
}
