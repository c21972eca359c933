// Package selection implements focus and selection state over a collection.
//
// [Manager] is the single source of truth for the focused key and the
// selected keys of a list, grid, tree or table. It applies the selection
// policy (mode, behavior, disabled keys, empty-selection rules) and maps
// cells to their rows, but knows nothing about rendering or input devices.
package selection

import (
	"slices"

	"github.com/matzehuels/gridkit/pkg/collection"
)

// Selection is an immutable set of selected keys, or the "all" marker.
// The zero value is the empty selection.
type Selection struct {
	all  bool
	keys []collection.Key
	set  map[collection.Key]struct{}

	// AnchorKey is where range selection starts; CurrentKey where the last
	// range ended.
	AnchorKey  collection.Key
	CurrentKey collection.Key
}

// All returns the selection containing every selectable key.
func All() Selection {
	return Selection{all: true}
}

// NewSelection returns a selection of the given keys, in order, without
// duplicates.
func NewSelection(keys ...collection.Key) Selection {
	return Selection{}.with(keys...)
}

// IsAll reports whether s is the "all" marker.
func (s Selection) IsAll() bool { return s.all }

// Has reports whether key is explicitly in s. For the "all" marker it
// returns true; callers that need selectability use Manager.IsSelected.
func (s Selection) Has(key collection.Key) bool {
	if s.all {
		return true
	}
	_, ok := s.set[key]
	return ok
}

// Len returns the number of explicit keys (0 for "all").
func (s Selection) Len() int { return len(s.keys) }

// Keys returns the explicit keys in insertion order.
func (s Selection) Keys() []collection.Key { return slices.Clone(s.keys) }

// Equal reports whether two selections contain the same keys. Anchors are
// not compared.
func (s Selection) Equal(o Selection) bool {
	if s.all || o.all {
		return s.all == o.all
	}
	if len(s.keys) != len(o.keys) {
		return false
	}
	for _, k := range s.keys {
		if _, ok := o.set[k]; !ok {
			return false
		}
	}
	return true
}

// with returns s plus keys, skipping empty and present ones. The result is
// built in one pass so large selections stay linear.
func (s Selection) with(keys ...collection.Key) Selection {
	if s.all {
		return s
	}
	n := s
	copied := false
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := n.set[k]; ok {
			continue
		}
		if !copied {
			n = s.copyWithRoom(len(keys))
			copied = true
		}
		n.keys = append(n.keys, k)
		n.set[k] = struct{}{}
	}
	return n
}

func (s Selection) copyWithRoom(extra int) Selection {
	n := Selection{AnchorKey: s.AnchorKey, CurrentKey: s.CurrentKey}
	n.keys = make([]collection.Key, len(s.keys), len(s.keys)+extra)
	copy(n.keys, s.keys)
	n.set = make(map[collection.Key]struct{}, len(s.keys)+extra)
	for _, k := range s.keys {
		n.set[k] = struct{}{}
	}
	return n
}

// without returns s minus keys.
func (s Selection) without(keys ...collection.Key) Selection {
	if s.all || len(s.keys) == 0 {
		return s
	}
	drop := make(map[collection.Key]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := s.set[k]; ok {
			drop[k] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return s
	}
	n := Selection{AnchorKey: s.AnchorKey, CurrentKey: s.CurrentKey}
	n.set = make(map[collection.Key]struct{}, len(s.keys)-len(drop))
	for _, k := range s.keys {
		if _, ok := drop[k]; !ok {
			n.keys = append(n.keys, k)
			n.set[k] = struct{}{}
		}
	}
	return n
}

func (s Selection) anchored(anchor, current collection.Key) Selection {
	s.AnchorKey = anchor
	s.CurrentKey = current
	return s
}
