package dnd

import (
	"slices"

	"github.com/google/uuid"
)

// DragItem is one dragged item: data keyed by media type.
type DragItem map[string]string

// Session is one drag operation. It records where the drag started, what is
// being dragged and which collection is currently being dropped on.
type Session struct {
	// ID identifies the drag.
	ID string
	// SourceID is the ID of the collection the drag started in, or empty for
	// drags from outside any collection.
	SourceID string
	// Keys are the dragged keys within the source collection.
	Keys []Key
	// Items is the drag payload.
	Items []DragItem
	// Allowed lists the operations the drag source permits, most preferred
	// first.
	Allowed []Operation

	dropCollection string
}

// NewSession starts a drag of keys from the collection sourceID. With no
// allowed operations, every operation is allowed.
func NewSession(sourceID string, keys []Key, items []DragItem, allowed ...Operation) *Session {
	if len(allowed) == 0 {
		allowed = []Operation{OpMove, OpCopy, OpLink}
	}
	return &Session{
		ID:       uuid.NewString(),
		SourceID: sourceID,
		Keys:     keys,
		Items:    items,
		Allowed:  allowed,
	}
}

// Types returns the sorted media types present in the payload.
func (s *Session) Types() []string {
	var out []string
	for _, it := range s.Items {
		for t := range it {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	slices.Sort(out)
	return out
}

// IsInternal reports whether the drag started in the collection id.
func (s *Session) IsInternal(id string) bool {
	return s.SourceID != "" && s.SourceID == id
}

// IsDragging reports whether key is one of the dragged keys.
func (s *Session) IsDragging(key Key) bool { return slices.Contains(s.Keys, key) }

// DropCollection returns the ID of the collection currently targeted.
func (s *Session) DropCollection() string { return s.dropCollection }

// ClearDropCollection forgets the targeted collection.
func (s *Session) ClearDropCollection() { s.dropCollection = "" }

func (s *Session) setDropCollection(id string) { s.dropCollection = id }
