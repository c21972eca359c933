package layout

import (
	"encoding/json"
	"math"
)

// Snapshot is a serializable view of a validated layout: the infos visible
// in a rect, in render order, plus the content size and, for tables, the
// resolved column widths.
type Snapshot struct {
	Strategy     string          `json:"strategy"`
	ContentSize  Size            `json:"content_size"`
	VisibleRect  Rect            `json:"visible_rect"`
	Infos        []Info          `json:"infos"`
	ColumnWidths map[Key]float64 `json:"column_widths,omitempty"`
	HeaderHeight float64         `json:"header_height,omitempty"`
}

// Snapshot captures the infos visible in the current visible rect.
func (l *Layout) Snapshot() Snapshot {
	infos := l.VisibleInfos(l.visibleRect)
	snap := Snapshot{
		Strategy:    l.strategy.Name(),
		ContentSize: l.contentSize,
		VisibleRect: l.visibleRect,
		Infos:       make([]Info, len(infos)),
	}
	for i, info := range infos {
		snap.Infos[i] = *info
		snap.Infos[i].Rect = finite(info.Rect)
	}
	if t, ok := l.strategy.(*TableStrategy); ok {
		snap.ColumnWidths = t.ColumnWidths()
		snap.HeaderHeight = t.HeaderHeight(l)
	}
	return snap
}

// Info returns the snapshot info with key.
func (s Snapshot) Info(key Key) (Info, bool) {
	for _, info := range s.Infos {
		if info.Key == key {
			return info, true
		}
	}
	return Info{}, false
}

// MarshalSnapshot encodes a snapshot as indented JSON.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot decodes a snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	err := json.Unmarshal(data, &s)
	return s, err
}

// finite clamps unbounded extents, which JSON cannot represent.
func finite(r Rect) Rect {
	if math.IsInf(r.Width, 1) {
		r.Width = math.MaxFloat64
	}
	if math.IsInf(r.Height, 1) {
		r.Height = math.MaxFloat64
	}
	return r
}
