package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSnapshot(t *testing.T) {
	l, _ := newTable(t, fileTable(fileColumns, 50), tableOpts(), NewRect(0, 0, 300, 155))

	snap := l.Snapshot()
	assert.Equal(t, "table", snap.Strategy)
	assert.Equal(t, Size{Width: 300, Height: 50 * 31}, snap.ContentSize)
	assert.Equal(t, float64(20), snap.HeaderHeight)
	assert.Equal(t, map[Key]float64{"name": 100, "size": 100, "kind": 100}, snap.ColumnWidths)

	info, ok := snap.Info("r0/kind")
	require.True(t, ok)
	assert.Equal(t, NewRect(200, 0, 100, 30), info.Rect)

	_, ok = snap.Info("r40")
	assert.False(t, ok, "rows far below the viewport are not in the snapshot")

	data, err := MarshalSnapshot(snap)
	require.NoError(t, err)
	back, err := UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap, back)
}

func TestListSnapshot(t *testing.T) {
	l := newList(t, 100, ListOptions{RowHeight: 40})

	snap := l.Snapshot()
	assert.Equal(t, "list", snap.Strategy)
	assert.Empty(t, snap.ColumnWidths)
	assert.Equal(t, []Key{"i0", "i1", "i2", "i3", "i4"}, snapshotKeys(snap))
}

func snapshotKeys(s Snapshot) []Key {
	out := make([]Key, len(s.Infos))
	for i, info := range s.Infos {
		out[i] = info.Key
	}
	return out
}
