package columns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/errors"
)

// pokemonColumns mirrors the classic example table: two flexible columns,
// two auto columns (150px by default) and a wide flexible column.
func pokemonColumns() []Spec {
	return []Spec{
		{Key: "name", DefaultWidth: Fr(1), AllowsResizing: true},
		{Key: "type", DefaultWidth: Fr(1), AllowsResizing: true},
		{Key: "height", DefaultWidth: Auto(), AllowsResizing: true},
		{Key: "weight", DefaultWidth: Auto(), AllowsResizing: true},
		{Key: "level", DefaultWidth: Fr(4), AllowsResizing: true},
	}
}

func newPokemonLayout(cols []Spec) *Layout {
	l := NewLayout(Options{DefaultWidth: func(Spec) Size { return Px(150) }})
	l.SetColumns(cols)
	return l
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{"", Size{}, false},
		{"120", Px(120), false},
		{"120px", Px(120), false},
		{"25%", Percent(25), false},
		{"2fr", Fr(2), false},
		{" 1.5fr ", Fr(1.5), false},
		{"auto", Auto(), false},
		{"wide", Size{}, true},
		{"-10", Size{}, true},
		{"0fr", Size{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidColumnSize))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSizeString(t *testing.T) {
	for _, s := range []string{"120", "25%", "2fr", "auto", "1.5fr"} {
		assert.Equal(t, s, MustParseSize(s).String())
	}
}

func TestBuildWidthsRedistributesFlexColumns(t *testing.T) {
	l := newPokemonLayout(pokemonColumns())

	l.BuildWidths(900)
	assert.Equal(t, []float64{100, 100, 150, 150, 400}, l.Ordered())

	l.BuildWidths(1000)
	assert.Equal(t, []float64{117, 117, 150, 150, 466}, l.Ordered())
}

func TestResizeColumnFreezesLeftAndFlexesRight(t *testing.T) {
	l := newPokemonLayout(pokemonColumns())
	l.BuildWidths(900)

	got := l.ResizeColumn(900, "name", 50)
	assert.Equal(t, []float64{50, 110, 150, 150, 440}, l.Ordered())
	assert.Equal(t, map[Key]Size{
		"name":   Px(50),
		"type":   Fr(1),
		"height": Px(150),
		"weight": Px(150),
		"level":  Fr(4),
	}, got)

	// The resized width sticks when the table is laid out again.
	l.BuildWidths(900)
	assert.Equal(t, []float64{50, 110, 150, 150, 440}, l.Ordered())
}

func TestResizeColumnFreezesEarlierColumns(t *testing.T) {
	l := newPokemonLayout(pokemonColumns())
	l.BuildWidths(900)

	got := l.ResizeColumn(900, "type", 200)
	assert.Equal(t, Px(100), got["name"], "columns left of the resized one are frozen")
	assert.Equal(t, []float64{100, 200, 150, 150, 300}, l.Ordered())
	assert.InDelta(t, 900, l.Widths().Sum(), 0.001)
}

func TestResizeColumnClampsToMinWidth(t *testing.T) {
	cols := pokemonColumns()
	cols[0].MinWidth = Px(75)
	l := newPokemonLayout(cols)
	l.BuildWidths(900)

	got := l.ResizeColumn(900, "name", 50)
	assert.Equal(t, Px(75), got["name"])
	assert.Equal(t, []float64{75, 105, 150, 150, 420}, l.Ordered(), "the adjacent flexible columns take the remainder")
}

func TestResizeColumnFloorsWidth(t *testing.T) {
	l := newPokemonLayout(pokemonColumns())
	l.ResizeColumn(900, "name", 80.9)
	assert.Equal(t, float64(80), l.Width("name"))
}

func TestResizeUnknownColumn(t *testing.T) {
	l := newPokemonLayout(pokemonColumns())
	assert.Nil(t, l.ResizeColumn(900, "nope", 10))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		cols  []Column
		want  []float64
	}{
		{
			name:  "percent and flex",
			width: 400,
			cols:  []Column{{Key: "a", Width: Percent(25)}, {Key: "b", Width: Fr(1)}},
			want:  []float64{100, 300},
		},
		{
			name:  "static clamped to max",
			width: 400,
			cols:  []Column{{Key: "a", Width: Px(300), MaxWidth: Px(120)}, {Key: "b", Width: Fr(1)}},
			want:  []float64{120, 280},
		},
		{
			name:  "min wins over max",
			width: 400,
			cols:  []Column{{Key: "a", Width: Px(100), MinWidth: Px(80), MaxWidth: Px(50)}},
			want:  []float64{80},
		},
		{
			name:  "flex clamped to min",
			width: 300,
			cols:  []Column{{Key: "a", Width: Fr(1), MinWidth: Px(200)}, {Key: "b", Width: Fr(1)}},
			want:  []float64{200, 100},
		},
		{
			name:  "unset width is 1fr",
			width: 300,
			cols:  []Column{{Key: "a"}, {Key: "b", Width: Fr(2)}},
			want:  []float64{100, 200},
		},
		{
			name:  "only static columns may fall short",
			width: 500,
			cols:  []Column{{Key: "a", Width: Px(100)}, {Key: "b", Width: Px(100)}},
			want:  []float64{100, 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.width, tt.cols))
		})
	}
}

// The last flexible column processed takes the whole remainder, even when
// its flex factor would give it less. This is the intended policy.
func TestResolveLastFlexColumnAbsorbsRemainder(t *testing.T) {
	cols := []Column{
		{Key: "a", Width: Fr(2)},
		{Key: "b", Width: Fr(1), MaxWidth: Px(50)},
	}
	assert.Equal(t, []float64{350, 50}, Resolve(400, cols))

	cols = []Column{
		{Key: "a", Width: Fr(1), MaxWidth: Px(50)},
		{Key: "b", Width: Fr(3)},
	}
	assert.Equal(t, []float64{50, 350}, Resolve(400, cols))
}

func TestResolveSumsToContainerWidth(t *testing.T) {
	cols := []Column{
		{Key: "name", Width: Fr(1), MinWidth: Px(40)},
		{Key: "type", Width: Fr(1), MaxWidth: Px(200)},
		{Key: "pct", Width: Percent(10)},
		{Key: "fixed", Width: Px(120)},
		{Key: "level", Width: Fr(3)},
	}
	for w := 400.0; w <= 2400; w += 37 {
		got := Resolve(w, cols)
		var sum float64
		for i, v := range got {
			sum += v
			lo, hi := minWidth(cols[i], w), maxWidth(cols[i], w)
			assert.GreaterOrEqual(t, v, lo, "width %v column %s", w, cols[i].Key)
			assert.LessOrEqual(t, v, hi, "width %v column %s", w, cols[i].Key)
		}
		assert.InDelta(t, w, sum, 0.001, "width %v", w)
		assert.False(t, math.IsNaN(sum))
	}
}

func TestSpecFromNode(t *testing.T) {
	n := &collection.Node{Key: "name", Props: collection.Props{Width: "2fr", MinWidth: "60", MaxWidth: "50%", AllowsResizing: true}}
	s, err := SpecFromNode(n)
	require.NoError(t, err)
	assert.Equal(t, Spec{Key: "name", Width: Fr(2), MinWidth: Px(60), MaxWidth: Percent(50), AllowsResizing: true}, s)

	_, err = SpecFromNode(&collection.Node{Key: "bad", Props: collection.Props{MinWidth: "1fr"}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidColumnSize))

	_, err = SpecFromNode(&collection.Node{Key: "bad", Props: collection.Props{Width: "huge"}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidColumnSize))
}

func TestSetColumnsKeepsUncontrolledWidths(t *testing.T) {
	l := newPokemonLayout(pokemonColumns())
	l.ResizeColumn(900, "name", 60)

	cols := append(pokemonColumns(), Spec{Key: "extra", DefaultWidth: Px(50)})
	l.SetColumns(cols)
	l.BuildWidths(950)
	assert.Equal(t, float64(60), l.Width("name"))
	assert.Equal(t, float64(50), l.Width("extra"))
}

func TestControlledWidthWins(t *testing.T) {
	cols := pokemonColumns()
	cols[0].Width = Px(200)
	l := newPokemonLayout(cols)
	l.BuildWidths(900)
	assert.Equal(t, float64(200), l.Width("name"))

	// Controlled widths are reported but not stored.
	got := l.ResizeColumn(900, "name", 100)
	assert.Equal(t, Px(100), got["name"])
	l.BuildWidths(900)
	assert.Equal(t, float64(200), l.Width("name"))
}

func TestResizeState(t *testing.T) {
	cols := pokemonColumns()
	cols[4].AllowsResizing = false
	l := newPokemonLayout(cols)
	l.BuildWidths(900)

	var started bool
	var updates int
	var ended map[Key]Size
	r := NewResizeState(l)
	r.OnResizeStart = func(Widths) { started = true }
	r.OnResize = func(map[Key]Size) { updates++ }
	r.OnResizeEnd = func(m map[Key]Size) { ended = m }

	assert.False(t, r.StartResize("level"), "level does not allow resizing")
	assert.Nil(t, r.UpdateResize(900, 10))

	require.True(t, r.StartResize("name"))
	assert.True(t, started)
	assert.Equal(t, Key("name"), r.ResizingColumn())
	r.UpdateResize(900, 80)
	r.UpdateResize(900, 50)
	out := r.EndResize()

	assert.Equal(t, 2, updates)
	assert.Equal(t, Px(50), out["name"])
	assert.Equal(t, out, ended)
	assert.Equal(t, Key(""), r.ResizingColumn())
}
