package columns

import (
	"math"
	"sort"

	"github.com/matzehuels/gridkit/pkg/collection"
)

type Key = collection.Key

// Column is the sizing input for one column. Width must already be the
// effective spec (an override, a controlled width, or a default); an unset
// or "auto" width is treated as 1fr.
type Column struct {
	Key      Key
	Width    Size
	MinWidth Size
	MaxWidth Size
}

// Widths maps column keys to resolved pixel widths.
type Widths map[Key]float64

// Sum returns the total width.
func (w Widths) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

func minWidth(c Column, containerWidth float64) float64 {
	if c.MinWidth.IsStatic() {
		return c.MinWidth.Static(containerWidth)
	}
	return 0
}

func maxWidth(c Column, containerWidth float64) float64 {
	if c.MaxWidth.IsStatic() {
		return c.MaxWidth.Static(containerWidth)
	}
	return math.Inf(1)
}

// clamp bounds v to [lo, hi]; when lo > hi the minimum wins.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func flexOf(s Size) float64 {
	if s.Unit == UnitFr {
		return s.Value
	}
	return 1
}

// Resolve computes pixel widths for cols inside containerWidth, in column
// order.
//
// Static columns (px and %) are resolved first and clamped to their bounds.
// The remaining width is shared by flexible columns, most constrained first:
// each takes round(flex * remaining / remainingFlex), clamped, and leaves
// the rest to the columns after it. The last flexible column therefore
// takes everything that is left regardless of its flex factor. When at
// least one flexible column is unclamped the widths sum to containerWidth.
func Resolve(containerWidth float64, cols []Column) []float64 {
	out := make([]float64, len(cols))
	remaining := containerWidth
	totalFlex := 0.0

	var flex []int
	for i, c := range cols {
		if c.Width.IsStatic() {
			out[i] = clamp(c.Width.Static(containerWidth), minWidth(c, containerWidth), maxWidth(c, containerWidth))
			remaining -= out[i]
			continue
		}
		flex = append(flex, i)
		totalFlex += flexOf(c.Width)
	}
	if len(flex) == 0 {
		return out
	}

	// Columns whose proportional share violates their bounds the most go
	// first so that the clamped remainder flows to the unconstrained ones.
	delta := make(map[int]float64, len(flex))
	for _, i := range flex {
		c := cols[i]
		target := flexOf(c.Width) * remaining / totalFlex
		delta[i] = math.Max(minWidth(c, containerWidth)-target, target-maxWidth(c, containerWidth))
	}
	sort.SliceStable(flex, func(a, b int) bool { return delta[flex[a]] > delta[flex[b]] })

	remainingFlex := totalFlex
	for _, i := range flex {
		c := cols[i]
		f := flexOf(c.Width)
		w := math.Round(f * remaining / remainingFlex)
		w = clamp(w, minWidth(c, containerWidth), maxWidth(c, containerWidth))
		out[i] = w
		remaining -= w
		remainingFlex -= f
	}
	return out
}

// ResolveMap is Resolve keyed by column key.
func ResolveMap(containerWidth float64, cols []Column) Widths {
	ws := Resolve(containerWidth, cols)
	m := make(Widths, len(cols))
	for i, c := range cols {
		m[c.Key] = ws[i]
	}
	return m
}
