package dnd

// DefaultAutoScrollEdge is the width of the band along each viewport edge
// in which a drag scrolls the viewport.
const DefaultAutoScrollEdge = 20

// AutoScroller scrolls a viewport while a drag hovers near its edges.
type AutoScroller struct {
	// Edge defaults to DefaultAutoScrollEdge.
	Edge float64
	// Speed is the distance scrolled per Step. Defaults to 1.
	Speed float64

	dx, dy float64
}

func (a *AutoScroller) edge() float64 {
	if a.Edge <= 0 {
		return DefaultAutoScrollEdge
	}
	return a.Edge
}

func (a *AutoScroller) speed() float64 {
	if a.Speed <= 0 {
		return 1
	}
	return a.Speed
}

// Move records the pointer at (x, y) relative to a viewport of the given
// size and reports whether scrolling is active.
func (a *AutoScroller) Move(width, height, x, y float64) bool {
	e, v := a.edge(), a.speed()
	switch {
	case x < e:
		a.dx = -v
	case width-x < e:
		a.dx = v
	default:
		a.dx = 0
	}
	switch {
	case y < e:
		a.dy = -v
	case height-y < e:
		a.dy = v
	default:
		a.dy = 0
	}
	return a.IsScrolling()
}

// Stop ends scrolling.
func (a *AutoScroller) Stop() { a.dx, a.dy = 0, 0 }

// IsScrolling reports whether the last Move was inside an edge band.
func (a *AutoScroller) IsScrolling() bool { return a.dx != 0 || a.dy != 0 }

// Step applies one scroll step to the offset (x, y), clamped to
// [0, maxX] and [0, maxY].
func (a *AutoScroller) Step(x, y, maxX, maxY float64) (float64, float64) {
	x = min(max(x+a.dx, 0), max(maxX, 0))
	y = min(max(y+a.dy, 0), max(maxY, 0))
	return x, y
}
