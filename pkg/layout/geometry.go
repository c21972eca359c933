package layout

import "math"

// Point is a position in content coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width and height.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns Width*Height.
func (s Size) Area() float64 { return s.Width * s.Height }

// Rect is an axis-aligned rectangle. Width and Height may be +Inf for an
// unbounded rect.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect returns a rect.
func NewRect(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

func (r Rect) MaxX() float64      { return r.X + r.Width }
func (r Rect) MaxY() float64      { return r.Y + r.Height }
func (r Rect) Area() float64      { return r.Width * r.Height }
func (r Rect) Size() Size         { return Size{Width: r.Width, Height: r.Height} }
func (r Rect) TopLeft() Point     { return Point{X: r.X, Y: r.Y} }
func (r Rect) TopRight() Point    { return Point{X: r.MaxX(), Y: r.Y} }
func (r Rect) BottomRight() Point { return Point{X: r.MaxX(), Y: r.MaxY()} }
func (r Rect) IsEmpty() bool      { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and o overlap with a positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return r.X <= o.X && r.Y <= o.Y && r.MaxX() >= o.MaxX() && r.MaxY() >= o.MaxY()
}

// ContainsPoint reports whether p lies within r (right and bottom edges
// excluded).
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Intersection returns the overlap of r and o, or the zero rect.
func (r Rect) Intersection(o Rect) Rect {
	if !r.Intersects(o) {
		return Rect{}
	}
	x := math.Max(r.X, o.X)
	y := math.Max(r.Y, o.Y)
	return Rect{X: x, Y: y, Width: math.Min(r.MaxX(), o.MaxX()) - x, Height: math.Min(r.MaxY(), o.MaxY()) - y}
}

// Union returns the smallest rect containing r and o.
func (r Rect) Union(o Rect) Rect {
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	return Rect{X: x, Y: y, Width: math.Max(r.MaxX(), o.MaxX()) - x, Height: math.Max(r.MaxY(), o.MaxY()) - y}
}
