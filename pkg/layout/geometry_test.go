package layout

import "testing"

func TestRectIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRect(5, 5, 5, 5)},
		{"contained", NewRect(0, 0, 10, 10), NewRect(2, 2, 2, 2), NewRect(2, 2, 2, 2)},
		{"touching", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), Rect{}},
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(50, 50, 1, 1), Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersection(tt.b); got != tt.want {
				t.Errorf("Intersection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnionContains(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(20, 5, 10, 10)
	u := a.Union(b)
	if u != NewRect(0, 0, 30, 15) {
		t.Errorf("Union() = %v", u)
	}
	if !u.Contains(a) || !u.Contains(b) {
		t.Error("Union() does not contain its inputs")
	}
	if a.Contains(b) {
		t.Error("Contains() = true for a disjoint rect")
	}
	if !a.ContainsPoint(Point{X: 0, Y: 9.5}) || a.ContainsPoint(Point{X: 10, Y: 5}) {
		t.Error("ContainsPoint() edge handling is wrong")
	}
}

func TestRectCorners(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	if got := r.TopLeft(); got != (Point{X: 10, Y: 20}) {
		t.Errorf("TopLeft() = %v", got)
	}
	if got := r.TopRight(); got != (Point{X: 40, Y: 20}) {
		t.Errorf("TopRight() = %v", got)
	}
	if got := r.BottomRight(); got != (Point{X: 40, Y: 60}) {
		t.Errorf("BottomRight() = %v", got)
	}
}
