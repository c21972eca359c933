package collection

import (
	"fmt"
	"testing"
)

func numbered(n int) *ListCollection {
	specs := make([]Spec, n)
	for i := range specs {
		specs[i] = Item(Key(fmt.Sprintf("k%d", i)), fmt.Sprintf("Item %d", i))
	}
	return NewList(specs...)
}

func TestListKeyboardDelegateSkipsNonRows(t *testing.T) {
	d := NewListKeyboardDelegate(fruits())

	tests := []struct {
		name string
		got  Key
		want Key
	}{
		{"first", d.FirstKey(), "apple"},
		{"last skips loader", d.LastKey(), "banana"},
		{"below apple skips section", d.KeyBelow("apple"), "lemon"},
		{"above lemon skips section", d.KeyAbove("lemon"), "apple"},
		{"below banana", d.KeyBelow("banana"), ""},
		{"above apple", d.KeyAbove("apple"), ""},
		{"unknown key", d.KeyBelow("kiwi"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestListKeyboardDelegateDisabled(t *testing.T) {
	d := NewListKeyboardDelegate(numbered(4))
	d.IsDisabled = func(k Key) bool { return k == "k1" || k == "k0" }

	if got := d.FirstKey(); got != "k2" {
		t.Errorf("FirstKey() = %q, want k2", got)
	}
	if got := d.KeyAbove("k2"); got != "" {
		t.Errorf("KeyAbove(k2) = %q, want empty", got)
	}
}

func TestListKeyboardDelegatePaging(t *testing.T) {
	d := NewListKeyboardDelegate(numbered(25))
	d.PageSize = 10

	if got := d.KeyPageBelow("k0"); got != "k10" {
		t.Errorf("KeyPageBelow(k0) = %q, want k10", got)
	}
	if got := d.KeyPageBelow("k20"); got != "k24" {
		t.Errorf("KeyPageBelow(k20) = %q, want k24 (clamped)", got)
	}
	if got := d.KeyPageBelow("k24"); got != "" {
		t.Errorf("KeyPageBelow(k24) = %q, want empty", got)
	}
	if got := d.KeyPageAbove("k15"); got != "k5" {
		t.Errorf("KeyPageAbove(k15) = %q, want k5", got)
	}
}

type fixedRects struct{ rowHeight, page float64 }

func (r fixedRects) ItemRect(key Key) (float64, float64, bool) {
	var i int
	if _, err := fmt.Sscanf(string(key), "k%d", &i); err != nil {
		return 0, 0, false
	}
	return float64(i) * r.rowHeight, r.rowHeight, true
}

func (r fixedRects) PageHeight() float64 { return r.page }

func TestListKeyboardDelegatePagingByRects(t *testing.T) {
	d := NewListKeyboardDelegate(numbered(50))
	d.Rects = fixedRects{rowHeight: 40, page: 200}

	if got := d.KeyPageBelow("k0"); got != "k5" {
		t.Errorf("KeyPageBelow(k0) = %q, want k5", got)
	}
	if got := d.KeyPageAbove("k10"); got != "k5" {
		t.Errorf("KeyPageAbove(k10) = %q, want k5", got)
	}
}
