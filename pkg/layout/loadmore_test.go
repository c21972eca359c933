package layout

import (
	"testing"
	"time"
)

func TestLoadMoreTracker(t *testing.T) {
	calls := 0
	lm := &LoadMoreTracker{OnLoadMore: func() { calls++ }}
	content := Size{Width: 300, Height: 1000}

	if lm.Update(content, NewRect(0, 0, 300, 200)) {
		t.Fatal("Update() far from the end fired")
	}
	if !lm.Update(content, NewRect(0, 700, 300, 200)) {
		t.Fatal("Update() near the end did not fire")
	}
	// Latched until loading finishes.
	lm.Update(content, NewRect(0, 750, 300, 200))
	lm.SetLoading(true)
	lm.Update(content, NewRect(0, 800, 300, 200))
	if calls != 1 {
		t.Fatalf("OnLoadMore calls = %d, want 1", calls)
	}

	lm.SetLoading(false)
	if !lm.Update(content, NewRect(0, 800, 300, 200)) {
		t.Error("Update() after loading finished did not fire")
	}
	if calls != 2 {
		t.Errorf("OnLoadMore calls = %d, want 2", calls)
	}
}

func TestScrollTracker(t *testing.T) {
	var events []string
	s := &ScrollTracker{
		OnScrollStart: func() { events = append(events, "start") },
		OnScrollEnd:   func() { events = append(events, "end") },
	}

	first, d := s.Scroll()
	if d != DefaultScrollEndDelay {
		t.Errorf("delay = %v, want %v", d, DefaultScrollEndDelay)
	}
	second, _ := s.Scroll()
	if s.End(first) {
		t.Error("End() with a stale token = true")
	}
	if !s.IsScrolling() {
		t.Error("IsScrolling() = false after stale end")
	}
	if !s.End(second) {
		t.Error("End() with the latest token = false")
	}
	if got := len(events); got != 2 || events[0] != "start" || events[1] != "end" {
		t.Errorf("events = %v, want [start end]", events)
	}

	s = &ScrollTracker{Delay: 10 * time.Millisecond}
	if _, d := s.Scroll(); d != 10*time.Millisecond {
		t.Errorf("delay = %v, want 10ms", d)
	}
}
