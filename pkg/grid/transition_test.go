package grid

import (
	"testing"
	"time"
)

func TestCheckboxTransition(t *testing.T) {
	tr := NewCheckboxTransition(false)
	if tr.InCollection() {
		t.Fatal("hidden column should not be in the collection")
	}

	token, d, ok := tr.Toggle(true)
	if !ok || d != DefaultCheckboxTransition {
		t.Fatalf("Toggle(true) = %d, %v, %v", token, d, ok)
	}
	if !tr.InCollection() || !tr.IsTransitioning() {
		t.Error("showing column should be in the collection while animating")
	}
	if !tr.End(token) || tr.IsTransitioning() {
		t.Error("End(token) should finish the transition")
	}

	if _, _, ok := tr.Toggle(true); ok {
		t.Error("Toggle to the current state should be a no-op")
	}
}

func TestCheckboxTransitionHideKeepsColumn(t *testing.T) {
	tr := &CheckboxTransition{Duration: 10 * time.Millisecond, show: true}

	first, d, _ := tr.Toggle(false)
	if d != 10*time.Millisecond {
		t.Errorf("delay = %v, want 10ms", d)
	}
	if !tr.InCollection() {
		t.Error("column should stay while animating out")
	}

	second, _, _ := tr.Toggle(true)
	third, _, _ := tr.Toggle(false)
	if tr.End(first) || tr.End(second) {
		t.Error("stale tokens should be ignored")
	}
	if !tr.End(third) {
		t.Error("latest token should end the transition")
	}
	if tr.InCollection() {
		t.Error("hidden column should leave the collection after the transition")
	}
}
