package grid

import "time"

// DefaultCheckboxTransition is how long the selection checkbox column
// animates in or out.
const DefaultCheckboxTransition = 600 * time.Millisecond

// CheckboxTransition tracks showing and hiding the selection checkbox
// column. A hidden column stays in the collection until the transition
// ends, so the owner can animate it out. Each Toggle returns a token; the
// owner delivers End(token) after the returned delay and only the latest
// token completes the transition.
type CheckboxTransition struct {
	// Duration defaults to DefaultCheckboxTransition.
	Duration time.Duration

	show   bool
	active bool
	token  uint64
}

// NewCheckboxTransition returns a settled transition showing or hiding the
// column.
func NewCheckboxTransition(show bool) *CheckboxTransition {
	return &CheckboxTransition{show: show}
}

// Toggle starts a transition to show. It returns the token and delay for
// End, and false when show is already the target.
func (t *CheckboxTransition) Toggle(show bool) (uint64, time.Duration, bool) {
	if show == t.show {
		return 0, 0, false
	}
	t.show = show
	t.active = true
	t.token++
	d := t.Duration
	if d <= 0 {
		d = DefaultCheckboxTransition
	}
	return t.token, d, true
}

// End completes the transition started with token.
func (t *CheckboxTransition) End(token uint64) bool {
	if !t.active || token != t.token {
		return false
	}
	t.active = false
	return true
}

// Shown reports whether the target state shows the column.
func (t *CheckboxTransition) Shown() bool { return t.show }

// InCollection reports whether the column belongs in the collection: while
// shown, and while animating out.
func (t *CheckboxTransition) InCollection() bool { return t.show || t.active }

// IsTransitioning reports whether a transition is in progress.
func (t *CheckboxTransition) IsTransitioning() bool { return t.active }
