package layout

import "time"

// DefaultLoadMoreThreshold is the remaining scroll distance, in viewport
// heights, below which more content is requested.
const DefaultLoadMoreThreshold = 1.0

// LoadMoreTracker requests more content when the viewport nears the end of
// the laid out content. It fires once and then stays latched until the
// caller reports that loading finished.
type LoadMoreTracker struct {
	// Threshold defaults to DefaultLoadMoreThreshold.
	Threshold  float64
	OnLoadMore func()

	loading   bool
	requested bool
}

// SetLoading records whether the owner is loading. Reporting false releases
// the latch.
func (t *LoadMoreTracker) SetLoading(loading bool) {
	t.loading = loading
	if !loading {
		t.requested = false
	}
}

// IsLoading reports whether a load is requested or in progress.
func (t *LoadMoreTracker) IsLoading() bool { return t.loading || t.requested }

// Update checks the viewport against the content size and calls OnLoadMore
// when the remaining content is below the threshold. It reports whether it
// fired.
func (t *LoadMoreTracker) Update(content Size, visible Rect) bool {
	if t.IsLoading() || t.OnLoadMore == nil {
		return false
	}
	threshold := t.Threshold
	if threshold <= 0 {
		threshold = DefaultLoadMoreThreshold
	}
	if content.Height-visible.MaxY() >= visible.Height*threshold {
		return false
	}
	t.requested = true
	t.OnLoadMore()
	return true
}

// DefaultScrollEndDelay is how long after the last scroll event scrolling
// is considered finished.
const DefaultScrollEndDelay = 300 * time.Millisecond

// ScrollTracker tracks whether the viewport is being scrolled. Each Scroll
// returns a token; the owner delivers End(token) after Delay, and only the
// token of the latest scroll ends scrolling.
type ScrollTracker struct {
	// Delay defaults to DefaultScrollEndDelay.
	Delay         time.Duration
	OnScrollStart func()
	OnScrollEnd   func()

	scrolling bool
	token     uint64
}

// Scroll records a scroll event and returns the token and delay for the
// scroll-end notification.
func (s *ScrollTracker) Scroll() (uint64, time.Duration) {
	if !s.scrolling {
		s.scrolling = true
		if s.OnScrollStart != nil {
			s.OnScrollStart()
		}
	}
	s.token++
	d := s.Delay
	if d <= 0 {
		d = DefaultScrollEndDelay
	}
	return s.token, d
}

// End finishes scrolling if token belongs to the latest scroll.
func (s *ScrollTracker) End(token uint64) bool {
	if !s.scrolling || token != s.token {
		return false
	}
	s.scrolling = false
	if s.OnScrollEnd != nil {
		s.OnScrollEnd()
	}
	return true
}

// IsScrolling reports whether a scroll is in progress.
func (s *ScrollTracker) IsScrolling() bool { return s.scrolling }
