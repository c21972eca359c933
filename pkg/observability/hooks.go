// Package observability lets drivers watch the engine without the engine
// depending on a metrics or tracing backend.
//
// Three hook families exist: [LayoutHooks] (validation passes, lazy
// relayouts, visible-set queries), [DropHooks] (target changes, drops, the
// end of the settle window) and [CacheHooks] (hits, misses, writes by key
// namespace). Each defaults to a no-op; a driver replaces them once at
// startup:
//
//	observability.SetLayoutHooks(myLayoutHooks{})
//	observability.SetDropHooks(myDropHooks{})
//
// Layout and drop hooks run on the synchronous interaction path (pointer
// moves, relayouts), so they take no context and must return quickly. The
// gridkit CLI registers hooks that log each event at debug level.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the virtualized layout engine.
type LayoutHooks interface {
	// OnValidate records a full validation pass triggered by a collection,
	// size or column change.
	OnValidate(strategy string, invalidateAll bool, nodeCount int, duration time.Duration)

	// OnRelayout records a lazy relayout caused by a visible-rect query
	// reaching outside the validated region.
	OnRelayout(strategy string, duration time.Duration)

	// OnVisibleQuery records a visible-set query and the number of infos returned.
	OnVisibleQuery(strategy string, infoCount int)
}

// =============================================================================
// Drop Hooks
// =============================================================================

// DropHooks receives events from the droppable collection state machine.
type DropHooks interface {
	// OnTargetChange records a change of the current drop target.
	// The target is rendered with its String method.
	OnTargetChange(collectionID, target string)

	// OnDrop records a committed drop.
	OnDrop(collectionID, target, operation string)

	// OnSettle records the end of the post-drop settle window.
	OnSettle(collectionID string, inserted int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives cache events. keyType is the key namespace:
// "layout", "artifact", "fixture" or "response", possibly behind a scope
// prefix.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnValidate(string, bool, int, time.Duration) {}
func (NoopLayoutHooks) OnRelayout(string, time.Duration)            {}
func (NoopLayoutHooks) OnVisibleQuery(string, int)                  {}

// NoopDropHooks is a no-op implementation of DropHooks.
type NoopDropHooks struct{}

func (NoopDropHooks) OnTargetChange(string, string)  {}
func (NoopDropHooks) OnDrop(string, string, string) {}
func (NoopDropHooks) OnSettle(string, int)          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	dropHooks   DropHooks   = NoopDropHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks replaces the layout hooks. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetDropHooks replaces the drop hooks. A nil h is ignored.
func SetDropHooks(h DropHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dropHooks = h
	}
}

// SetCacheHooks replaces the cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Drop returns the registered drop hooks.
func Drop() DropHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dropHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	dropHooks = NoopDropHooks{}
	cacheHooks = NoopCacheHooks{}
}
