package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/observability"
)

// logHooks logs engine events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnValidate(strategy string, invalidateAll bool, nodeCount int, d time.Duration) {
	h.logger.Debug("layout validated", "strategy", strategy, "all", invalidateAll, "nodes", nodeCount, "took", d)
}

func (h logHooks) OnRelayout(strategy string, d time.Duration) {
	h.logger.Debug("layout extended", "strategy", strategy, "took", d)
}

func (h logHooks) OnVisibleQuery(strategy string, infoCount int) {
	h.logger.Debug("visible infos", "strategy", strategy, "count", infoCount)
}

func (h logHooks) OnTargetChange(collectionID, target string) {
	h.logger.Debug("drop target", "collection", collectionID, "target", target)
}

func (h logHooks) OnDrop(collectionID, target, operation string) {
	h.logger.Debug("drop", "collection", collectionID, "target", target, "operation", operation)
}

func (h logHooks) OnSettle(collectionID string, inserted int) {
	h.logger.Debug("drop settled", "collection", collectionID, "inserted", inserted)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// registerLogHooks routes engine events to logger when it logs at debug
// level. It reports whether hooks were registered.
func registerLogHooks(logger *log.Logger) bool {
	if logger.GetLevel() > log.DebugLevel {
		return false
	}
	h := logHooks{logger: logger}
	observability.SetLayoutHooks(h)
	observability.SetDropHooks(h)
	observability.SetCacheHooks(h)
	return true
}
