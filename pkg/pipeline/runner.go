package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/fixture"
	"github.com/matzehuels/gridkit/pkg/layout"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, as long as the cache backend is safe for
// concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Observe(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	f, hash, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Fixture = f
	result.FixtureHash = hash
	result.Collection = f.Collection()
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.RowCount = result.Collection.Size()

	r.Logger.Info("parsed fixture",
		"kind", f.Kind(),
		"rows", result.Stats.RowCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	snap, layoutHit, err := r.LayoutWithCacheInfo(ctx, f, hash, result.Collection, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Snapshot = snap
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.VisibleCount = len(snap.Infos)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"strategy", snap.Strategy,
		"visible", len(snap.Infos),
		"content", fmt.Sprintf("%.0fx%.0f", snap.ContentSize.Width, snap.ContentSize.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, f, hash, result.Collection, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse loads the fixture named by opts and returns it with the hash of its
// source. Parsing is cheap, so it is never cached.
func (r *Runner) Parse(ctx context.Context, opts Options) (*fixture.Fixture, string, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, "", err
	}
	var f *fixture.Fixture
	var err error
	if opts.Fixture != "" {
		f, err = fixture.Load(opts.Fixture)
	} else {
		f, err = fixture.Parse([]byte(opts.Source))
	}
	if err != nil {
		return nil, "", err
	}
	return f, cache.Hash(f.Raw()), nil
}

// LayoutWithCacheInfo computes the layout snapshot with caching and returns
// cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, f *fixture.Fixture, fixtureHash string, c collection.Collection, opts Options) (layout.Snapshot, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Snapshot{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(fixtureHash, opts.LayoutKeyOpts(f.Kind()))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if snap, err := layout.UnmarshalSnapshot(data); err == nil {
				return snap, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	snap := GenerateSnapshot(f, c, opts)

	if data, err := layout.MarshalSnapshot(snap); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache layout", "error", err)
		}
	}
	return snap, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f *fixture.Fixture, fixtureHash string, c collection.Collection, snap layout.Snapshot, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Artifacts depend on the snapshot geometry and on node text, so the key
	// covers both.
	snapData, err := layout.MarshalSnapshot(snap)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	layoutHash := cache.Hash(append([]byte(fixtureHash), snapData...))

	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, f, c, snap, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "error", err)
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
