package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/layout"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, nil, log.New(io.Discard))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	assert.NotNil(t, r.Cache)
	assert.NotNil(t, r.Keyer)
	assert.NotNil(t, r.Logger)
	assert.NoError(t, r.Close())
}

func TestExecuteTable(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	opts := Options{
		Fixture: filesFixture,
		Width:   600,
		Height:  200,
		Formats: []string{FormatJSON, FormatText, FormatDOT},
	}
	res, err := r.Execute(ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, "table", res.Snapshot.Strategy)
	assert.NotEmpty(t, res.FixtureHash)
	assert.Positive(t, res.Stats.RowCount)
	assert.Equal(t, len(res.Snapshot.Infos), res.Stats.VisibleCount)
	assert.False(t, res.CacheInfo.LayoutHit)
	assert.False(t, res.CacheInfo.RenderHit)

	snap, err := layout.UnmarshalSnapshot(res.Artifacts[FormatJSON])
	require.NoError(t, err)
	assert.Equal(t, res.Snapshot.ContentSize, snap.ContentSize)

	assert.Contains(t, string(res.Artifacts[FormatText]), "main.go")
	assert.True(t, strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph"))

	// A second run with the same options is served from the cache.
	again, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.True(t, again.CacheInfo.LayoutHit)
	assert.True(t, again.CacheInfo.RenderHit)
	assert.Equal(t, res.Artifacts, again.Artifacts)

	// Refresh bypasses it.
	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, fresh.CacheInfo.LayoutHit)
	assert.False(t, fresh.CacheInfo.RenderHit)
}

func TestExecuteScrollChangesLayoutKey(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Source: listSource, Height: 40})
	require.NoError(t, err)

	res, err := r.Execute(ctx, Options{Source: listSource, Height: 40, ScrollY: 32})
	require.NoError(t, err)
	assert.False(t, res.CacheInfo.LayoutHit)
}

func TestExecuteList(t *testing.T) {
	r := NewRunner(nil, nil, log.New(io.Discard))

	res, err := r.Execute(context.Background(), Options{Source: listSource})
	require.NoError(t, err)
	assert.Equal(t, "list", res.Snapshot.Strategy)
	assert.Equal(t, 2, res.Stats.RowCount)

	_, ok := res.Snapshot.Info("pear")
	assert.True(t, ok)
	assert.Contains(t, string(res.Artifacts[FormatText]), "Pear")
}

func TestExecuteInvalidFixture(t *testing.T) {
	r := NewRunner(nil, nil, log.New(io.Discard))

	_, err := r.Execute(context.Background(), Options{Source: "[[items]]\ntext = \"no key\""})
	assert.Error(t, err)

	_, err = r.Execute(context.Background(), Options{Fixture: "missing.toml"})
	assert.Error(t, err)
}
