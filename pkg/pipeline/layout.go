package pipeline

import (
	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/columns"
	"github.com/matzehuels/gridkit/pkg/fixture"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// NewLayout builds and validates the layout of c for the fixture kind:
// a table strategy for table fixtures and a list strategy otherwise.
func NewLayout(f *fixture.Fixture, c collection.Collection, opts Options) *layout.Layout {
	opts.SetLayoutDefaults()

	l := layout.New(newStrategy(f, opts), layout.Options{Logger: opts.Logger})
	l.SetCollection(c)
	l.SetVisibleRect(opts.VisibleRect())
	if len(opts.Persisted) > 0 {
		keys := make([]collection.Key, len(opts.Persisted))
		for i, k := range opts.Persisted {
			keys[i] = collection.Key(k)
		}
		l.SetPersistedKeys(keys...)
	}
	l.Validate(layout.InvalidationContext{})
	return l
}

// GenerateSnapshot builds the layout of c and captures its visible snapshot.
func GenerateSnapshot(f *fixture.Fixture, c collection.Collection, opts Options) layout.Snapshot {
	return NewLayout(f, c, opts).Snapshot()
}

func newStrategy(f *fixture.Fixture, opts Options) layout.Strategy {
	if f.Kind() == fixture.KindTable {
		to := layout.TableOptions{
			HeadingHeight:    opts.HeadingHeight,
			IsLoading:        f.Loading,
			RenderEmptyState: true,
			Columns:          ColumnOptions(),
		}
		if opts.Estimated {
			to.EstimatedRowHeight = opts.RowHeight
		} else {
			to.RowHeight = opts.RowHeight
		}
		return layout.NewTableStrategy(to)
	}

	lo := layout.ListOptions{
		HeadingHeight:    opts.HeadingHeight,
		LoaderHeight:     opts.RowHeight,
		RenderEmptyState: true,
	}
	if opts.Estimated {
		lo.EstimatedRowHeight = opts.RowHeight
	} else {
		lo.RowHeight = opts.RowHeight
	}
	return layout.NewListStrategy(lo)
}

// ColumnOptions gives the synthetic checkbox and drag columns a fixed width
// and every other column without a width one flex share.
func ColumnOptions() columns.Options {
	return columns.Options{
		DefaultWidth: func(s columns.Spec) columns.Size {
			if s.Key == grid.SelectionColumnKey || s.Key == grid.DragColumnKey {
				return columns.Px(DefaultSelectionColumnWidth)
			}
			return columns.Fr(1)
		},
	}
}
