package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/fixture"
	"github.com/matzehuels/gridkit/pkg/layout"
	"github.com/matzehuels/gridkit/pkg/render/dot"
	"github.com/matzehuels/gridkit/pkg/render/text"
	"github.com/matzehuels/gridkit/pkg/selection"
)

// Render generates output artifacts in the requested formats. Selected keys
// come from the fixture's initial selection.
func Render(ctx context.Context, f *fixture.Fixture, c collection.Collection, snap layout.Snapshot, opts Options) (map[string][]byte, error) {
	sel := selection.NewManager(c, f.SelectionOptions())

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = layout.MarshalSnapshot(snap)
		case FormatText:
			data = []byte(text.Render(c, snap, text.Options{Selected: sel.IsSelected}))
		case FormatDOT:
			data = []byte(dot.ToDOT(c, dotOptions(sel, opts)))
		case FormatSVG:
			data, err = dot.RenderSVG(ctx, dot.ToDOT(c, dotOptions(sel, opts)))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func dotOptions(sel *selection.Manager, opts Options) dot.Options {
	return dot.Options{
		Detailed: opts.Detailed,
		Cells:    opts.Cells,
		Selected: sel.IsSelected,
	}
}
