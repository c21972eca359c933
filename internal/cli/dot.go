package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/pipeline"
)

// dotCommand creates the dot command for rendering collection trees.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "dot [fixture.toml]",
		Short: "Render the collection tree of a fixture with Graphviz",
		Long: `Render the node tree of a fixture's collection with Graphviz.

Sections, table headers and bodies are drawn as folders, loaders and
placeholders dashed, and initially selected rows highlighted. Use --cells to
include the cell and column nodes of tables, and --detailed to label nodes
with their type, index and level.

Formats: svg (default) and dot.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFixture,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Fixture = args[0]
			opts.Formats = parseFormats(formats, pipeline.FormatSVG)
			return c.runPipeline(cmd.Context(), cmd.OutOrStdout(), "Render", opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: stdout for one format)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats: svg, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodes with type, index and level")
	cmd.Flags().BoolVar(&opts.Cells, "cells", false, "include table cells and columns")

	return cmd
}
