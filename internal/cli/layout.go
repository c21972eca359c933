package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/pipeline"
)

// layoutCommand creates the layout command for computing layout snapshots.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [fixture.toml]",
		Short: "Compute the virtualized layout of a fixture",
		Long: `Compute the virtualized layout of a fixture for a viewport.

Table fixtures use the table layout (header rows, sticky row headers and
resolved column widths); list fixtures use the list layout (sections,
headings and loaders). Only the rows intersecting the viewport, plus any
--persist keys, are part of the snapshot.

Formats: text (default) and json. With a single format and no --output the
result is written to stdout.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFixture,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Fixture = args[0]
			opts.Formats = parseFormats(formats, pipeline.FormatText)
			return c.runPipeline(cmd.Context(), cmd.OutOrStdout(), "Layout", opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: stdout for one format)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats: text, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	addViewportFlags(cmd, &opts)

	return cmd
}

// runPipeline executes the pipeline and writes its artifacts.
func (c *CLI) runPipeline(ctx context.Context, stdout io.Writer, title string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" && len(opts.Formats) == 1 {
		_, err := stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(opts.Fixture, filepath.Ext(opts.Fixture))
	}
	paths, err := writeArtifacts(output, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("%s complete", title)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.RowCount, result.Stats.VisibleCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	printNextStep("Explore", appName+" browse "+opts.Fixture)
	return nil
}

// writeArtifacts writes each artifact to base plus its format extension and
// returns the written paths in format order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + extension(f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func extension(format string) string {
	switch format {
	case pipeline.FormatText:
		return ".txt"
	case pipeline.FormatJSON:
		return ".layout.json"
	}
	return "." + format
}
