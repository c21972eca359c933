package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/columns"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/fixture"
	"github.com/matzehuels/gridkit/pkg/pipeline"
)

// columnRow is one resolved column for display.
type columnRow struct {
	Key      collection.Key
	Title    string
	Spec     string
	Min      string
	Max      string
	Resolved float64
}

// columnsCommand creates the columns command for resolving column widths.
func (c *CLI) columnsCommand() *cobra.Command {
	var (
		width   float64
		resizes []string
	)

	cmd := &cobra.Command{
		Use:   "columns [fixture.toml]",
		Short: "Resolve the column widths of a table fixture",
		Long: `Resolve the column widths of a table fixture for a table width.

Static widths (pixels, percentages) are resolved first, then flexible (fr)
columns share the remaining space within their min and max bounds.

Use --resize key=width to simulate dragging a column edge: columns to the
left are frozen at their current widths and flexible columns to the right
absorb the difference.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFixture,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runColumns(cmd.Context(), cmd, args[0], width, resizes)
		},
	}

	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "table width in pixels")
	cmd.Flags().StringArrayVar(&resizes, "resize", nil, "resize a column: key=width (repeatable)")

	return cmd
}

// runColumns loads the fixture, resolves its widths and prints them.
func (c *CLI) runColumns(ctx context.Context, cmd *cobra.Command, path string, width float64, resizes []string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	f, err := fixture.Load(path)
	if err != nil {
		return err
	}
	rows, err := resolveColumns(f, width, resizes)
	if err != nil {
		return err
	}
	prog.done("Resolved columns", "count", len(rows), "width", width)

	out := make([][]string, len(rows))
	var total float64
	for i, r := range rows {
		out[i] = []string{string(r.Key), r.Title, r.Spec, r.Min, r.Max, formatPx(r.Resolved)}
		total += r.Resolved
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Title", "Width", "Min", "Max", "Resolved"}, out))
	printKeyValue("Table", formatPx(width))
	printKeyValue("Total", formatPx(total))
	return nil
}

// resolveColumns resolves the leaf columns of f for width, applying each
// key=width resize in order.
func resolveColumns(f *fixture.Fixture, width float64, resizes []string) ([]columnRow, error) {
	if f.Kind() != fixture.KindTable {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fixture has no columns")
	}
	if width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRect, "table width must be positive")
	}

	nodes := f.Table().Columns()
	specs, err := columns.SpecsFromNodes(nodes)
	if err != nil {
		return nil, err
	}
	opts := pipeline.ColumnOptions()
	l := columns.NewLayout(opts)
	l.SetColumns(specs)
	l.BuildWidths(width)

	r := columns.NewResizeState(l)
	current := make(map[collection.Key]columns.Size)
	for _, raw := range resizes {
		key, w, err := parseResize(raw)
		if err != nil {
			return nil, err
		}
		if !r.StartResize(key) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "column %q does not allow resizing", key)
		}
		current = r.UpdateResize(width, w)
		r.EndResize()
	}

	rows := make([]columnRow, len(nodes))
	for i, n := range nodes {
		spec := specs[i]
		declared := spec.Width
		if !declared.IsSet() {
			declared = spec.DefaultWidth
		}
		if s, ok := current[n.Key]; ok {
			declared = s
		}
		if !declared.IsSet() && opts.DefaultWidth != nil {
			declared = opts.DefaultWidth(spec)
		}
		rows[i] = columnRow{
			Key:      n.Key,
			Title:    n.TextValue,
			Spec:     declared.String(),
			Min:      sizeOrDash(spec.MinWidth),
			Max:      sizeOrDash(spec.MaxWidth),
			Resolved: l.Width(n.Key),
		}
	}
	return rows, nil
}

// parseResize parses a key=width flag value.
func parseResize(s string) (collection.Key, float64, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", 0, errors.New(errors.ErrCodeInvalidInput, "invalid resize %q (want key=width)", s)
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil || w < 0 {
		return "", 0, errors.New(errors.ErrCodeInvalidInput, "invalid resize width %q", raw)
	}
	return collection.Key(key), w, nil
}

func sizeOrDash(s columns.Size) string {
	if !s.IsSet() {
		return "-"
	}
	return s.String()
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
