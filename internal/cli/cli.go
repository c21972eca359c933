// Package cli implements the gridkit command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/buildinfo"
	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gridkit"

	// defaultAddr is the listen address of the playground server.
	defaultAddr = "localhost:8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gridkit lays out and explores virtualized tables and lists",
		Long: `Gridkit is a toolkit for collection components: it resolves column widths,
computes virtualized table and list layouts, drives keyboard drag and drop,
and renders collections as text, JSON or Graphviz diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			registerLogHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.columnsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gridkit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// addViewportFlags registers the layout flags shared by layout-driven
// commands.
func addViewportFlags(cmd *cobra.Command, opts *pipeline.Options) {
	opts.SetLayoutDefaults()
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "viewport width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "viewport height in pixels")
	cmd.Flags().Float64Var(&opts.ScrollX, "scroll-x", 0, "horizontal scroll offset")
	cmd.Flags().Float64Var(&opts.ScrollY, "scroll-y", 0, "vertical scroll offset")
	cmd.Flags().Float64Var(&opts.RowHeight, "row-height", opts.RowHeight, "row height (estimate with --estimated)")
	cmd.Flags().Float64Var(&opts.HeadingHeight, "heading-height", opts.HeadingHeight, "header and section heading height")
	cmd.Flags().BoolVar(&opts.Estimated, "estimated", false, "treat --row-height as an estimate")
	cmd.Flags().StringSliceVar(&opts.Persisted, "persist", nil, "keys kept in the snapshot even when scrolled out of view")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
