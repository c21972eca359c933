// Package pipeline runs the fixture → layout → render pipeline shared by the
// CLI and the playground server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Load and validate a TOML fixture into a collection
//  2. Layout: Validate a virtualized layout and capture a [layout.Snapshot]
//  3. Render: Generate outputs (JSON snapshot, text, DOT, SVG)
//
// Layout snapshots and artifacts are cached by content hash, so repeated
// runs over an unchanged fixture and viewport are served from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Fixture: "files.toml",
//	    Width:   800,
//	    Height:  400,
//	    Formats: []string{pipeline.FormatText},
//	})
//	fmt.Print(string(result.Artifacts[pipeline.FormatText]))
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/fixture"
	"github.com/matzehuels/gridkit/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 400.0

	// DefaultRowHeight is the default fixed row height in pixels.
	DefaultRowHeight = 32.0

	// DefaultHeadingHeight is the default table header and section heading
	// height in pixels.
	DefaultHeadingHeight = 32.0

	// DefaultSelectionColumnWidth is the width of the synthetic checkbox and
	// drag handle columns.
	DefaultSelectionColumnWidth = 40.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatText: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Parse options
	Fixture string `json:"fixture,omitempty"` // Path to a TOML fixture
	Source  string `json:"source,omitempty"`  // Inline TOML, used when Fixture is empty

	// Layout options
	Width         float64  `json:"width,omitempty"`
	Height        float64  `json:"height,omitempty"`
	ScrollX       float64  `json:"scroll_x,omitempty"`
	ScrollY       float64  `json:"scroll_y,omitempty"`
	RowHeight     float64  `json:"row_height,omitempty"`
	HeadingHeight float64  `json:"heading_height,omitempty"`
	Estimated     bool     `json:"estimated,omitempty"` // Use estimated instead of fixed row heights
	Persisted     []string `json:"persisted,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Detailed DOT labels
	Cells    bool     `json:"cells,omitempty"`    // Include cells in DOT output

	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Fixture is the parsed fixture.
	Fixture *fixture.Fixture

	// FixtureHash is the content hash of the fixture source.
	FixtureHash string

	// Collection is the collection built from the fixture.
	Collection collection.Collection

	// Snapshot is the layout snapshot for the requested viewport.
	Snapshot layout.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount     int
	VisibleCount int
	ParseTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the snapshot came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, text, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForParse checks that a fixture source is set.
func (o *Options) ValidateForParse() error {
	if o.Fixture == "" && o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "fixture or source is required")
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.RowHeight == 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.HeadingHeight == 0 {
		o.HeadingHeight = DefaultHeadingHeight
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 || o.ScrollX < 0 || o.ScrollY < 0 || o.RowHeight < 0 || o.HeadingHeight < 0 {
		return errors.New(errors.ErrCodeInvalidRect, "viewport and row sizes must be non-negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// VisibleRect returns the viewport rect in content coordinates.
func (o *Options) VisibleRect() layout.Rect {
	return layout.NewRect(o.ScrollX, o.ScrollY, o.Width, o.Height)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(kind string) cache.LayoutKeyOpts {
	persisted := slices.Clone(o.Persisted)
	slices.Sort(persisted)
	return cache.LayoutKeyOpts{
		Kind:          kind,
		Width:         o.Width,
		Height:        o.Height,
		ScrollX:       o.ScrollX,
		ScrollY:       o.ScrollY,
		RowHeight:     o.RowHeight,
		HeadingHeight: o.HeadingHeight,
		Estimated:     o.Estimated,
		Persisted:     persisted,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	style := ""
	if format == FormatDOT || format == FormatSVG {
		if o.Detailed {
			style += "detailed"
		}
		if o.Cells {
			style += "+cells"
		}
	}
	return cache.ArtifactKeyOpts{Format: format, Style: style}
}
