package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/fixture"
)

var filesFixture = filepath.Join("..", "..", "examples", "fixtures", "files.toml")

const listSource = `
[[items]]
key = "apple"
text = "Apple"

[[items]]
key = "pear"
text = "Pear"
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"text", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"TEXT", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_INPUT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"text", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Source: listSource}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.RowHeight != DefaultRowHeight || opts.HeadingHeight != DefaultHeadingHeight {
		t.Errorf("row/heading height = %v/%v", opts.RowHeight, opts.HeadingHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatText {
		t.Errorf("Formats = %v, want [text]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no fixture", Options{}, errors.ErrCodeInvalidInput},
		{"negative width", Options{Source: listSource, Width: -1}, errors.ErrCodeInvalidRect},
		{"negative scroll", Options{Source: listSource, ScrollY: -5}, errors.ErrCodeInvalidRect},
		{"bad format", Options{Source: listSource, Formats: []string{"pdf"}}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Detailed: true, Cells: true}
	if got := opts.ArtifactKeyOpts(FormatDOT).Style; got != "detailed+cells" {
		t.Errorf("dot style = %q, want detailed+cells", got)
	}
	if got := opts.ArtifactKeyOpts(FormatText).Style; got != "" {
		t.Errorf("text style = %q, want empty", got)
	}
}

func TestLayoutKeyOptsSortsPersisted(t *testing.T) {
	a := Options{Persisted: []string{"b", "a"}}
	b := Options{Persisted: []string{"a", "b"}}
	keyer := cache.NewDefaultKeyer()
	if keyer.LayoutKey("h", a.LayoutKeyOpts("list")) != keyer.LayoutKey("h", b.LayoutKeyOpts("list")) {
		t.Error("persisted key order should not change the layout key")
	}
}

func TestColumnOptions(t *testing.T) {
	f, err := fixture.Load(filesFixture)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	widths := GenerateSnapshot(f, f.Collection(), Options{Width: 600}).ColumnWidths
	if len(widths) != 5 {
		t.Fatalf("ColumnWidths = %v, want 5 columns", widths)
	}
	if widths["__selection__"] != DefaultSelectionColumnWidth {
		t.Errorf("checkbox width = %v, want %v", widths["__selection__"], DefaultSelectionColumnWidth)
	}
	if widths["size"] != 80 {
		t.Errorf("size width = %v, want 80", widths["size"])
	}
	// 600 - 40 (drag) - 40 (checkbox) - 80 (size) = 440 across 2fr + 1fr.
	if widths["name"] < widths["kind"] {
		t.Errorf("name (%v) should be wider than kind (%v)", widths["name"], widths["kind"])
	}
}
