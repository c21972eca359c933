package fixture

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/dnd"
	"github.com/matzehuels/gridkit/pkg/errors"
)

func itemKeys(items []Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Key)
		out = append(out, itemKeys(it.Children)...)
	}
	return out
}

func TestMoveItems(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "fruits.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name   string
		keys   []collection.Key
		target dnd.Target
		want   []string
	}{
		{"after sibling", []collection.Key{"apple"}, dnd.Item("pear", dnd.After), []string{"citrus", "orange", "lemon", "pear", "apple"}},
		{"before sibling", []collection.Key{"pear"}, dnd.Item("citrus", dnd.Before), []string{"pear", "citrus", "orange", "lemon", "apple"}},
		{"into section", []collection.Key{"apple", "pear"}, dnd.Item("citrus", dnd.On), []string{"citrus", "orange", "lemon", "apple", "pear"}},
		{"out of section", []collection.Key{"lemon"}, dnd.Item("apple", dnd.After), []string{"citrus", "orange", "apple", "lemon", "pear"}},
		{"root", []collection.Key{"orange"}, dnd.Root(), []string{"citrus", "lemon", "apple", "pear", "orange"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Move(tt.keys, tt.target)
			if err != nil {
				t.Fatalf("Move() error: %v", err)
			}
			if keys := itemKeys(got.Items); !slices.Equal(keys, tt.want) {
				t.Errorf("Move() order = %v, want %v", keys, tt.want)
			}
		})
	}

	// The source fixture is untouched.
	want := []string{"citrus", "orange", "lemon", "apple", "pear"}
	if keys := itemKeys(f.Items); !slices.Equal(keys, want) {
		t.Errorf("original order = %v, want %v", keys, want)
	}
}

func TestMoveRowsRoundTrip(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "files.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	moved, err := f.Move([]collection.Key{"README.md"}, dnd.Item("cmd", dnd.Before))
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if got := moved.Table().Keys()[0]; got != "README.md" {
		t.Errorf("first row = %s, want README.md", got)
	}

	// The encoded source parses back to the same rows.
	back, err := Parse(moved.Raw())
	if err != nil {
		t.Fatalf("Parse(Raw()) error: %v", err)
	}
	if !slices.Equal(back.Table().Keys(), moved.Table().Keys()) {
		t.Errorf("round trip keys = %v, want %v", back.Table().Keys(), moved.Table().Keys())
	}
	if string(moved.Raw()) == string(f.Raw()) {
		t.Error("moved fixture should have new source bytes")
	}
}

func TestMoveErrors(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "fruits.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name   string
		keys   []collection.Key
		target dnd.Target
		code   errors.Code
	}{
		{"onto itself", []collection.Key{"apple"}, dnd.Item("apple", dnd.On), errors.ErrCodeInvalidInput},
		{"unknown key", []collection.Key{"kiwi"}, dnd.Item("apple", dnd.After), errors.ErrCodeNotFound},
		{"target inside moved", []collection.Key{"citrus"}, dnd.Item("lemon", dnd.After), errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Move(tt.keys, tt.target)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Move() code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}
