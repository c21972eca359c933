package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/collection"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/fixture"
)

const filesFixture = "../../examples/fixtures/files.toml"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"columns", "layout", "browse", "dot", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
}

func TestResolveColumns(t *testing.T) {
	f, err := fixture.Load(filesFixture)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	rows, err := resolveColumns(f, 600, nil)
	if err != nil {
		t.Fatalf("resolveColumns() error: %v", err)
	}
	widths := make(map[collection.Key]float64)
	total := 0.0
	for _, r := range rows {
		widths[r.Key] = r.Resolved
		total += r.Resolved
	}
	if total != 600 {
		t.Errorf("total width = %v, want 600", total)
	}
	if widths["size"] != 80 {
		t.Errorf("size = %v, want 80", widths["size"])
	}
	if widths["name"] <= widths["kind"] {
		t.Errorf("name (2fr) = %v should be wider than kind (1fr) = %v", widths["name"], widths["kind"])
	}

	resized, err := resolveColumns(f, 600, []string{"name=200"})
	if err != nil {
		t.Fatalf("resolveColumns(resize) error: %v", err)
	}
	for _, r := range resized {
		if r.Key == "name" && r.Resolved != 200 {
			t.Errorf("resized name = %v, want 200", r.Resolved)
		}
		if r.Key == "name" && r.Spec != "200" {
			t.Errorf("resized name spec = %q, want 200", r.Spec)
		}
	}
}

func TestResolveColumnsErrors(t *testing.T) {
	table, err := fixture.Load(filesFixture)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	list, err := fixture.Parse([]byte("[[items]]\nkey = \"a\""))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	tests := []struct {
		name    string
		f       *fixture.Fixture
		width   float64
		resizes []string
		code    errors.Code
	}{
		{"list fixture", list, 600, nil, errors.ErrCodeInvalidInput},
		{"zero width", table, 0, nil, errors.ErrCodeInvalidRect},
		{"fixed column", table, 600, []string{"size=100"}, errors.ErrCodeInvalidInput},
		{"bad resize", table, 600, []string{"name"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveColumns(tt.f, tt.width, tt.resizes)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("resolveColumns() code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestParseResize(t *testing.T) {
	tests := []struct {
		in      string
		key     collection.Key
		width   float64
		wantErr bool
	}{
		{"name=120", "name", 120, false},
		{"name=12.5", "name", 12.5, false},
		{"name", "", 0, true},
		{"=10", "", 0, true},
		{"name=-1", "", 0, true},
		{"name=wide", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, width, err := parseResize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseResize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if key != tt.key || width != tt.width {
				t.Errorf("parseResize(%q) = %q, %v; want %q, %v", tt.in, key, width, tt.key, tt.width)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats("", "svg"); !slices.Equal(got, []string{"svg"}) {
		t.Errorf("parseFormats(\"\") = %v, want [svg]", got)
	}
	if got := parseFormats("json, text", "svg"); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("parseFormats(\"json, text\") = %v", got)
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "files")
	paths, err := writeArtifacts(base, map[string][]byte{
		"text": []byte("rows"),
		"json": []byte("{}"),
		"dot":  []byte("digraph {}"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	want := []string{base + ".dot", base + ".layout.json", base + ".txt"}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(base + ".txt")
	if err != nil || string(data) != "rows" {
		t.Errorf("text artifact = %q, %v", data, err)
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a", "sub/b", "sub/deeper/c"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearDir(dir)
	if err != nil {
		t.Fatalf("clearDir() error: %v", err)
	}
	if n != 3 {
		t.Errorf("clearDir() = %d, want 3", n)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dir still has %d entries", len(entries))
	}
}

func TestCompletionScripts(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			if err := genCompletion(root, shell, &buf); err != nil {
				t.Fatalf("genCompletion(%s) error: %v", shell, err)
			}
			if !strings.Contains(buf.String(), appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
}

func TestCompleteFixture(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, name := range []string{"columns", "layout", "browse", "dot"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%s) error: %v", name, err)
		}
		if cmd.ValidArgsFunction == nil {
			t.Errorf("%s has no fixture completion", name)
		}
	}

	exts, dir := completeFixture(nil, nil, "")
	if dir != cobra.ShellCompDirectiveFilterFileExt || len(exts) != 1 || exts[0] != "toml" {
		t.Errorf("completeFixture() = %v, %v", exts, dir)
	}
	if _, dir := completeFixture(nil, []string{"a.toml"}, ""); dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("second argument directive = %v, want NoFileComp", dir)
	}
}
