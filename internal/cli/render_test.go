package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/glycodraw/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty uses config", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , dot", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"svg", "pdf", "png", "json", "dot"}, false},
		{"invalid format", []string{"gif"}, true},
		{"mixed valid invalid", []string{"svg", "gif"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "core.json", "core"},
		{"", "dir/core.glycan.json", "dir/core"},
		{"", "core.layout.json", "core"},
		{"out.svg", "core.json", "out"},
		{"out", "core.json", "out"},
		{"out.txt", "core.json", "out.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.output+"|"+tt.input, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		format  string
		formats int
		want    string
	}{
		{"derived", "", "svg", 1, "core.svg"},
		{"layout json", "", "json", 2, "core.layout.json"},
		{"explicit single", "drawing.png", "png", 1, "drawing.png"},
		{"explicit base for many", "drawing.png", "pdf", 2, "drawing.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, "core.json", tt.format, tt.formats); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "core.json")
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "dot": []byte("digraph G {}")}

	paths, err := writeArtifacts(artifacts, []string{"svg", "dot"}, input, "")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "core.svg"), filepath.Join(dir, "core.dot")}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(paths[1])
	if err != nil || string(data) != "digraph G {}" {
		t.Errorf("dot file = %q, %v", data, err)
	}

	if _, err := writeArtifacts(artifacts, []string{"png"}, input, ""); err == nil {
		t.Error("expected error for missing artifact")
	}
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glycan.json")
	if err := writeEmpty(path, false); err != nil {
		t.Fatal(err)
	}
	if err := writeEmpty(path, false); err == nil {
		t.Error("expected error when file exists")
	}
	if err := writeEmpty(path, true); err != nil {
		t.Errorf("writeEmpty(force) = %v", err)
	}
}
