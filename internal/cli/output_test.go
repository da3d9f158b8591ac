package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"no output strips input extension", "", "data/share.toml", "data/share"},
		{"output format extension stripped", "chart.svg", "share.toml", "chart"},
		{"output png extension stripped", "out/chart.png", "share.toml", "out/chart"},
		{"unknown extension kept", "chart.out", "share.toml", "chart.out"},
		{"plain output kept", "chart", "share.toml", "chart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := basePath(tt.output, tt.input)
			if got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		single bool
		want   string
	}{
		{"single with explicit output", "out.svg", "share.toml", "svg", true, "out.svg"},
		{"single without output", "", "share.toml", "svg", true, "share.svg"},
		{"multiple with base", "chart", "share.toml", "png", false, "chart.png"},
		{"multiple with format extension on output", "chart.svg", "share.toml", "json", false, "chart.json"},
		{"multiple without output", "", "share.toml", "pdf", false, "share.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifactPath(tt.output, tt.input, tt.format, tt.single)
			if got != tt.want {
				t.Errorf("artifactPath(%q, %q, %q, %v) = %q, want %q",
					tt.output, tt.input, tt.format, tt.single, got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"json": []byte("{}"),
	}

	base := filepath.Join(dir, "chart")
	paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, base, "share.toml")
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("writeArtifacts() wrote %d files, want 2", len(paths))
	}

	svg, err := os.ReadFile(filepath.Join(dir, "chart.svg"))
	if err != nil {
		t.Fatalf("read chart.svg: %v", err)
	}
	if string(svg) != "<svg/>" {
		t.Errorf("chart.svg = %q, want %q", svg, "<svg/>")
	}
	if _, err := os.Stat(filepath.Join(dir, "chart.json")); err != nil {
		t.Errorf("chart.json not written: %v", err)
	}
}

func TestWriteArtifactsSingleExplicitPath(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "exact-name.output")

	paths, err := writeArtifacts(map[string][]byte{"svg": []byte("<svg/>")}, []string{"svg"}, out, "share.toml")
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Fatalf("writeArtifacts() paths = %v, want [%s]", paths, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written at explicit path: %v", err)
	}
}
