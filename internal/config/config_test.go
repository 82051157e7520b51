package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	gitbackend "github.com/thiagokokada/loggraph/internal/git/backend"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	cfg, err := Decode(`
[graph]
limit = 200
backend = "cli"
long_edge_size = 30

[paint]
row_height = 33.0
palette = ["#111111", "#222222"]

[view]
theme = "dark"
auto_reload = false
`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Graph.Limit != 200 || cfg.BackendKind() != gitbackend.KindCLI || cfg.Graph.LongEdgeSize != 30 {
		t.Fatalf("graph = %+v", cfg.Graph)
	}
	if cfg.Paint.RowHeight != 33 || !slices.Equal(cfg.Paint.Palette, []string{"#111111", "#222222"}) {
		t.Fatalf("paint = %+v", cfg.Paint)
	}
	// Unset keys keep their defaults.
	if cfg.Paint.SelectionColor != "#ffffff" {
		t.Fatalf("selection color = %q, want default", cfg.Paint.SelectionColor)
	}
	if cfg.View.Theme != "dark" || cfg.View.AutoReload {
		t.Fatalf("view = %+v", cfg.View)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "unknown key", text: "[graph]\ncolumns = 3\n", want: ErrUnknownKey},
		{name: "backend", text: "[graph]\nbackend = \"libgit2\"\n", want: ErrInvalid},
		{name: "row height", text: "[paint]\nrow_height = 0.0\n", want: ErrInvalid},
		{name: "theme", text: "[view]\ntheme = \"blue\"\n", want: ErrInvalid},
		{name: "palette", text: "[paint]\npalette = [\"red\"]\n", want: ErrInvalid},
		{name: "long edge", text: "[graph]\nlong_edge_size = -1\n", want: ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Decode(tt.text); !errors.Is(err, tt.want) {
				t.Fatalf("Decode() err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Decode("[graph"); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[graph]\nlimit = 7\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Graph.Limit != 7 || cfg.Graph.Backend != "native" {
		t.Fatalf("graph = %+v", cfg.Graph)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("expected error for a missing explicit path")
	}

	if err := os.WriteFile(path, []byte("[view]\nzoom = 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("Load() err = %v, want %v", err, ErrUnknownKey)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	if got := filepath.Base(DefaultPath()); got != "config.toml" {
		t.Fatalf("DefaultPath() base = %q", got)
	}
	if got := filepath.Base(filepath.Dir(DefaultPath())); got != "loggraph" {
		t.Fatalf("DefaultPath() dir = %q", got)
	}
}
