package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Physics.SubSteps != 4 {
		t.Errorf("sub_steps = %d, want 4", cfg.Physics.SubSteps)
	}
	if cfg.Failure.UnpinThreshold != 2.0 {
		t.Errorf("unpin_threshold = %v, want 2.0", cfg.Failure.UnpinThreshold)
	}
	if cfg.Failure.UnpinProbability != 0.2 {
		t.Errorf("unpin_probability = %v, want 0.2", cfg.Failure.UnpinProbability)
	}
	if cfg.Interaction.PickRadius != 60 {
		t.Errorf("pick_radius = %v, want 60", cfg.Interaction.PickRadius)
	}
	if cfg.Render.VisibleStretch != 1.2 {
		t.Errorf("visible_stretch = %v, want 1.2", cfg.Render.VisibleStretch)
	}
	if string(cfg.Derived.GlyphRunes) != "Disapper" {
		t.Errorf("glyph runes = %q, want %q", string(cfg.Derived.GlyphRunes), "Disapper")
	}
	if cfg.Render.FrameTone != 200 || cfg.Render.FramePadding != 10 {
		t.Errorf("frame = tone %v padding %v, want 200 and 10", cfg.Render.FrameTone, cfg.Render.FramePadding)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := "mesh:\n  cols: 5\n  rows: 5\nwind:\n  source: perlin\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Mesh.Cols != 5 || cfg.Mesh.Rows != 5 {
		t.Errorf("grid = %dx%d, want 5x5", cfg.Mesh.Cols, cfg.Mesh.Rows)
	}
	if cfg.Wind.Source != "perlin" {
		t.Errorf("wind.source = %q, want perlin", cfg.Wind.Source)
	}
	// Untouched fields keep their defaults
	if cfg.Mesh.Spacing != 8 {
		t.Errorf("spacing = %v, want default 8", cfg.Mesh.Spacing)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
		wantErr string
	}{
		{"empty glyphs", "mesh:\n  glyphs: \"\"\n", "mesh.glyphs"},
		{"zero spacing", "mesh:\n  spacing: 0\n", "mesh.spacing"},
		{"bad wind source", "wind:\n  source: gusts\n", "wind.source"},
		{"damping above one", "physics:\n  damping: 1.5\n", "physics.damping"},
		{"break probability", "failure:\n  max_break_probability: 2\n", "max_break_probability"},
		{"stretch range", "render:\n  max_stretch: 1.0\n", "render.max_stretch"},
		{"line alpha above 255", "render:\n  line_alpha_max: 300\n", "render.line_alpha_max"},
		{"negative line alpha", "render:\n  line_alpha_min: -5\n", "render.line_alpha_min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Mesh.Cols = 9

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if loaded.Mesh.Cols != 9 {
		t.Errorf("cols = %d, want 9", loaded.Mesh.Cols)
	}
}
