package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/tilechains/tilechain"
)

func TestLoadExtractionSpecDefaults(t *testing.T) {
	spec, err := LoadExtractionSpec()
	if err != nil {
		t.Fatalf("LoadExtractionSpec: %v", err)
	}
	if len(spec.CollisionTags) != 2 || spec.CollisionTags[0] != "solid" || spec.CollisionTags[1] != "tile" {
		t.Fatalf("unexpected collision tags %v", spec.CollisionTags)
	}
	if spec.PixelsPerMeter != 30 || spec.Scale != 1 {
		t.Fatalf("unexpected units scale=%v ppm=%v", spec.Scale, spec.PixelsPerMeter)
	}
	if spec.MaxLoopVertices != tilechain.DefaultMaxLoopVertices {
		t.Fatalf("expected max loop vertices %d, got %d", tilechain.DefaultMaxLoopVertices, spec.MaxLoopVertices)
	}
	if spec.Material != tilechain.DefaultMaterial() {
		t.Fatalf("unexpected material %+v", spec.Material)
	}
}

func TestParseExtractionSpecValidation(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "ok", doc: "collision_tags: [solid]\nscale: 2\n"},
		{name: "no tags", doc: "scale: 1\n", wantErr: "collision_tags is empty"},
		{name: "blank tag", doc: "collision_tags: [solid, \"\"]\n", wantErr: "collision_tags[1]"},
		{name: "negative scale", doc: "collision_tags: [solid]\nscale: -1\n", wantErr: "scale"},
		{name: "negative ppm", doc: "collision_tags: [solid]\npixels_per_meter: -30\n", wantErr: "pixels_per_meter"},
		{name: "negative guard", doc: "collision_tags: [solid]\nmax_loop_vertices: -5\n", wantErr: "max_loop_vertices"},
		{name: "negative friction", doc: "collision_tags: [solid]\nmaterial: {friction: -1}\n", wantErr: "material"},
		{name: "bad yaml", doc: "collision_tags: [solid\n", wantErr: "unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtractionSpec([]byte(tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExtractionSpecOptions(t *testing.T) {
	spec, err := ParseExtractionSpec([]byte("collision_tags: [solid]\nscale: 2\npixels_per_meter: 32\nmaterial: {friction: 0.5, restitution: 0.25}\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts := spec.Options()
	if opts.Scale != 2 || opts.PixelsPerMeter != 32 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Material == nil || opts.Material.Friction != 0.5 || opts.Material.Restitution != 0.25 {
		t.Fatalf("unexpected material %+v", opts.Material)
	}

	// Options must not alias the spec.
	opts.CollisionTags[0] = "changed"
	opts.Material.Friction = 9
	if spec.CollisionTags[0] != "solid" || spec.Material.Friction != 0.5 {
		t.Fatalf("options alias the spec: %+v", spec)
	}
}

func TestExtractionSpecOptionsDefaultMaterial(t *testing.T) {
	spec, err := ParseExtractionSpec([]byte("collision_tags: [solid]\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts := spec.Options(); opts.Material != nil {
		t.Fatalf("expected unset material to fall back to defaults, got %+v", opts.Material)
	}
}

func TestAllowsLayer(t *testing.T) {
	open := &ExtractionSpec{CollisionTags: []string{"solid"}}
	if !open.AllowsLayer("anything") {
		t.Fatalf("empty allow-list should admit every layer")
	}
	restricted := &ExtractionSpec{CollisionTags: []string{"solid"}, Layers: []string{"ground"}}
	if !restricted.AllowsLayer("ground") || restricted.AllowsLayer("decor") {
		t.Fatalf("allow-list not honored")
	}
}

func TestLoadExtractionSpecFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("collision_tags: [wall]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	spec, err := LoadExtractionSpecFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.CollisionTags[0] != "wall" {
		t.Fatalf("unexpected tags %v", spec.CollisionTags)
	}

	_, err = LoadExtractionSpecFile(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestCleanPrefabPath(t *testing.T) {
	tests := map[string]string{
		"":                        "",
		"extraction.yaml":         "extraction.yaml",
		"prefabs/extraction.yaml": "extraction.yaml",
	}
	for in, want := range tests {
		if got := cleanPrefabPath(in); got != want {
			t.Fatalf("cleanPrefabPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWatcherReportsLevelAndSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// Ignored extension first, then a level file.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	level := filepath.Join(dir, "arena.json")
	if err := os.WriteFile(level, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case name := <-w.Events:
		if filepath.Base(name) != "arena.json" {
			t.Fatalf("unexpected event for %s", name)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for level change")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("expected events channel to be closed")
	}
}
