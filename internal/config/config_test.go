package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/keagan/asciivid/internal/ascii"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Export.TargetFPS != 24 || cfg.Play.TargetFPS != 30 {
		t.Errorf("unexpected target fps %v/%v", cfg.Export.TargetFPS, cfg.Play.TargetFPS)
	}
	if cfg.Export.Render.Params() != ascii.ExportPreset {
		t.Errorf("expected export preset, got %+v", cfg.Export.Render)
	}
	if cfg.Export.Bounds.Bounds() != ascii.ExportBounds {
		t.Errorf("expected export bounds, got %+v", cfg.Export.Bounds)
	}
	if cfg.Play.StartDelay != 2*time.Second {
		t.Errorf("expected 2s start delay, got %v", cfg.Play.StartDelay)
	}
	if cfg.Serve.Port != 8000 || cfg.Serve.MaxPortAttempts != 50 {
		t.Errorf("unexpected serve defaults %+v", cfg.Serve)
	}
}

func TestLoadOverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asciivid.yaml")
	data := `
palette: " .:#"
export:
  target_fps: 12
play:
  start_delay: 500ms
serve:
  port: 9000
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Palette != " .:#" {
		t.Errorf("unexpected palette %q", cfg.Palette)
	}
	if cfg.Export.TargetFPS != 12 {
		t.Errorf("expected 12 fps, got %v", cfg.Export.TargetFPS)
	}
	if cfg.Export.Output != "frames.json" {
		t.Errorf("default output lost, got %q", cfg.Export.Output)
	}
	if cfg.Play.StartDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", cfg.Play.StartDelay)
	}
	if cfg.Serve.Port != 9000 || cfg.Serve.Index != "index.html" {
		t.Errorf("unexpected serve config %+v", cfg.Serve)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("export: [unclosed"), 0644)

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Play.MaxWidth = 70
	cfg.FFmpeg.Threads = 4

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Play.MaxWidth != 70 || loaded.FFmpeg.Threads != 4 {
		t.Errorf("values not preserved: %+v", loaded)
	}
	if loaded.Play.StartDelay != cfg.Play.StartDelay {
		t.Errorf("start delay not preserved: %v", loaded.Play.StartDelay)
	}
}

func TestPlayLiveBounds(t *testing.T) {
	cfg := Default()

	if b := cfg.Play.LiveBounds(120, 40); b != ascii.LiveBounds(120, 40) {
		t.Errorf("defaults should match LiveBounds, got %+v", b)
	}

	cfg.Play.MaxWidth = 50
	cfg.Play.MinWidth = 10
	b := cfg.Play.LiveBounds(120, 40)
	if b.MaxWidth != 50 || b.MinWidth != 10 {
		t.Errorf("overrides not applied: %+v", b)
	}

	// the terminal still caps a larger configured maximum
	cfg.Play.MaxWidth = 500
	if b := cfg.Play.LiveBounds(60, 40); b.MaxWidth != 56 {
		t.Errorf("expected terminal cap 56, got %d", b.MaxWidth)
	}
}

func TestContext(t *testing.T) {
	if cfg := FromContext(context.Background()); cfg == nil || cfg.Serve.Port != 8000 {
		t.Errorf("expected defaults from empty context, got %+v", cfg)
	}

	cfg := Default()
	cfg.Serve.Port = 1234
	ctx := WithConfig(context.Background(), cfg)
	if got := FromContext(ctx); got != cfg {
		t.Error("expected the stored config")
	}
}
