package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"model_dir": "Models", "output_dir": "/abs/out", "action": 2, "preview_format": "TGA", "row_height": 30}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Resolve(Flags{DataDir: dir, Action: -1})

	if want := filepath.Join(dir, "Models"); cfg.ModelDir != want {
		t.Errorf("ModelDir = %q, want %q", cfg.ModelDir, want)
	}
	if cfg.OutputDir != "/abs/out" {
		t.Errorf("OutputDir = %q, want /abs/out", cfg.OutputDir)
	}
	if cfg.Action != 2 {
		t.Errorf("Action = %d, want 2 from file", cfg.Action)
	}
	if cfg.PreviewFormat != "tga" {
		t.Errorf("PreviewFormat = %q, want tga", cfg.PreviewFormat)
	}
	if cfg.RowHeight != 30 || cfg.PreviewWidth != 512 || cfg.Supersample != 2 || cfg.Workers <= 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Action: 4, PreviewFormat: "tga", Workers: 3}
	cfg.Resolve(Flags{DataDir: dir, OutputDir: "out", Action: 1, Format: "webp", Workers: 9})

	if cfg.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, dir)
	}
	if want := filepath.Join(dir, "Data", "Player"); cfg.ModelDir != want {
		t.Errorf("ModelDir = %q, want %q", cfg.ModelDir, want)
	}
	if want := filepath.Join(dir, "out"); cfg.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, want)
	}
	if cfg.Action != 1 || cfg.PreviewFormat != "webp" || cfg.Workers != 9 {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want os.ErrNotExist", err)
	}
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{"), 0o644)
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("Load(bad) = %v, want parse error", err)
	}
}

func TestKey(t *testing.T) {
	var cfg Config
	if k, err := cfg.Key(); k != nil || err != nil {
		t.Fatalf("Key() with no key = %v, %v; want nil, nil", k, err)
	}

	cfg.LEAKey = strings.Repeat("0a", 32)
	k, err := cfg.Key()
	if err != nil {
		t.Fatalf("Key(): %v", err)
	}
	if k[0] != 0x0a || k[31] != 0x0a {
		t.Fatalf("Key() = %x", *k)
	}

	for _, bad := range []string{"zz", strings.Repeat("0a", 31), strings.Repeat("0a", 33)} {
		cfg.LEAKey = bad
		if _, err := cfg.Key(); !errors.Is(err, ErrBadKey) {
			t.Errorf("Key(%q) = %v, want ErrBadKey", bad, err)
		}
	}
}
