package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Encoding.Mode != "crf" {
		t.Fatalf("default mode: got %q", cfg.Encoding.Mode)
	}
	if cfg.Tools.HandBrake != "HandBrakeCLI" {
		t.Fatalf("default handbrake: got %q", cfg.Tools.HandBrake)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[encoding]
mode = "vbr"
bitrate = "4000k"

[scan]
min_file_size_mb = 250
`)
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if resolved != path {
		t.Fatalf("resolved path: got %q, want %q", resolved, path)
	}
	if cfg.Encoding.Mode != "vbr" || cfg.Encoding.Bitrate != "4000k" {
		t.Fatalf("encoding override not applied: %+v", cfg.Encoding)
	}
	if cfg.MinFileSizeBytes() != 250*1024*1024 {
		t.Fatalf("min file size: got %d", cfg.MinFileSizeBytes())
	}
}

func TestLoadRejectsUnknownRateMode(t *testing.T) {
	path := writeConfig(t, `
[encoding]
mode = "abr"
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown rate mode")
	}
}

func TestLoadRejectsVBRWithoutBitrate(t *testing.T) {
	path := writeConfig(t, `
[encoding]
mode = "vbr"
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for vbr without bitrate")
	}
}

func TestNormalizeExpandsHome(t *testing.T) {
	path := writeConfig(t, `
[paths]
staging_dir = "~/staging"
`)
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(cfg.Paths.StagingDir, "~") {
		t.Fatalf("staging dir not expanded: %q", cfg.Paths.StagingDir)
	}
	if !filepath.IsAbs(cfg.Paths.StagingDir) {
		t.Fatalf("staging dir not absolute: %q", cfg.Paths.StagingDir)
	}
}

func TestCreateSampleParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
