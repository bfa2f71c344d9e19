// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if cfg.History.Limit != want.History.Limit {
		t.Errorf("History.Limit = %d, want %d", cfg.History.Limit, want.History.Limit)
	}
	if cfg.Serve.Host != want.Serve.Host || cfg.Serve.Port != want.Serve.Port {
		t.Errorf("Serve = %+v, want %+v", cfg.Serve, want.Serve)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
}

func TestLoadFromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "state_dir = \"/tmp/shellstate\"\n\n[history]\nlimit = 42\n\n[ui]\ncolor_scheme = \"dark\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StateDir != "/tmp/shellstate" {
		t.Errorf("StateDir = %q, want /tmp/shellstate", cfg.StateDir)
	}
	if cfg.History.Limit != 42 {
		t.Errorf("History.Limit = %d, want 42", cfg.History.Limit)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("UI.ColorScheme = %q, want dark", cfg.UI.ColorScheme)
	}
	// Untouched sections keep their defaults.
	if cfg.Serve.Port != DefaultConfig().Serve.Port {
		t.Errorf("Serve.Port = %d, want default", cfg.Serve.Port)
	}
}

func TestLoadExplicitFilePath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[serve]\nhost = \"0.0.0.0\"\nport = 2022\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serve.Host != "0.0.0.0" || cfg.Serve.Port != 2022 {
		t.Errorf("Serve = %+v, want 0.0.0.0:2022", cfg.Serve)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "absent.toml"),
	})
	if err == nil {
		t.Error("Load() with missing explicit file did not fail")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[serve]\nhost = \"localhost\"\nport = 99999\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !errors.Is(err, ErrInvalidServeConfig) {
		t.Errorf("Load() error = %v, want wrapped ErrInvalidServeConfig", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.History.Limit = 10
	cfg.UI.ColorScheme = ColorSchemeLight

	path, err := Save(cfg, dir)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Save() path = %q, want config.toml", path)
	}

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.History.Limit != 10 || loaded.UI.ColorScheme != ColorSchemeLight {
		t.Errorf("reloaded config = %+v, want saved values", loaded)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Errorf("DefaultConfig().IsValid() = false: %v", errs)
	}
}

func TestColorSchemeValidation(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, _ := cs.IsValid(); !valid {
			t.Errorf("IsValid(%q) = false, want true", cs)
		}
	}
	valid, errs := ColorScheme("neon").IsValid()
	if valid {
		t.Fatal("IsValid(neon) = true, want false")
	}
	if !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("error = %v, want ErrInvalidColorScheme", errs[0])
	}
}
