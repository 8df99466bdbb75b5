package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("MCRO_DATA_DIR", "")
	t.Setenv("MCRO_BACKEND", "")
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	isolate(t)
	if Exists() {
		t.Fatal("config unexpectedly exists")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("Load = %+v, want defaults", cfg)
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.General.Backend = "json"
	cfg.General.HistoryOrder = "asc"
	cfg.General.DataDir = filepath.Join(dir, "custom")
	cfg.Appearance.Theme = "tokyo-night"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists = false after Save")
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("Load = %+v, want %+v", got, cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[general]\nbackend = \"bolt\"\nhistory_order = \"desc\"\n"
	if err := os.WriteFile(ConfigPath(), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load accepted unknown backend")
	}
	if !strings.Contains(err.Error(), "general.backend") {
		t.Errorf("error %q does not name the field", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load on error = %+v, want defaults", cfg)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.Appearance.Theme = "neon"
	if err := Save(cfg); err == nil {
		t.Fatal("Save accepted unknown theme")
	}
	if Exists() {
		t.Fatal("invalid config was written")
	}
}

func TestGetDataDirPrecedence(t *testing.T) {
	dir := isolate(t)
	cfg := DefaultConfig()

	if got, want := GetDataDir(cfg), filepath.Join(dir, "data", "mcro"); got != want {
		t.Errorf("default data dir = %q, want %q", got, want)
	}

	cfg.General.DataDir = "/from/config"
	if got := GetDataDir(cfg); got != "/from/config" {
		t.Errorf("config data dir = %q", got)
	}

	t.Setenv("MCRO_DATA_DIR", "/from/env")
	if got := GetDataDir(cfg); got != "/from/env" {
		t.Errorf("env data dir = %q", got)
	}
}

func TestGetBackendEnvOverride(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	if got := GetBackend(cfg); got != "sqlite" {
		t.Errorf("GetBackend = %q, want sqlite", got)
	}
	t.Setenv("MCRO_BACKEND", "json")
	if got := GetBackend(cfg); got != "json" {
		t.Errorf("GetBackend = %q, want json", got)
	}
}
