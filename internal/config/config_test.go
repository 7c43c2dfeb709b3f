package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	f := Flags("prepdeck-test")
	if err := f.Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "localhost:8484" {
		t.Errorf("unexpected default listen addr %q", cfg.ListenAddr)
	}
	if cfg.DBPath != "prepdeck.db" {
		t.Errorf("unexpected default db path %q", cfg.DBPath)
	}
	if cfg.AdvanceDelayMS != 300 {
		t.Errorf("unexpected default advance delay %d", cfg.AdvanceDelayMS)
	}
	if len(cfg.ContentDirs) != 3 {
		t.Errorf("unexpected default content dirs %v", cfg.ContentDirs)
	}
	if cfg.Registry() == nil || len(cfg.Registry().IDs()) == 0 {
		t.Error("expected the built-in deck registry by default")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "prepdeck.yaml")
	yaml := strings.Join([]string{
		"listen_addr: localhost:9000",
		"db_path: /tmp/other.db",
		"decks:",
		"  javascript:",
		"    title: JS Deep Dive",
		"    path: decks/js.md",
	}, "\n")
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := Flags("prepdeck-test")
	if err := f.Parse([]string{"--config", cfgPath}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "localhost:9000" {
		t.Errorf("file value not applied: %q", cfg.ListenAddr)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("file value not applied: %q", cfg.DBPath)
	}

	reg := cfg.Registry()
	entry, ok := reg.Lookup("javascript")
	if !ok {
		t.Fatal("configured deck missing from registry")
	}
	if entry.Title != "JS Deep Dive" || entry.Path != "decks/js.md" {
		t.Errorf("unexpected registry entry %+v", entry)
	}
	if len(reg.IDs()) != 1 {
		t.Errorf("configured table must replace the built-in one, got %v", reg.IDs())
	}
}

func TestFlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "prepdeck.yaml")
	if err := os.WriteFile(cfgPath, []byte("listen_addr: localhost:9000\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := Flags("prepdeck-test")
	if err := f.Parse([]string{"--config", cfgPath, "--listen_addr", "localhost:7777"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "localhost:7777" {
		t.Errorf("explicit flag must win over the file, got %q", cfg.ListenAddr)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "prepdeck.yaml")
	if err := os.WriteFile(cfgPath, []byte("db_path: from-file.db\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PREPDECK_DB_PATH", "from-env.db")

	f := Flags("prepdeck-test")
	if err := f.Parse([]string{"--config", cfgPath}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Errorf("environment must win over the file, got %q", cfg.DBPath)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	f := Flags("prepdeck-test")
	if err := f.Parse([]string{"--log_level", "noisy"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := Load(f); err == nil {
		t.Fatal("expected validation error for an unknown log level")
	}
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	f := Flags("prepdeck-test")
	if err := f.Parse([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := Load(f); err == nil {
		t.Fatal("expected an error for an explicitly named missing config file")
	}
}
