package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pdbselect/internal/model"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAbsentFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "registry_file: /tmp/reg.json\ncriteria:\n  max_resolution: 3.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RegistryFile != "/tmp/reg.json" {
		t.Errorf("expected overridden registry file, got %q", cfg.RegistryFile)
	}
	if cfg.Criteria.MaxResolution != 3.0 {
		t.Errorf("expected overridden max resolution, got %v", cfg.Criteria.MaxResolution)
	}
	// Keys absent from the file keep their defaults, nested ones included.
	if cfg.CacheDir != Default().CacheDir {
		t.Errorf("expected default cache dir, got %q", cfg.CacheDir)
	}
	if cfg.Criteria.MinLength != model.DefaultCriteria().MinLength {
		t.Errorf("expected default min length, got %d", cfg.Criteria.MinLength)
	}
	if !cfg.Criteria.RequireFunctionAnnotation {
		t.Error("expected default require_function_annotation to survive a partial criteria block")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("registry_file: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid config file")
	}
}

func TestFetchTimeout(t *testing.T) {
	if got := Default().FetchTimeout(); got != 30*time.Second {
		t.Errorf("expected 30s default fetch timeout, got %v", got)
	}
}
