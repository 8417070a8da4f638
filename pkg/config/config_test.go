package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SessionDir == "" {
		t.Fatal("Expected default session directory")
	}
	if !strings.HasSuffix(cfg.SessionDir, filepath.Join(".edb", "sessions")) {
		t.Errorf("Unexpected default session directory %q", cfg.SessionDir)
	}
	if cfg.Logging.Verbosity != "normal" {
		t.Errorf("Expected normal verbosity, got %q", cfg.Logging.Verbosity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
		if err != nil {
			t.Fatalf("Load should not fail for non-existent file: %v", err)
		}
		if cfg.SessionDir != DefaultConfig().SessionDir {
			t.Errorf("Expected default session dir, got %q", cfg.SessionDir)
		}
	})

	t.Run("loads valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := `session_dir: /var/lib/edb
logging:
  verbosity: Verbose
modules:
  map: /tmp/modules.yaml
filter:
  include: ["*libc*"]
  exclude: ["[[]vdso[]]"]
`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.SessionDir != "/var/lib/edb" {
			t.Errorf("Expected session dir /var/lib/edb, got %q", cfg.SessionDir)
		}
		if cfg.Logging.Verbosity != "verbose" {
			t.Errorf("Expected verbosity to be normalized, got %q", cfg.Logging.Verbosity)
		}
		if cfg.Modules.Map != "/tmp/modules.yaml" {
			t.Errorf("Expected module map path, got %q", cfg.Modules.Map)
		}
		if len(cfg.Filter.Include) != 1 || len(cfg.Filter.Exclude) != 1 {
			t.Errorf("Filters not loaded: %+v", cfg.Filter)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("modules:\n  map: m.yaml\n"), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.SessionDir != DefaultConfig().SessionDir {
			t.Errorf("Expected default session dir, got %q", cfg.SessionDir)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("session_dir: [unclosed"), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		if _, err := Load(path); err == nil {
			t.Error("Load should fail for invalid YAML")
		}
	})

	t.Run("invalid verbosity", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("logging:\n  verbosity: loud\n"), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		_, err := Load(path)
		if err == nil {
			t.Fatal("Load should reject unknown verbosity")
		}
		if !strings.Contains(err.Error(), "invalid configuration") {
			t.Errorf("Unexpected error: %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing session_dir")
	}

	cfg.SessionDir = "/tmp/sessions"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if cfg.Logging.Verbosity != "normal" {
		t.Errorf("Expected verbosity default to be applied, got %q", cfg.Logging.Verbosity)
	}
}

func TestSessionPath(t *testing.T) {
	cfg := &Config{SessionDir: "/home/user/.edb/sessions"}

	got := cfg.SessionPath("/usr/local/bin/server")
	want := filepath.Join("/home/user/.edb/sessions", "server.edb")
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
