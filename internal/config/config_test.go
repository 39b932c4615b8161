package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triquad.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Server.Addr() != "0.0.0.0:5001" {
		t.Fatalf("unexpected address %q", cfg.Server.Addr())
	}
}

func TestLoad_AppliesFileOverDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	path := writeConfig(t, `
server:
  port: 8080
  static_dir: ./web
catalog:
  remote_url: ""
  timeout: 250ms
log:
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.StaticDir != "./web" {
		t.Fatalf("server section not applied: %+v", cfg.Server)
	}
	if cfg.Server.Address != Default().Server.Address {
		t.Fatalf("unset keys should keep defaults, got %q", cfg.Server.Address)
	}
	if cfg.Catalog.RemoteURL != "" {
		t.Fatalf("an explicit empty url should disable the remote source")
	}
	if cfg.Catalog.Timeout != 250*time.Millisecond {
		t.Fatalf("unexpected timeout %v", cfg.Catalog.Timeout)
	}
	if cfg.Log.Format != "json" || cfg.Log.Debug {
		t.Fatalf("log section not applied: %+v", cfg.Log)
	}
}

func TestLoad_PortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := Load(writeConfig(t, "server:\n  port: 8080\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("PORT should win, got %d", cfg.Server.Port)
	}

	t.Setenv("PORT", "abc")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error for an invalid PORT")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("PORT", "")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Fatalf("expected an error for invalid yaml")
	}

	_, err := Load(writeConfig(t, "catalog:\n  timeout: 0s\nlog:\n  format: xml\n"))
	if err == nil {
		t.Fatalf("expected a validation error")
	}
	for _, want := range []string{"catalog.timeout", "log.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}
