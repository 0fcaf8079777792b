package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags restores global flag state after each test.
func resetFlags(t *testing.T) {
	t.Helper()
	orig := struct{ url, profile, fmt string }{flagURL, flagProfile, flagFmt}
	t.Cleanup(func() {
		flagURL = orig.url
		flagProfile = orig.profile
		flagFmt = orig.fmt
	})
}

// writeHomeConfig points HOME at a temp dir holding the given config file.
func writeHomeConfig(t *testing.T, content string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	if content != "" {
		dir := filepath.Join(home, ".visitgraph")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return home
}

func TestResolveConfigEnvURL(t *testing.T) {
	resetFlags(t)
	writeHomeConfig(t, "url: http://file-server:1\n")
	t.Setenv("VISITGRAPH_URL", "http://env-server:9090")

	flagURL = defaultURL
	resolveConfig()

	if flagURL != "http://env-server:9090" {
		t.Errorf("flagURL: got %q, want env value", flagURL)
	}
}

func TestResolveConfigFlagWins(t *testing.T) {
	resetFlags(t)
	writeHomeConfig(t, "url: http://file-server:1\n")
	t.Setenv("VISITGRAPH_URL", "http://env-server:9090")

	flagURL = "http://flag-server:1"
	resolveConfig()

	if flagURL != "http://flag-server:1" {
		t.Errorf("flagURL: got %q, want flag value", flagURL)
	}
}

func TestResolveConfigFlatFile(t *testing.T) {
	resetFlags(t)
	writeHomeConfig(t, "url: http://file-server:1\n")
	t.Setenv("VISITGRAPH_URL", "")

	flagURL = defaultURL
	resolveConfig()

	if flagURL != "http://file-server:1" {
		t.Errorf("flagURL: got %q, want file value", flagURL)
	}
}

func TestResolveConfigProfiles(t *testing.T) {
	resetFlags(t)
	writeHomeConfig(t, `profiles:
  default:
    url: http://default:1
  lab:
    url: http://lab:2
active_profile: lab
`)
	t.Setenv("VISITGRAPH_URL", "")

	flagURL = defaultURL
	resolveConfig()
	if flagURL != "http://lab:2" {
		t.Errorf("active profile: got %q", flagURL)
	}

	flagURL = defaultURL
	flagProfile = "default"
	resolveConfig()
	if flagURL != "http://default:1" {
		t.Errorf("explicit profile: got %q", flagURL)
	}
}

func TestResolveConfigNoFile(t *testing.T) {
	resetFlags(t)
	writeHomeConfig(t, "")
	t.Setenv("VISITGRAPH_URL", "")

	flagURL = defaultURL
	resolveConfig()

	if flagURL != defaultURL {
		t.Errorf("flagURL: got %q, want default", flagURL)
	}
}

func TestSaveProfileKeepsOthers(t *testing.T) {
	home := writeHomeConfig(t, "url: http://legacy:1\n")

	path, err := saveProfile("lab", "http://lab:2")
	if err != nil {
		t.Fatalf("saveProfile: %v", err)
	}
	if path != filepath.Join(home, ".visitgraph", "config.yaml") {
		t.Errorf("path = %q", path)
	}

	_, cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ActiveProfile != "lab" || cfg.Profiles["lab"].URL != "http://lab:2" {
		t.Errorf("lab profile not saved: %+v", cfg)
	}
	if cfg.Profiles["default"].URL != "http://legacy:1" || cfg.URL != "" {
		t.Errorf("flat url not migrated to default profile: %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config mode = %o, want 600", perm)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	writeHomeConfig(t, "profiles: [not a map\n")

	if _, _, err := loadConfig(); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}
