package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := loadConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil || cfg != defaultConfig() {
		t.Errorf("expected defaults for a missing file, got %+v (%v)", cfg, err)
	}

	path := filepath.Join(dir, "mirror.yaml")
	if err := os.WriteFile(path, []byte("format: yaml\ndepth: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != "yaml" || cfg.Depth != 2 || cfg.Indent != "  " || cfg.App != "mirror" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("expected yaml to be valid, got %v", err)
	}

	if err := os.WriteFile(path, []byte("format: xml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.validate() == nil {
		t.Errorf("expected xml to be refused")
	}

	if err := os.WriteFile(path, []byte("format: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Errorf("expected a parse error")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(append(args, "-c", filepath.Join(t.TempDir(), "none.yaml")))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommands(t *testing.T) {
	out, err := execute(t, "dump", "sample.Vec3", "-f", "text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "sample.Vec3\n") || !strings.Contains(out, "  X: 0 (float64)") {
		t.Errorf("unexpected dump:\n%s", out)
	}

	out, err = execute(t, "dump", "-f", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Title: demo") || !strings.Contains(out, "Parent: *") {
		t.Errorf("unexpected yaml:\n%s", out)
	}

	out, err = execute(t, "types", "-f", "text")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"sample.Light", "sample.Node", "sample.Scene", "sample.Transform", "sample.Vec3"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %s in:\n%s", name, out)
		}
	}

	if _, err := execute(t, "dump", "sample.Missing"); err == nil {
		t.Errorf("expected an unknown type to fail")
	}
	if _, err := execute(t, "dump", "-f", "xml"); err == nil {
		t.Errorf("expected an unknown format to fail")
	}
}
