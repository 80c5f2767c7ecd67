package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cmdtree/internal/codegen"
	"cmdtree/internal/config"
	"cmdtree/internal/export"
)

func TestRunGenerateMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	tree := `{"name":"app","children":[{"name":"serve","short":"Run the server","children":[]}]}`
	if err := os.WriteFile(path, []byte(tree), 0o644); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	if err := runGenerateMode(path, &out); err != nil {
		t.Fatalf("runGenerateMode() error: %v", err)
	}
	if !strings.Contains(out.String(), "rootCmd.AddCommand(serveCmd)") {
		t.Errorf("output:\n%s", out.String())
	}

	if err := runGenerateMode(filepath.Join(t.TempDir(), "missing.json"), &out); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewTransport(t *testing.T) {
	cfg := config.Default()
	if _, ok := newTransport(cfg).(codegen.Local); !ok {
		t.Error("empty generator URL should use the in-process generator")
	}

	cfg.Generator.URL = "http://localhost:9/generate"
	h, ok := newTransport(cfg).(*export.HTTP)
	if !ok || h.URL != cfg.Generator.URL {
		t.Errorf("newTransport() = %#v, want HTTP transport", h)
	}
}

func TestCheckUpdateWithoutURL(t *testing.T) {
	var out strings.Builder
	checkUpdate(&out, "", "0.3.0")
	if !strings.Contains(out.String(), "No update URL configured") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunGenerateModeRejectsTrailingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte(`{"name":"app"} garbage`), 0o644); err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := runGenerateMode(path, &out); err == nil {
		t.Fatalf("expected error, got output:\n%s", out.String())
	}
}
