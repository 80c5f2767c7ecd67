package codegen

import (
	"errors"
	"strings"
	"testing"

	"cmdtree/internal/model"
)

func TestPreviewAtRoot(t *testing.T) {
	p, err := PreviewAt(sampleTree(), "")
	if err != nil {
		t.Fatalf("PreviewAt() error: %v", err)
	}
	if p.CommandPath != "app" {
		t.Errorf("CommandPath = %q, want %q", p.CommandPath, "app")
	}
	for _, want := range []string{"--config", "build", "test"} {
		if !strings.Contains(p.Usage, want) {
			t.Errorf("usage missing %q:\n%s", want, p.Usage)
		}
	}
}

func TestPreviewAtNested(t *testing.T) {
	p, err := PreviewAt(sampleTree(), "1")
	if err != nil {
		t.Fatalf("PreviewAt() error: %v", err)
	}
	if p.CommandPath != "app build" {
		t.Errorf("CommandPath = %q, want %q", p.CommandPath, "app build")
	}
	for _, want := range []string{"--verbose", "--jobs", "all"} {
		if !strings.Contains(p.Usage, want) {
			t.Errorf("usage missing %q:\n%s", want, p.Usage)
		}
	}
	if strings.Contains(p.Usage, "--weird") {
		t.Error("unsupported flag should not appear in usage")
	}

	p, err = PreviewAt(sampleTree(), "1.1")
	if err != nil {
		t.Fatalf("PreviewAt(1.1) error: %v", err)
	}
	if p.CommandPath != "app build all" {
		t.Errorf("CommandPath = %q", p.CommandPath)
	}
}

func TestPreviewAtUnknownPath(t *testing.T) {
	_, err := PreviewAt(sampleTree(), "9.9")
	if !errors.Is(err, model.ErrBadPath) {
		t.Errorf("err = %v, want ErrBadPath", err)
	}
}

func TestBuildCobraWarnings(t *testing.T) {
	root := model.Command{
		Name: "root",
		Flags: []model.Flag{
			{Name: "out", Type: "string"},
			{Name: "out", Type: "bool"},
			{Name: "", Type: "int"},
		},
		Children: []model.Command{
			{Name: "dup"},
			{Name: "dup"},
			{Name: ""},
		},
	}

	cmd, byPath, warnings := BuildCobra(root)
	if cmd == nil {
		t.Fatal("BuildCobra returned nil command")
	}
	if len(byPath) != 4 {
		t.Errorf("len(byPath) = %d, want 4", len(byPath))
	}

	for _, want := range []string{
		"duplicate flag --out skipped",
		"flag with empty name skipped",
		`duplicate subcommand "dup"`,
		"command has no name",
	} {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("warnings %v missing %q", warnings, want)
		}
	}

	if f := cmd.Flags().Lookup("out"); f == nil || f.Value.Type() != "string" {
		t.Error("first --out flag should win")
	}
}

func TestBuildCobraUnsupportedType(t *testing.T) {
	_, _, warnings := BuildCobra(sampleTree())
	if len(warnings) != 1 || !strings.Contains(warnings[0], `unsupported type "complex128"`) {
		t.Errorf("warnings = %v", warnings)
	}
	if !strings.HasPrefix(warnings[0], "app build:") {
		t.Errorf("warning should name the command, got %q", warnings[0])
	}
}
