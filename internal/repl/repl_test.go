package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/chzyer/readline"

	"cmdtree/internal/editor"
	"cmdtree/internal/model"
)

// scriptReader replays lines, then reports EOF.
type scriptReader struct {
	lines   []string
	prompts []string
}

func (r *scriptReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func (r *scriptReader) SetPrompt(p string) {
	r.prompts = append(r.prompts, p)
}

func run(t *testing.T, transport editor.Transport, lines ...string) (*editor.Controller, *scriptReader, string) {
	t.Helper()
	ctrl := editor.New(model.NewTree(model.DefaultRootName), editor.WithTransport(transport))
	rl := &scriptReader{lines: lines}
	var out bytes.Buffer
	cli := New(ctrl, rl, &out)
	if err := cli.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return ctrl, rl, out.String()
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"add build", []string{"add", "build"}},
		{`add build "build [target]" "Build it"`, []string{"add", "build", "build [target]", "Build it"}},
		{"  tree  ", []string{"tree"}},
		{`flag v bool ""`, []string{"flag", "v", "bool", ""}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseArgs(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseArgs(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAddWithoutSelection(t *testing.T) {
	ctrl, _, out := run(t, nil, "add build")

	if !strings.Contains(out, "Error: Select a parent node first") {
		t.Errorf("output = %q", out)
	}
	if ctrl.Tree().Len() != 1 {
		t.Error("tree must not change")
	}
}

func TestBuildTree(t *testing.T) {
	ctrl, rl, out := run(t, nil,
		"select 0",
		`add build "build [target]" "Build it"`,
		"add test",
		"select 1",
		`flag verbose bool "enable verbose output"`,
		"tree",
		"exit",
		"add never",
	)

	want := model.Command{
		Name: "root",
		Children: []model.Command{
			{
				Name: "build", Use: "build [target]", Short: "Build it",
				Flags:    []model.Flag{{Name: "verbose", Type: "bool", Description: "enable verbose output"}},
				Children: []model.Command{},
			},
			{Name: "test", Children: []model.Command{}},
		},
	}
	if got := ctrl.Tree().Serialize(); !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %+v, want %+v", got, want)
	}

	for _, s := range []string{"Selected root", "Added build at 1", "Added test at 2", "Added flag --verbose (bool)", "Exiting..."} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
	if !strings.Contains(out, "build "+model.IconFlag+"1 "+model.IconSelected) {
		t.Errorf("tree listing unexpected:\n%s", out)
	}
	if strings.Contains(out, "never") {
		t.Error("lines after exit must not run")
	}
	if last := rl.prompts[len(rl.prompts)-1]; last != "cmdtree [build]> " {
		t.Errorf("prompt = %q", last)
	}
}

func TestFlagFailureKeepsFormOpen(t *testing.T) {
	ctrl, _, out := run(t, nil, "flag verbose bool")
	if !strings.Contains(out, "Error: Select a command node first") {
		t.Errorf("output = %q", out)
	}
	if ctrl.FlagForm() != editor.FormVisible {
		t.Error("a failed flag submit should leave the form visible")
	}

	ctrl, _, _ = run(t, nil, "flag verbose bool", "select 0", "flag verbose bool")
	if ctrl.FlagForm() != editor.FormHidden {
		t.Error("a successful flag submit should hide the form")
	}
	if got := ctrl.Tree().Serialize().Flags; len(got) != 1 || got[0].Name != "verbose" {
		t.Errorf("flags = %+v", got)
	}
}

func TestUnsupportedFlagTypeNote(t *testing.T) {
	_, _, out := run(t, nil, "select 0", "flag level complex128")
	if !strings.Contains(out, `Note: type "complex128" is not generated`) {
		t.Errorf("output = %q", out)
	}
}

func TestJSONAndPreview(t *testing.T) {
	_, _, out := run(t, nil, "select 0", "add build", "json", "preview 1")
	if !strings.Contains(out, `"name": "build"`) || !strings.Contains(out, `"children": []`) {
		t.Errorf("json output = %s", out)
	}
	if !strings.Contains(out, "root build") {
		t.Errorf("preview output = %s", out)
	}
}

func TestExport(t *testing.T) {
	transport := editor.TransportFunc(func(_ context.Context, body []byte) (string, error) {
		return "package main", nil
	})
	_, _, out := run(t, transport, "export")
	if !strings.Contains(out, "package main\n") {
		t.Errorf("output = %q", out)
	}

	failing := editor.TransportFunc(func(context.Context, []byte) (string, error) {
		return "", errors.New("connection refused")
	})
	_, _, out = run(t, failing, "export")
	if !strings.Contains(out, "Export failed: export: connection refused") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "Error:") {
		t.Error("export failure should be reported once")
	}
}

func TestErrorsAndInterrupts(t *testing.T) {
	_, _, out := run(t, nil, "^C", "bogus", "select 7", "select", "help", "show")
	for _, s := range []string{
		"Use 'exit' or 'quit' to exit the program.",
		"Error: unknown command: bogus",
		"Error: no node at path",
		"Error: usage: select <path>",
		"Available commands:",
		"Nothing selected.",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}
