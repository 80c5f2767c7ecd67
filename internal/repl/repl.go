// Package repl is the line-mode front end: a readline prompt over the editor.
package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"cmdtree/internal/codegen"
	"cmdtree/internal/editor"
	"cmdtree/internal/model"
)

// ErrExit is returned by Execute for the exit command.
var ErrExit = fmt.Errorf("exit requested: %w", io.EOF)

// LineReader is the part of *readline.Instance the CLI uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// CLI reads commands and applies them to the controller.
type CLI struct {
	ctrl *editor.Controller
	rl   LineReader
	out  io.Writer

	Prompt string
}

// New wires a CLI to ctrl and registers it as the observer.
func New(ctrl *editor.Controller, rl LineReader, out io.Writer) *CLI {
	c := &CLI{ctrl: ctrl, rl: rl, out: out}
	ctrl.SetObserver(c)
	c.UpdatePrompt()
	return c
}

func (c *CLI) TreeChanged(model.Command) {}

func (c *CLI) SelectionChanged(_ model.NodeID, name, use, short string) {
	fmt.Fprintf(c.out, "Selected %s", name)
	if use != "" {
		fmt.Fprintf(c.out, "  use=%q", use)
	}
	if short != "" {
		fmt.Fprintf(c.out, "  short=%q", short)
	}
	fmt.Fprintln(c.out)
}

func (c *CLI) ExportDone(output string, err error) {
	if err != nil {
		fmt.Fprintln(c.out, "Export failed:", err)
		return
	}
	fmt.Fprint(c.out, output)
	if !strings.HasSuffix(output, "\n") {
		fmt.Fprintln(c.out)
	}
}

// UpdatePrompt shows the selected node in the prompt.
func (c *CLI) UpdatePrompt() {
	c.Prompt = "cmdtree> "
	if n, ok := c.ctrl.Selected(); ok {
		c.Prompt = fmt.Sprintf("cmdtree [%s]> ", n.Name)
	}
	c.rl.SetPrompt(c.Prompt)
}

// Run reads and executes lines until exit or end of input. Interrupts only
// print a reminder. Command errors are printed and the loop continues.
func (c *CLI) Run(ctx context.Context) error {
	for {
		line, err := c.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(c.out, "Use 'exit' or 'quit' to exit the program.")
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		args := ParseArgs(strings.TrimSpace(line))
		if len(args) == 0 {
			continue
		}
		if err := c.Execute(ctx, args); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			fmt.Fprintln(c.out, "Error:", err)
		}
		c.UpdatePrompt()
	}
}

// ParseArgs splits input on spaces. Double quotes group words and may
// enclose an empty argument.
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes, quoted := false, false

	for _, char := range input {
		switch {
		case char == '"':
			inQuotes = !inQuotes
			quoted = true
		case char == ' ' && !inQuotes:
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(char)
		}
	}
	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}
	return args
}

// Execute runs one parsed command line.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "tree", "ls":
		return c.handleTree()
	case "select", "sel":
		return c.handleSelect(args[1:])
	case "show":
		return c.handleShow()
	case "add":
		return c.handleAdd(args[1:])
	case "flag":
		return c.handleFlag(args[1:])
	case "json":
		return c.handleJSON()
	case "preview":
		return c.handlePreview(args[1:])
	case "export":
		// The outcome, failure included, is printed by ExportDone.
		c.ctrl.Export(ctx)
		return nil
	case "help":
		c.printHelp()
		return nil
	case "exit", "quit":
		fmt.Fprintln(c.out, "Exiting...")
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (c *CLI) handleTree() error {
	tree := c.ctrl.Tree()
	selected := c.ctrl.SelectedID()
	tree.Walk(func(n *model.Node, depth int) bool {
		path, _ := tree.PathOf(n.ID)
		icon := model.IconLeaf
		switch {
		case n.IsRoot():
			icon = model.IconRoot
		case len(n.Children) > 0:
			icon = model.IconBranch
		}
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", depth), icon, n.Name)
		if len(n.Flags) > 0 {
			line += fmt.Sprintf(" %s%d", model.IconFlag, len(n.Flags))
		}
		if n.ID == selected {
			line += " " + model.IconSelected
		}
		fmt.Fprintf(c.out, "%-6s %s\n", path, line)
		return true
	})
	return nil
}

func (c *CLI) handleSelect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: select <path>")
	}
	id, err := c.ctrl.Tree().Resolve(args[0])
	if err != nil {
		return err
	}
	return c.ctrl.SelectNode(id)
}

func (c *CLI) handleShow() error {
	n, ok := c.ctrl.Selected()
	if !ok {
		fmt.Fprintln(c.out, "Nothing selected.")
		return nil
	}
	path, _ := c.ctrl.Tree().PathOf(n.ID)
	fmt.Fprintf(c.out, "Path:     %s\n", path)
	fmt.Fprintf(c.out, "Name:     %s\n", n.Name)
	fmt.Fprintf(c.out, "Use:      %s\n", n.Use)
	fmt.Fprintf(c.out, "Short:    %s\n", n.Short)
	fmt.Fprintf(c.out, "Commands: %d\n", len(n.Children))
	for _, f := range n.Flags {
		fmt.Fprintf(c.out, "  %s --%s (%s) %s\n", model.IconFlag, f.Name, f.Type, f.Description)
	}
	return nil
}

func (c *CLI) handleAdd(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return fmt.Errorf("usage: add <name> [use] [short]")
	}
	fields := make([]string, 3)
	copy(fields, args)

	child, err := c.ctrl.SubmitAddCommand(fields[0], fields[1], fields[2])
	if err != nil {
		return err
	}
	path, _ := c.ctrl.Tree().PathOf(child.ID)
	fmt.Fprintf(c.out, "Added %s at %s\n", child.Name, path)
	return nil
}

func (c *CLI) handleFlag(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: flag <name> <type> [description]")
	}
	fields := make([]string, 3)
	copy(fields, args)

	c.ctrl.RequestAddFlag()
	f, err := c.ctrl.SubmitAddFlag(fields[0], fields[1], fields[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added flag --%s (%s)\n", f.Name, f.Type)
	if !codegen.Supported(f.Type) {
		fmt.Fprintf(c.out, "Note: type %q is not generated; supported: %s\n", f.Type, strings.Join(codegen.FlagTypes(), ", "))
	}
	return nil
}

func (c *CLI) handleJSON() error {
	data, err := c.ctrl.Tree().Serialize().Marshal()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(c.out)
	return err
}

func (c *CLI) handlePreview(args []string) error {
	path := model.RootPath
	switch {
	case len(args) == 1:
		path = args[0]
	case len(args) > 1:
		return fmt.Errorf("usage: preview [path]")
	default:
		if id := c.ctrl.SelectedID(); id != model.NoNode {
			path, _ = c.ctrl.Tree().PathOf(id)
		}
	}

	p, err := codegen.PreviewAt(c.ctrl.Tree().Serialize(), path)
	if err != nil {
		return err
	}
	fmt.Fprint(c.out, p.Usage)
	for _, w := range p.Warnings {
		fmt.Fprintln(c.out, "Warning:", w)
	}
	return nil
}

var commandHelp = []struct{ usage, desc string }{
	{"tree", "Show the command tree with logical paths"},
	{"select <path>", "Select the node at a path (0 is the root, 1.2 the second child of the first)"},
	{"show", "Show the selected node"},
	{"add <name> [use] [short]", "Add a command under the selected node"},
	{"flag <name> <type> [description]", "Add a flag to the selected node"},
	{"json", "Print the tree as JSON"},
	{"preview [path]", "Print cobra's usage for a node"},
	{"export", "Send the tree to the generator and print the code"},
	{"help", "Show this help"},
	{"exit", "Leave"},
}

func (c *CLI) printHelp() {
	fmt.Fprintln(c.out, "Available commands:")
	for _, h := range commandHelp {
		fmt.Fprintf(c.out, "  %-34s %s\n", h.usage, h.desc)
	}
	fmt.Fprintln(c.out, `Quote arguments that contain spaces: add build "build [target]" "Build it"`)
}
