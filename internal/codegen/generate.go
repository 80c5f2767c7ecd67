// Package codegen turns a command tree into the source of a cobra program.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"

	"cmdtree/internal/model"
)

// fileContext holds all data needed to render main.go.
type fileContext struct {
	Version  string
	Commands []commandDef // Pre-order, root first
}

// commandDef represents a single cobra.Command var in the generated file.
type commandDef struct {
	Var      string    // Go identifier (e.g., "buildCmd")
	Name     string    // Node name
	Use      string    // cobra Use line; the node name when unset
	Short    string    // cobra Short
	Flags    []flagDef // Supported flags in insertion order
	Children []string  // Vars of child commands in insertion order
}

type flagDef struct {
	Func        string
	Name        string
	Zero        string
	Description string
}

// Generate renders a gofmt-formatted main.go for the tree rooted at root.
// The root becomes rootCmd. Flags with unsupported types are skipped.
func Generate(root model.Command) (string, error) {
	ctx := fileContext{Version: model.Version}
	names := newNamer()
	collect(&ctx, root, nil, "rootCmd", names)

	var buf bytes.Buffer
	if err := mainTemplate.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render main.go template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("format generated source: %w", err)
	}
	return string(src), nil
}

// collect appends the command for c and its subtree in pre-order.
func collect(ctx *fileContext, c model.Command, path []string, varName string, names *namer) {
	def := commandDef{
		Var:   varName,
		Name:  c.Name,
		Use:   c.Use,
		Short: c.Short,
	}
	if def.Use == "" {
		def.Use = c.Name
	}
	// Same rules as addFlag in preview.go: pflag panics on a redefined or
	// empty name at init.
	seen := make(map[string]bool, len(c.Flags))
	for _, f := range c.Flags {
		ft, ok := lookupFlagType(f.Type)
		if !ok || f.Name == "" || seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		def.Flags = append(def.Flags, flagDef{
			Func:        ft.Func,
			Name:        f.Name,
			Zero:        ft.Zero,
			Description: f.Description,
		})
	}

	idx := len(ctx.Commands)
	ctx.Commands = append(ctx.Commands, def)

	for _, child := range c.Children {
		childPath := append(append([]string(nil), path...), child.Name)
		childVar := names.assign(childPath)
		ctx.Commands[idx].Children = append(ctx.Commands[idx].Children, childVar)
		collect(ctx, child, childPath, childVar, names)
	}
}

// namer hands out unique, valid Go identifiers.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	return &namer{used: map[string]bool{"rootCmd": true}}
}

func (n *namer) assign(path []string) string {
	base := toVarName(path)
	if base == "" {
		base = "cmd"
	}
	name := base
	for i := 2; n.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.used[name] = true
	return name
}
