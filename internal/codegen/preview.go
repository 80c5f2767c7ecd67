package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cmdtree/internal/model"
)

// Preview is cobra's view of one command in the tree.
type Preview struct {
	CommandPath string   // e.g. "root build"
	Usage       string   // cobra usage text
	Warnings    []string // Flags or commands cobra or the generator would not accept
}

// BuildCobra assembles a live cobra command tree mirroring root. Flags that
// pflag would reject are left out and reported as warnings instead of
// panicking. The returned map is keyed by logical path.
func BuildCobra(root model.Command) (*cobra.Command, map[string]*cobra.Command, []string) {
	byPath := make(map[string]*cobra.Command)
	var warnings []string

	var build func(c model.Command, path, label string) *cobra.Command
	build = func(c model.Command, path, label string) *cobra.Command {
		use := c.Use
		if use == "" {
			use = c.Name
		}
		cmd := &cobra.Command{
			Use:   use,
			Short: c.Short,
			Run:   func(*cobra.Command, []string) {},
		}
		byPath[path] = cmd

		if strings.TrimSpace(c.Name) == "" {
			warnings = append(warnings, fmt.Sprintf("%s: command has no name", label))
		}
		for _, f := range c.Flags {
			if w := addFlag(cmd.Flags(), f); w != "" {
				warnings = append(warnings, fmt.Sprintf("%s: %s", label, w))
			}
		}

		seen := make(map[string]bool)
		for i, child := range c.Children {
			childPath := strconv.Itoa(i + 1)
			if path != model.RootPath {
				childPath = path + "." + childPath
			}
			if child.Name != "" && seen[child.Name] {
				warnings = append(warnings, fmt.Sprintf("%s: duplicate subcommand %q", label, child.Name))
			}
			seen[child.Name] = true
			cmd.AddCommand(build(child, childPath, label+" "+child.Name))
		}
		return cmd
	}

	top := build(root, model.RootPath, root.Name)
	return top, byPath, warnings
}

// addFlag registers f on fs and returns a warning when it cannot.
func addFlag(fs *pflag.FlagSet, f model.Flag) string {
	if f.Name == "" {
		return "flag with empty name skipped"
	}
	if fs.Lookup(f.Name) != nil {
		return fmt.Sprintf("duplicate flag --%s skipped", f.Name)
	}
	switch f.Type {
	case "string":
		fs.String(f.Name, "", f.Description)
	case "bool":
		fs.Bool(f.Name, false, f.Description)
	case "int":
		fs.Int(f.Name, 0, f.Description)
	case "float64":
		fs.Float64(f.Name, 0, f.Description)
	case "duration":
		fs.Duration(f.Name, 0, f.Description)
	case "stringSlice":
		fs.StringSlice(f.Name, nil, f.Description)
	case "intSlice":
		fs.IntSlice(f.Name, nil, f.Description)
	default:
		return fmt.Sprintf("flag --%s has unsupported type %q and will not be generated", f.Name, f.Type)
	}
	return ""
}

// PreviewAt returns cobra's usage for the command at a logical path.
func PreviewAt(root model.Command, path string) (Preview, error) {
	if path == "" {
		path = model.RootPath
	}
	_, byPath, warnings := BuildCobra(root)
	cmd, ok := byPath[path]
	if !ok {
		return Preview{}, fmt.Errorf("preview: %w %q", model.ErrBadPath, path)
	}
	return Preview{
		CommandPath: cmd.CommandPath(),
		Usage:       cmd.UsageString(),
		Warnings:    warnings,
	}, nil
}
