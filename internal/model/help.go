package model

import (
	_ "embed"
	"strings"
)

//go:embed help.md
var helpMD string

// HelpText returns the user guide as markdown.
func HelpText() string {
	return strings.ReplaceAll(helpMD, "{{VERSION}}", Version)
}
