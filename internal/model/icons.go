package model

// Centralized icons for the tree views
// Using simple single-width characters for consistent terminal rendering
const (
	IconLeaf     = "•" // Command without subcommands
	IconBranch   = "▾" // Command with subcommands
	IconRoot     = "◆" // Root container
	IconSelected = "●" // Current edit target
	IconFlag     = "⚑" // Flag attached to a command
)
