package tui

import (
	"fmt"
	"strings"

	"cmdtree/internal/model"
)

// row is one line of the outline panel.
type row struct {
	ID     model.NodeID
	Prefix string // Tree drawing characters
	Node   *model.Node
}

// outline flattens the tree in pre-order with box-drawing prefixes.
func outline(root *model.Node) []row {
	rows := []row{{ID: root.ID, Node: root}}

	var walk func(n *model.Node, indent string)
	walk = func(n *model.Node, indent string) {
		for i, child := range n.Children {
			last := i == len(n.Children)-1
			branch, next := "├── ", "│   "
			if last {
				branch, next = "└── ", "    "
			}
			rows = append(rows, row{ID: child.ID, Prefix: indent + branch, Node: child})
			walk(child, indent+next)
		}
	}
	walk(root, "")
	return rows
}

func (r row) label() string {
	icon := model.IconLeaf
	switch {
	case r.Node.IsRoot():
		icon = model.IconRoot
	case len(r.Node.Children) > 0:
		icon = model.IconBranch
	}

	var b strings.Builder
	b.WriteString(r.Prefix)
	b.WriteString(icon)
	b.WriteString(" ")
	b.WriteString(r.Node.Name)
	if n := len(r.Node.Flags); n > 0 {
		fmt.Fprintf(&b, " %s%d", model.IconFlag, n)
	}
	return b.String()
}
