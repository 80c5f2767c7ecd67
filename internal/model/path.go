package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadPath is returned when a logical path does not name a node.
var ErrBadPath = errors.New("no node at path")

// RootPath is the logical path of the root container.
const RootPath = "0"

// PathOf returns the logical path of a node: "0" for the root, "1" for its
// first child, "1.2" for the second child of that child.
func (t *Tree) PathOf(id NodeID) (string, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return "", false
	}
	if n.parent == nil {
		return RootPath, true
	}

	var parts []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		idx := indexOf(cur.parent.Children, cur)
		parts = append([]string{strconv.Itoa(idx + 1)}, parts...)
	}
	return strings.Join(parts, "."), true
}

// Resolve returns the id of the node at a logical path.
func (t *Tree) Resolve(path string) (NodeID, error) {
	path = strings.TrimSpace(path)
	if path == RootPath || path == "" {
		return t.root.ID, nil
	}

	cur := t.root
	for _, part := range strings.Split(path, ".") {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 1 || idx > len(cur.Children) {
			return NoNode, fmt.Errorf("%w %q", ErrBadPath, path)
		}
		cur = cur.Children[idx-1]
	}
	return cur.ID, nil
}

func indexOf(nodes []*Node, n *Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}
